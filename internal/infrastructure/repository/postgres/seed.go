package postgres

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/matchsight/matchsight/internal/domain/attrs"
	"github.com/matchsight/matchsight/internal/domain/match"
	"github.com/matchsight/matchsight/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo dataset into an empty database. A database
// that already has matches is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM matches`); err != nil {
		return fmt.Errorf("count matches for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchQuery := seedMatchInsertQuery()
	for _, row := range memory.SeedMatchRows() {
		query, args, err := sqlx.Named(matchQuery, map[string]any(row))
		if err != nil {
			return fmt.Errorf("bind seed match query: %w", err)
		}
		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed match match_api_id=%d: %w", match.RowMatchAPIID(row), err)
		}
	}

	for _, entry := range sortedSeedEntries(memory.SeedPlayerHistories()) {
		if err := seedAttrInsert(ctx, tx, playerAttrsTable, playerAttrIDColumn, entry); err != nil {
			return err
		}
	}
	for _, entry := range sortedSeedEntries(memory.SeedTeamHistories()) {
		if err := seedAttrInsert(ctx, tx, teamAttrsTable, teamAttrIDColumn, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func seedMatchInsertQuery() string {
	cols := match.Columns()
	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(matchesTable)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(quotedMatchColumns(), ", "))
	buf.WriteString(") VALUES (")
	for i, col := range cols {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(":")
		buf.WriteString(col)
	}
	buf.WriteString(") ON CONFLICT (")
	buf.WriteString(match.ColMatchAPIID)
	buf.WriteString(") DO NOTHING")
	return buf.String()
}

func seedAttrInsert(ctx context.Context, tx *sqlx.Tx, table, idColumn string, entry attrs.Entry) error {
	names := make([]string, 0, len(entry.Values))
	for name := range entry.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := append([]string{idColumn, attrDateColumn}, names...)
	params := map[string]any{idColumn: entry.EntityID, attrDateColumn: entry.Date}
	for _, name := range names {
		if value := entry.Values[name]; math.IsNaN(value) {
			params[name] = nil
		} else {
			params[name] = value
		}
	}

	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(quoted, ", "))
	buf.WriteString(") VALUES (")
	for i, col := range cols {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(":")
		buf.WriteString(col)
	}
	buf.WriteString(") ON CONFLICT (")
	buf.WriteString(idColumn)
	buf.WriteString(", ")
	buf.WriteString(attrDateColumn)
	buf.WriteString(") DO NOTHING")

	query, args, err := sqlx.Named(buf.String(), params)
	if err != nil {
		return fmt.Errorf("bind seed %s query: %w", table, err)
	}
	query = tx.Rebind(query)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %s %s=%d: %w", table, idColumn, entry.EntityID, err)
	}
	return nil
}

func sortedSeedEntries(histories map[int64]attrs.History) []attrs.Entry {
	ids := make([]int64, 0, len(histories))
	for id := range histories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]attrs.Entry, 0, len(histories))
	for _, id := range ids {
		out = append(out, histories[id]...)
	}
	return out
}
