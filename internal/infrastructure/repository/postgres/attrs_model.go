package postgres

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
)

const attrDateColumn = "date"

// Surrogate keys and FIFA ids never feed feature math.
var playerAttrSkipColumns = map[string]struct{}{
	"id":                 {},
	"player_fifa_api_id": {},
}

var teamAttrSkipColumns = map[string]struct{}{
	"id":               {},
	"team_fifa_api_id": {},
}

// attrEntryFromRow converts one scanned attribute row. Numeric columns land
// in Values with NULL kept as NaN; text grade columns are dropped since the
// snapshot model only carries numbers.
func attrEntryFromRow(raw map[string]any, idColumn string, skip map[string]struct{}) (attrs.Entry, error) {
	id, ok := raw[idColumn]
	if !ok || id == nil {
		return attrs.Entry{}, fmt.Errorf("attribute row has no %s", idColumn)
	}
	entityID, err := coerceInt64(id)
	if err != nil {
		return attrs.Entry{}, fmt.Errorf("attribute row %s: %w", idColumn, err)
	}

	date, ok := raw[attrDateColumn]
	if !ok || date == nil {
		return attrs.Entry{}, fmt.Errorf("attribute row has no %s", attrDateColumn)
	}
	at, err := coerceTime(date)
	if err != nil {
		return attrs.Entry{}, fmt.Errorf("attribute row %s: %w", attrDateColumn, err)
	}

	entry := attrs.Entry{
		EntityID: entityID,
		Date:     at,
		Values:   make(map[string]float64, len(raw)),
	}
	for column, value := range raw {
		if column == idColumn || column == attrDateColumn {
			continue
		}
		if _, drop := skip[column]; drop {
			continue
		}
		if value == nil {
			entry.Values[column] = math.NaN()
			continue
		}
		f, err := coerceFloat64(value)
		if err != nil {
			continue
		}
		entry.Values[column] = f
	}

	return entry, nil
}

func coerceInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(val)), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	default:
		return 0, fmt.Errorf("cannot read %T as integer", v)
	}
}

func coerceFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return 0, fmt.Errorf("cannot read %T as float", v)
	}
}

var attrTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func coerceTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case []byte:
		return parseAttrTime(string(val))
	case string:
		return parseAttrTime(val)
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as time", v)
	}
}

func parseAttrTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range attrTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
