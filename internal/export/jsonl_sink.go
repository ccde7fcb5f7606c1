package export

import (
	"context"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/internal/platform/logging"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// JSONLSink writes feature rows as JSON lines, one match per line. The line
// shape mirrors the match_features table: fixed metadata fields plus a
// features object, with undefined values rendered as null.
type JSONLSink struct {
	path   string
	logger *logging.Logger

	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

// NewJSONLSink opens the target eagerly so a bad path fails at startup, not
// after a long extraction. An empty path or StdoutPath writes to stdout.
func NewJSONLSink(path string, logger *logging.Logger) (*JSONLSink, error) {
	if logger == nil {
		logger = logging.Default()
	}

	sink := &JSONLSink{path: strings.TrimSpace(path), logger: logger}
	if sink.path == "" || sink.path == StdoutPath {
		sink.out = os.Stdout
		return sink, nil
	}

	file, err := os.Create(sink.path)
	if err != nil {
		return nil, crerr.Wrapf(err, "create feature file %q", sink.path)
	}
	sink.file = file
	sink.out = file
	return sink, nil
}

func (s *JSONLSink) WriteRows(ctx context.Context, rows []features.Row) error {
	if len(rows) == 0 {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, row := range rows {
		line, err := sonic.Marshal(jsonlRowFromFeatures(row))
		if err != nil {
			return crerr.Wrapf(err, "encode feature row match_api_id=%d", row.MatchAPIID)
		}
		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(buf.Bytes()); err != nil {
		return crerr.Wrapf(err, "write feature rows to %s", s.target())
	}

	s.logger.InfoContext(ctx, "feature rows exported", "row_count", len(rows), "target", s.target())
	return nil
}

// Close flushes the file target. Closing a stdout sink is a no-op.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		return crerr.Wrapf(err, "close feature file %q", s.path)
	}
	s.file = nil
	return nil
}

func (s *JSONLSink) target() string {
	if s.file == nil {
		return "stdout"
	}
	return s.path
}

type jsonlRow struct {
	MatchAPIID    int64               `json:"match_api_id"`
	Season        string              `json:"season"`
	Date          string              `json:"date"`
	HomeTeamAPIID int64               `json:"home_team_api_id"`
	AwayTeamAPIID int64               `json:"away_team_api_id"`
	HomeGoals     int                 `json:"home_team_goal"`
	AwayGoals     int                 `json:"away_team_goal"`
	Outcome       string              `json:"outcome"`
	Features      map[string]*float64 `json:"features"`
}

func jsonlRowFromFeatures(row features.Row) jsonlRow {
	values := make(map[string]*float64, len(row.Values))
	for name, value := range row.Values {
		if math.IsNaN(value) {
			values[name] = nil
			continue
		}
		v := value
		values[name] = &v
	}

	return jsonlRow{
		MatchAPIID:    row.MatchAPIID,
		Season:        row.Season,
		Date:          row.Date.UTC().Format(time.RFC3339),
		HomeTeamAPIID: row.HomeTeamAPIID,
		AwayTeamAPIID: row.AwayTeamAPIID,
		HomeGoals:     row.HomeGoals,
		AwayGoals:     row.AwayGoals,
		Outcome:       row.Outcome,
		Features:      values,
	}
}
