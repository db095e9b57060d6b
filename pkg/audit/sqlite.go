package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/hmcorch/pkg/policy"
)

const schema = `
CREATE TABLE IF NOT EXISTS applied_decisions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	applied_at  TIMESTAMP NOT NULL,
	lpar_uuid   TEXT NOT NULL,
	lpar_name   TEXT NOT NULL,
	frame_uuid  TEXT NOT NULL,
	cpu_delta   REAL NOT NULL,
	mem_delta   INTEGER NOT NULL,
	reasons     TEXT NOT NULL,
	decision    TEXT NOT NULL
);
`

// SQLiteSink persists applied Decisions to a SQLite database, one row
// per Decision, for deployments that want queryable audit history
// instead of (or alongside) the JSONL file sink.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (creating if absent) the database at path and
// ensures the applied_decisions table exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Record inserts one row for d.
func (s *SQLiteSink) Record(ctx context.Context, runID string, d policy.Decision) error {
	reasons, err := json.Marshal(d.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}
	decision, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applied_decisions (run_id, applied_at, lpar_uuid, lpar_name, frame_uuid, cpu_delta, mem_delta, reasons, decision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), d.LPARUUID, d.LPARName, d.FrameUUID, d.Delta.CPUEnt, d.Delta.MemMB, string(reasons), string(decision),
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
