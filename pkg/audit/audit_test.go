package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/hmcorch/pkg/policy"
)

func sampleDecision() policy.Decision {
	return policy.Decision{
		FrameUUID: "ms1",
		LPARUUID:  "lp1",
		LPARName:  "LP1",
		Current:   policy.Resources{CPUEnt: 1.0},
		Target:    policy.Resources{CPUEnt: 2.0},
		Delta:     policy.Resources{CPUEnt: 1.0},
		Reasons:   []string{"CPU above high threshold"},
	}
}

func TestFileSinkAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}

	if err := sink.Record(context.Background(), "run-1", sampleDecision()); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := sink.Record(context.Background(), "run-1", sampleDecision()); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var rec fileRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal line %d: %v", lines, err)
		}
		if rec.RunID != "run-1" {
			t.Errorf("RunID = %q, want run-1", rec.RunID)
		}
		if rec.Decision.LPARUUID != "lp1" {
			t.Errorf("Decision.LPARUUID = %q, want lp1", rec.Decision.LPARUUID)
		}
	}
	if lines != 2 {
		t.Fatalf("lines = %d, want 2", lines)
	}
}

func TestSQLiteSinkInsertsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	sink, err := NewSQLiteSink(path)
	if err != nil {
		t.Fatalf("NewSQLiteSink() error = %v", err)
	}
	defer sink.Close()

	if err := sink.Record(context.Background(), "run-1", sampleDecision()); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var count int
	if err := sink.db.QueryRow("SELECT COUNT(*) FROM applied_decisions WHERE run_id = ?", "run-1").Scan(&count); err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestNopSinkDiscards(t *testing.T) {
	var s NopSink
	if err := s.Record(context.Background(), "run-1", sampleDecision()); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
