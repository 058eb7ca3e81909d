package trials

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "harness", "trials.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	recs := []TrialRecord{
		{RunID: "run-a", Trial: 1, Model: "gpt-4o", Pass: true, CasesPassed: 13, CasesTotal: 13, Output: "GRADE:PASS\n"},
		{RunID: "run-a", Trial: 2, Model: "gpt-4o", Pass: false, CasesPassed: 12, CasesTotal: 13, Output: "GRADE:FAIL\n"},
		{RunID: "run-b", Trial: 1, Model: "gpt-4o-mini", Pass: false, CasesPassed: 0, CasesTotal: 0,
			SetupError: "missing doc comment", Output: "FAIL: missing doc comment\n"},
	}
	for _, rec := range recs {
		if err := s.SaveTrial(rec); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := s.Trials("run-a")
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trials, want 2", len(got))
	}
	if got[0].Trial != 1 || got[1].Trial != 2 {
		t.Error("trials not in trial order")
	}
	if !got[0].Pass || got[1].Pass {
		t.Error("pass flags not round-tripped")
	}
	if got[0].StartedAt == "" {
		t.Error("StartedAt must be defaulted on save")
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	for _, r := range runs {
		switch r.RunID {
		case "run-a":
			if r.Trials != 2 || r.Passes != 1 {
				t.Errorf("run-a summary: %+v", r)
			}
			if r.Rate() != 0.5 {
				t.Errorf("run-a rate: %v", r.Rate())
			}
		case "run-b":
			if r.Trials != 1 || r.Passes != 0 {
				t.Errorf("run-b summary: %+v", r)
			}
		default:
			t.Errorf("unexpected run %q", r.RunID)
		}
	}
}

func TestStoreRejectsDuplicateTrial(t *testing.T) {
	s := openTestStore(t)
	rec := TrialRecord{RunID: "run-a", Trial: 1, Model: "m", Output: ""}
	if err := s.SaveTrial(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveTrial(rec); err == nil {
		t.Fatal("duplicate (run_id, trial) must be rejected")
	}
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.db")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveTrial(TrialRecord{RunID: "r", Trial: 1, Model: "m", Output: ""}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Trials("r")
	if err != nil || len(got) != 1 {
		t.Fatalf("trials after reopen: %v, %d rows", err, len(got))
	}
}
