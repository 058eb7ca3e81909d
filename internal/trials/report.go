package trials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TrialResult is one trial's outcome inside a run report.
type TrialResult struct {
	Trial       int    `json:"trial"`
	Pass        bool   `json:"pass"`
	CasesPassed int    `json:"cases_passed"`
	CasesTotal  int    `json:"cases_total"`
	SetupError  string `json:"setup_error,omitempty"`
	GenError    string `json:"gen_error,omitempty"`
	Dir         string `json:"dir"`
}

// RunReport is the complete output of one trial run, persisted as
// append-only JSON: one file per run, never overwritten.
type RunReport struct {
	RunID     string        `json:"run_id"`
	Model     string        `json:"model"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Results   []TrialResult `json:"results"`
	Passes    int           `json:"passes"`
	Trials    int           `json:"trials"`
}

// Rate is the fraction of passing trials.
func (r RunReport) Rate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Passes) / float64(r.Trials)
}

// FileReportStore persists run reports as one JSON file per run in a
// directory.
type FileReportStore struct {
	Dir string
}

// NewFileReportStore creates the store, ensuring the directory exists.
func NewFileReportStore(dir string) (*FileReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileReportStore{Dir: dir}, nil
}

// Save writes a report as pretty-printed JSON. Refuses to overwrite
// an existing run (append-only guarantee).
func (s *FileReportStore) Save(report RunReport) error {
	path := s.pathFor(report.RunID)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("run %q already exists at %s (append-only: refusing to overwrite)", report.RunID, path)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load reads a run report by ID.
func (s *FileReportStore) Load(runID string) (RunReport, error) {
	data, err := os.ReadFile(s.pathFor(runID))
	if err != nil {
		return RunReport{}, fmt.Errorf("read run %q: %w", runID, err)
	}
	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return RunReport{}, fmt.Errorf("parse run %q: %w", runID, err)
	}
	return report, nil
}

// List returns all run IDs in the store, sorted alphabetically.
func (s *FileReportStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileReportStore) pathFor(runID string) string {
	return filepath.Join(s.Dir, runID+".json")
}
