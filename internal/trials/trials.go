package trials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config controls one trial run.
type Config struct {
	Trials     int
	Model      string
	PromptPath string
	RunsDir    string // per-trial artifact directories live here
	Parallel   int    // concurrent trials; <=1 means sequential
}

// Orchestrator drives the generate → write → grade → record loop.
// The grading harness itself stays strictly sequential; only whole
// trials, each isolated in its own process and directory, run
// concurrently.
type Orchestrator struct {
	Config  Config
	Gen     Generator
	Grader  Grader
	Store   *Store           // optional trial history
	Reports *FileReportStore // optional JSON run reports
	Log     *slog.Logger
}

// Run executes all configured trials and returns the aggregated
// report. Individual trial failures (bad generation, failed grade)
// are recorded, not fatal; only environmental errors (unwritable
// artifact dirs, a grader that cannot start) abort the run.
func (o *Orchestrator) Run(ctx context.Context) (RunReport, error) {
	cfg := o.Config
	if cfg.Trials <= 0 {
		cfg.Trials = 1
	}

	prompt, err := BuildPrompt(cfg.PromptPath)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		RunID:     newRunID(),
		Model:     cfg.Model,
		StartTime: time.Now().UTC(),
		Trials:    cfg.Trials,
		Results:   make([]TrialResult, cfg.Trials),
	}
	o.Log.Info("starting trial run",
		slog.String("run_id", report.RunID),
		slog.Int("trials", cfg.Trials),
		slog.String("model", cfg.Model))

	if cfg.Parallel <= 1 {
		for n := 0; n < cfg.Trials; n++ {
			res, err := o.runTrial(ctx, report.RunID, n+1, prompt)
			if err != nil {
				return RunReport{}, err
			}
			report.Results[n] = res
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Parallel)
		for n := 0; n < cfg.Trials; n++ {
			g.Go(func() error {
				res, err := o.runTrial(gctx, report.RunID, n+1, prompt)
				if err != nil {
					return err
				}
				report.Results[n] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return RunReport{}, err
		}
	}

	for _, res := range report.Results {
		if res.Pass {
			report.Passes++
		}
	}
	report.EndTime = time.Now().UTC()

	if o.Reports != nil {
		if err := o.Reports.Save(report); err != nil {
			return report, err
		}
	}
	o.Log.Info("trial run finished",
		slog.String("run_id", report.RunID),
		slog.Int("passes", report.Passes),
		slog.Int("trials", report.Trials))
	return report, nil
}

func (o *Orchestrator) runTrial(ctx context.Context, runID string, n int, prompt string) (TrialResult, error) {
	dir := filepath.Join(o.Config.RunsDir, fmt.Sprintf("trial_%02d", n))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return TrialResult{}, fmt.Errorf("create trial dir: %w", err)
	}
	res := TrialResult{Trial: n, Dir: dir}
	started := nowUTC()

	raw, err := o.Gen.Generate(ctx, prompt)
	if err != nil {
		o.Log.Warn("generation failed", slog.Int("trial", n), slog.Any("error", err))
		res.GenError = err.Error()
		o.record(runID, res, started, "")
		return res, nil
	}
	writeArtifact(o.Log, dir, "raw.md", raw)

	solution := filepath.Join(dir, "solution.go")
	if err := os.WriteFile(solution, []byte(ExtractCode(raw)), 0o644); err != nil {
		return TrialResult{}, fmt.Errorf("write solution: %w", err)
	}

	outcome, err := o.Grader.Grade(ctx, solution)
	if err != nil {
		return TrialResult{}, err
	}
	writeArtifact(o.Log, dir, "grade.txt", outcome.Output)

	res.Pass = outcome.Pass
	res.CasesPassed = outcome.Passed
	res.CasesTotal = outcome.Total
	res.SetupError = outcome.Setup

	o.Log.Info("trial graded",
		slog.Int("trial", n),
		slog.Bool("pass", res.Pass),
		slog.Int("cases_passed", res.CasesPassed),
		slog.Int("cases_total", res.CasesTotal))

	o.record(runID, res, started, outcome.Output)
	return res, nil
}

// record persists the trial row; store errors are logged, not fatal,
// so one bad write never discards a finished trial's grade.
func (o *Orchestrator) record(runID string, res TrialResult, started, output string) {
	if o.Store == nil {
		return
	}
	err := o.Store.SaveTrial(TrialRecord{
		RunID:       runID,
		Trial:       res.Trial,
		Model:       o.Config.Model,
		StartedAt:   started,
		Pass:        res.Pass,
		CasesPassed: res.CasesPassed,
		CasesTotal:  res.CasesTotal,
		SetupError:  res.SetupError,
		Output:      output,
	})
	if err != nil {
		o.Log.Warn("persist trial", slog.Int("trial", res.Trial), slog.Any("error", err))
	}
}

func writeArtifact(log *slog.Logger, dir, name, content string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		log.Warn("write artifact", slog.String("name", name), slog.Any("error", err))
	}
}

func newRunID() string {
	return time.Now().UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}
