package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"harmonic/internal/logging"
	"harmonic/internal/trials"
)

var trialsFlags struct {
	trials      int
	model       string
	temperature float32
	maxTokens   int
	parallel    int
	prompt      string
	runsDir     string
	storePath   string
	baseURL     string
	logLevel    string
}

var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Generate candidate implementations with an LLM and grade each one",
	Long: `Trials runs a campaign: for each trial it asks the model for a MacroF1
implementation, writes the extracted code to a per-trial directory, grades
it in a child process, and records the verdict. The run report is written
as JSON under the runs directory and each trial is saved to the SQLite
history.`,
	RunE: runTrials,
}

func init() {
	f := trialsCmd.Flags()
	f.IntVarP(&trialsFlags.trials, "trials", "n", 10, "Number of trials to run")
	f.StringVar(&trialsFlags.model, "model", "gpt-4o", "Model name for generation")
	f.Float32Var(&trialsFlags.temperature, "temperature", 1.0, "Sampling temperature")
	f.IntVar(&trialsFlags.maxTokens, "max-tokens", 0, "Max completion tokens (0 = provider default)")
	f.IntVar(&trialsFlags.parallel, "parallel", 1, "Number of concurrent trials (1 = serial)")
	f.StringVar(&trialsFlags.prompt, "prompt", trials.DefaultPromptPath, "Prompt file with the candidate task description")
	f.StringVar(&trialsFlags.runsDir, "runs-dir", "runs", "Directory for per-run artifacts and reports")
	f.StringVar(&trialsFlags.storePath, "store", filepath.Join("runs", "trials.db"), "SQLite trial history path (empty = disabled)")
	f.StringVar(&trialsFlags.baseURL, "base-url", "", "OpenAI-compatible endpoint base URL (default: $OPENAI_BASE_URL or the OpenAI API)")
	f.StringVar(&trialsFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runTrials(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(trialsFlags.logLevel)
	if err != nil {
		return err
	}
	logging.Init(level, "text")
	log := logging.New("trials")

	// .env is optional; environment variables win.
	_ = godotenv.Load()

	baseURL := trialsFlags.baseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	gen, err := trials.NewOpenAIGenerator(
		os.Getenv("OPENAI_API_KEY"),
		baseURL,
		trialsFlags.model,
		trialsFlags.temperature,
		trialsFlags.maxTokens,
	)
	if err != nil {
		return err
	}

	// Grade each candidate in a child process so a pathological
	// candidate cannot take the campaign down with it.
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate grader binary: %w", err)
	}
	grader := trials.ProcessGrader{Bin: self, Args: []string{"grade"}}

	reports, err := trials.NewFileReportStore(trialsFlags.runsDir)
	if err != nil {
		return err
	}

	orch := &trials.Orchestrator{
		Config: trials.Config{
			Trials:     trialsFlags.trials,
			Model:      trialsFlags.model,
			PromptPath: trialsFlags.prompt,
			RunsDir:    trialsFlags.runsDir,
			Parallel:   trialsFlags.parallel,
		},
		Gen:     gen,
		Grader:  grader,
		Reports: reports,
		Log:     log,
	}

	if trialsFlags.storePath != "" {
		store, err := trials.OpenStore(trialsFlags.storePath)
		if err != nil {
			return fmt.Errorf("open trial store: %w", err)
		}
		defer store.Close()
		orch.Store = store
	}

	report, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s: %d/%d trials passed (%.0f%%)\n",
		report.RunID, report.Passes, report.Trials, report.Rate()*100)
	for _, res := range report.Results {
		status := "FAIL"
		if res.Pass {
			status = "PASS"
		}
		detail := fmt.Sprintf("%d/%d cases", res.CasesPassed, res.CasesTotal)
		if res.GenError != "" {
			detail = "generation error: " + res.GenError
		} else if res.SetupError != "" {
			detail = "setup: " + res.SetupError
		}
		fmt.Fprintf(out, "  trial %02d: %s (%s)\n", res.Trial, status, detail)
	}
	log.Debug("run artifacts", slog.String("dir", trialsFlags.runsDir))
	return nil
}
