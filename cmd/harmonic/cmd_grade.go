package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"harmonic/internal/candidate"
	"harmonic/internal/grade"
	"harmonic/internal/inspect"
	"harmonic/internal/logging"
)

var gradeFlags struct {
	solution string
	scenario string
	logLevel string
	verbose  bool
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a candidate MacroF1 source file against the battery",
	Long: `Grade loads a candidate Go source file, checks it for style compliance
(doc comment, import allowlist, exported MacroF1 signature), then runs it
against the full battery of edge cases. Each case prints a PASS: or FAIL:
line; the final line is GRADE:PASS or GRADE:FAIL. Exit code is 0 only when
every case passes.`,
	RunE: runGrade,
}

func init() {
	f := gradeCmd.Flags()
	f.StringVar(&gradeFlags.solution, "solution", candidate.DefaultPath, "Path to the candidate source file")
	f.StringVar(&gradeFlags.scenario, "scenario", "", "Optional YAML scenario with extra cases")
	f.StringVar(&gradeFlags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	f.BoolVar(&gradeFlags.verbose, "verbose", false, "Shorthand for --log-level=debug")
}

func runGrade(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(gradeFlags.logLevel)
	if err != nil {
		return err
	}
	if gradeFlags.verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, "text")
	log := logging.New("grade")

	out := cmd.OutOrStdout()
	cases := grade.Battery()
	if gradeFlags.scenario != "" {
		extra, err := grade.LoadScenario(gradeFlags.scenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		cases = append(cases, extra...)
	}

	// Setup failures still produce a grade line so callers that only
	// watch stdout see a definitive failure, not silence.
	if _, err := inspect.CheckFile(gradeFlags.solution, candidate.FuncName); err != nil {
		fmt.Fprintf(out, "FAIL: %v\n", err)
		return fmt.Errorf("style check failed")
	}
	fn, err := candidate.Interpreted{}.Load(gradeFlags.solution, candidate.FuncName)
	if err != nil {
		fmt.Fprintf(out, "FAIL: %v\n", err)
		return fmt.Errorf("load candidate failed")
	}

	report := grade.Run(fn, cases, out, log)
	if !report.Pass() {
		// rootCmd.Execute exits 1 on error.
		return fmt.Errorf("%d/%d cases passed", report.Passed, report.Total)
	}
	return nil
}
