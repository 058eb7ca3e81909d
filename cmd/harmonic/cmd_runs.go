package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"harmonic/internal/trials"
)

var runsFlags struct {
	storePath string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded trial runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs with their pass rates",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show per-trial verdicts for one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsFlags.storePath, "store", filepath.Join("runs", "trials.db"), "SQLite trial history path")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	store, err := trials.OpenStore(runsFlags.storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tMODEL\tSTARTED\tPASSED\tRATE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.0f%%\n",
			r.RunID, r.Model, r.Started, r.Passes, r.Trials, r.Rate()*100)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := trials.OpenStore(runsFlags.storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Trials(args[0])
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no trials recorded for run %s", args[0])
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTARTED\tVERDICT\tCASES\tSETUP ERROR")
	for _, rec := range recs {
		verdict := "FAIL"
		if rec.Pass {
			verdict = "PASS"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%s\n",
			rec.Trial, rec.StartedAt, verdict, rec.CasesPassed, rec.CasesTotal, rec.SetupError)
	}
	return w.Flush()
}
