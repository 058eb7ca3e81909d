package grade

import (
	"fmt"
	"io"
	"log/slog"
)

// Run executes the cases in order against the candidate, writing one
// diagnostic line per case and the final grade marker to w. Cases are
// independent: a failure is recorded and execution continues.
//
// Output contract (consumed by the trials orchestrator):
//
//	PASS:<name>: <detail>
//	FAIL:<name>: <reason>
//	...
//	GRADE:PASS | GRADE:FAIL
func Run(fn Func, cases []Case, w io.Writer, log *slog.Logger) Report {
	report := Report{Total: len(cases)}

	for _, c := range cases {
		v := Evaluate(fn, c)
		if v.Pass {
			report.Passed++
			fmt.Fprintf(w, "PASS:%s: %s\n", v.Name, v.Detail)
		} else {
			fmt.Fprintf(w, "FAIL:%s: %s\n", v.Name, v.Detail)
			log.Debug("case failed", slog.String("case", v.Name), slog.String("detail", v.Detail))
		}
		report.Verdicts = append(report.Verdicts, v)
	}

	if report.Pass() {
		fmt.Fprintln(w, "GRADE:PASS")
	} else {
		fmt.Fprintln(w, "GRADE:FAIL")
	}
	return report
}
