package grade

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"harmonic/pkg/label"
	"harmonic/pkg/metric"
)

const (
	// valueTolerance is the absolute tolerance for comparing the
	// candidate's result against the expected value.
	valueTolerance = 1e-9
	// rangeSlack widens the [0, 1] range check just enough to
	// forgive benign floating-point drift at the boundaries.
	rangeSlack = 1e-12
)

// Evaluate runs one case against the candidate and returns its
// verdict. It materializes the case inputs exactly once, so the
// candidate and the reference observe identical data even for
// one-shot sources, and checks for input mutation after a successful
// call.
func Evaluate(fn Func, c Case) Verdict {
	truth := slices.Collect(c.Truth)
	pred := slices.Collect(c.Pred)

	truthSnap := slices.Clone(truth)
	predSnap := slices.Clone(pred)

	out, err := invoke(fn, truth, pred)

	if c.ExpectErr != nil {
		switch {
		case err == nil:
			return fail(c, "expected %v, but no error was returned", c.ExpectErr)
		case errors.Is(err, c.ExpectErr):
			return Verdict{Name: c.Name, Pass: true, Detail: fmt.Sprintf("returned expected error: %v", c.ExpectErr)}
		default:
			return fail(c, "wrong error kind: %v", err)
		}
	}

	if err != nil {
		return fail(c, "unexpected error: %v", err)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return fail(c, "output %v is not finite", out)
	}
	if out < 0.0-rangeSlack || out > 1.0+rangeSlack {
		return fail(c, "output %v not in [0, 1]", out)
	}

	// The reference runs on the pre-call snapshots: a candidate that
	// mutates its inputs must be reported for the mutation, not for a
	// value mismatch against reference output computed from corrupted
	// data.
	want, wantErr := expected(c, truthSnap, predSnap)
	if wantErr != nil {
		return fail(c, "reference failed: %v", wantErr)
	}
	if math.Abs(out-want) > valueTolerance {
		return fail(c, "value mismatch: got=%.12f, expected=%.12f", out, want)
	}

	if !slicesEqual(truth, truthSnap) {
		return fail(c, "truth sequence was mutated")
	}
	if !slicesEqual(pred, predSnap) {
		return fail(c, "predicted sequence was mutated")
	}

	return Verdict{Name: c.Name, Pass: true, Value: out, Detail: fmt.Sprintf("%.12f", out)}
}

// invoke calls the candidate, converting a panic into an error so a
// crashing candidate fails its case instead of aborting the battery.
func invoke(fn Func, truth, pred []label.Value) (out float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = 0
			err = fmt.Errorf("candidate panicked: %v", r)
		}
	}()
	return fn(truth, pred)
}

// expected resolves the value the candidate must match: the literal
// expectation when the case pins one, otherwise the reference engine
// run on the pre-call snapshots of the materialized inputs.
func expected(c Case, truth, pred []label.Value) (float64, error) {
	if c.Expect != nil {
		return *c.Expect, nil
	}
	return metric.MacroF1(truth, pred)
}

// slicesEqual is the mutation guard comparison: plain label equality,
// position by position.
func slicesEqual(a, b []label.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !label.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func fail(c Case, format string, args ...any) Verdict {
	return Verdict{Name: c.Name, Detail: fmt.Sprintf(format, args...)}
}
