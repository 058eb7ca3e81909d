package grade

import (
	"errors"
	"math"
	"strings"
	"testing"

	"harmonic/pkg/label"
	"harmonic/pkg/metric"
)

// refCandidate is a known-good candidate backed by the reference
// engine itself.
func refCandidate(truth, pred []label.Value) (float64, error) {
	return metric.MacroF1(truth, pred)
}

func TestEvaluatePassesGoodCandidate(t *testing.T) {
	c := NewCase("basic", label.Ints(0, 1, 1), label.Ints(0, 1, 0))
	v := Evaluate(refCandidate, c)
	if !v.Pass {
		t.Fatalf("good candidate failed: %s", v.Detail)
	}
}

func TestEvaluateLiteralExpect(t *testing.T) {
	c := NewCase("pinned", label.Ints(1, 2), label.Ints(1, 2)).WithExpect(1.0)
	if v := Evaluate(refCandidate, c); !v.Pass {
		t.Fatalf("literal expectation not met: %s", v.Detail)
	}

	wrong := func(truth, pred []label.Value) (float64, error) { return 0.5, nil }
	v := Evaluate(wrong, c)
	if v.Pass {
		t.Fatal("candidate off the pinned literal must fail")
	}
	if !strings.Contains(v.Detail, "value mismatch") {
		t.Errorf("detail = %q, want value mismatch reason", v.Detail)
	}
}

func TestEvaluateValueMismatchWithinTolerance(t *testing.T) {
	nearly := func(truth, pred []label.Value) (float64, error) {
		ref, err := metric.MacroF1(truth, pred)
		return ref + 5e-10, err
	}
	c := NewCase("tolerant", label.Ints(0, 1, 1), label.Ints(0, 1, 0))
	if v := Evaluate(nearly, c); !v.Pass {
		t.Fatalf("drift within 1e-9 must pass: %s", v.Detail)
	}

	offBy := func(truth, pred []label.Value) (float64, error) {
		ref, err := metric.MacroF1(truth, pred)
		return ref + 1e-6, err
	}
	if v := Evaluate(offBy, c); v.Pass {
		t.Fatal("drift beyond tolerance must fail")
	}
}

func TestEvaluateOutOfRange(t *testing.T) {
	high := func(truth, pred []label.Value) (float64, error) { return 1.5, nil }
	v := Evaluate(high, NewCase("range", label.Ints(0), label.Ints(0)))
	if v.Pass || !strings.Contains(v.Detail, "not in [0, 1]") {
		t.Fatalf("out-of-range output not flagged: %+v", v)
	}
}

func TestEvaluateNonFinite(t *testing.T) {
	inf := func(truth, pred []label.Value) (float64, error) { return math.Inf(1), nil }
	v := Evaluate(inf, NewCase("finite", label.Ints(0), label.Ints(0)))
	if v.Pass || !strings.Contains(v.Detail, "not finite") {
		t.Fatalf("non-finite output not flagged: %+v", v)
	}
}

func TestEvaluateExpectedError(t *testing.T) {
	c := NewCase("mismatch", label.Ints(0, 1, 2), label.Ints(0, 1)).
		WithExpectErr(label.ErrLengthMismatch)

	if v := Evaluate(refCandidate, c); !v.Pass {
		t.Fatalf("expected-error case with correct error kind failed: %s", v.Detail)
	}

	silent := func(truth, pred []label.Value) (float64, error) { return 0.0, nil }
	if v := Evaluate(silent, c); v.Pass {
		t.Fatal("candidate that never errors must fail an expected-error case")
	}

	wrongKind := func(truth, pred []label.Value) (float64, error) {
		return 0, errors.New("something else entirely")
	}
	v := Evaluate(wrongKind, c)
	if v.Pass || !strings.Contains(v.Detail, "wrong error kind") {
		t.Fatalf("wrong error kind not flagged: %+v", v)
	}
}

func TestEvaluateWrappedErrorMatches(t *testing.T) {
	wrapping := func(truth, pred []label.Value) (float64, error) {
		if len(truth) != len(pred) {
			return 0, errors.Join(errors.New("inputs rejected"), label.ErrLengthMismatch)
		}
		return metric.MacroF1(truth, pred)
	}
	c := NewCase("wrapped", label.Ints(0, 1, 2), label.Ints(0, 1)).
		WithExpectErr(label.ErrLengthMismatch)
	if v := Evaluate(wrapping, c); !v.Pass {
		t.Fatalf("wrapped sentinel must satisfy errors.Is matching: %s", v.Detail)
	}
}

func TestEvaluateUnexpectedError(t *testing.T) {
	broken := func(truth, pred []label.Value) (float64, error) {
		return 0, errors.New("boom")
	}
	v := Evaluate(broken, NewCase("err", label.Ints(0), label.Ints(0)))
	if v.Pass || !strings.Contains(v.Detail, "unexpected error") {
		t.Fatalf("unexpected error not flagged: %+v", v)
	}
}

func TestEvaluateRecoversPanic(t *testing.T) {
	crashing := func(truth, pred []label.Value) (float64, error) {
		var m map[string]int
		m["x"] = 1 // nil map write
		return 0, nil
	}
	v := Evaluate(crashing, NewCase("panic", label.Ints(0), label.Ints(0)))
	if v.Pass || !strings.Contains(v.Detail, "panicked") {
		t.Fatalf("panic not converted to a case failure: %+v", v)
	}
}

func TestEvaluatePanicDoesNotSatisfyExpectedError(t *testing.T) {
	crashing := func(truth, pred []label.Value) (float64, error) {
		panic("length problem")
	}
	c := NewCase("panic_vs_error", label.Ints(0, 1, 2), label.Ints(0, 1)).
		WithExpectErr(label.ErrLengthMismatch)
	if v := Evaluate(crashing, c); v.Pass {
		t.Fatal("a panic must not count as the expected error kind")
	}
}

func TestEvaluateFlagsMutation(t *testing.T) {
	mutating := func(truth, pred []label.Value) (float64, error) {
		out, err := metric.MacroF1(truth, pred)
		truth[0] = label.String("clobbered")
		return out, err
	}
	v := Evaluate(mutating, NewCase("mut", label.Ints(0, 1), label.Ints(0, 1)))
	if v.Pass {
		t.Fatal("mutating candidate passed despite correct value")
	}
	if !strings.Contains(v.Detail, "truth sequence was mutated") {
		t.Errorf("detail = %q, want truth mutation reason", v.Detail)
	}
	if strings.Contains(v.Detail, "value mismatch") {
		t.Errorf("detail = %q: mutation must not surface as a value mismatch", v.Detail)
	}

	predMutating := func(truth, pred []label.Value) (float64, error) {
		out, err := metric.MacroF1(truth, pred)
		pred[len(pred)-1] = label.Int(99)
		return out, err
	}
	v = Evaluate(predMutating, NewCase("mut2", label.Ints(0, 1), label.Ints(0, 1)))
	if v.Pass || !strings.Contains(v.Detail, "predicted sequence was mutated") {
		t.Fatalf("pred mutation not flagged: %+v", v)
	}
}

func TestEvaluateNormalizingInPlaceIsNotMutation(t *testing.T) {
	// Rewriting a raw NaN float to the canonical NaN tag does not
	// change any label's class, so the guard must not fire.
	normalizing := func(truth, pred []label.Value) (float64, error) {
		for i := range truth {
			truth[i] = label.Normalize(truth[i])
		}
		return metric.MacroF1(truth, pred)
	}
	c := NewCase("normalize_inplace",
		[]label.Value{label.Float(math.NaN()), label.Int(1)},
		[]label.Value{label.NaN(), label.Int(1)})
	if v := Evaluate(normalizing, c); !v.Pass {
		t.Fatalf("class-preserving rewrite flagged as mutation: %s", v.Detail)
	}
}

func TestEvaluateGeneratorInputsSharedWithReference(t *testing.T) {
	c := Case{
		Name:  "one_shot",
		Truth: OnceSeq(label.Strings("a", "b", "a", "c")...),
		Pred:  OnceSeq(label.Strings("a", "a", "c", "c")...),
	}
	v := Evaluate(refCandidate, c)
	if !v.Pass {
		t.Fatalf("one-shot inputs must be materialized once and shared: %s", v.Detail)
	}
	want := 7.0 / 18.0
	if diff := v.Value - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("value = %.12f, want %.12f", v.Value, want)
	}
}
