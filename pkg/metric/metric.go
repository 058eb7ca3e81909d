// Package metric implements the trusted reference for macro-averaged
// F1 over label sequences. Candidate implementations are graded
// against it; their own results must match within tolerance.
package metric

import (
	"fmt"
	"sort"

	"harmonic/pkg/label"
)

// Counts is the per-class confusion triple accumulated over a full
// pair sequence.
type Counts struct {
	TP int
	FP int
	FN int
}

// CountsFor scans the pair sequence once and accumulates the
// confusion counts for class c. All three arguments must already be
// normalized.
func CountsFor(c label.Value, truth, pred []label.Value) Counts {
	var n Counts
	for i := range truth {
		switch {
		case truth[i] == c && pred[i] == c:
			n.TP++
		case truth[i] != c && pred[i] == c:
			n.FP++
		case truth[i] == c && pred[i] != c:
			n.FN++
		}
	}
	return n
}

// F1 derives the per-class F1 from the confusion counts. Zero
// denominators yield 0.0 rather than an undefined value; that policy
// is part of the metric contract.
func (n Counts) F1() float64 {
	prec := 0.0
	if n.TP+n.FP > 0 {
		prec = float64(n.TP) / float64(n.TP+n.FP)
	}
	rec := 0.0
	if n.TP+n.FN > 0 {
		rec = float64(n.TP) / float64(n.TP+n.FN)
	}
	if prec+rec == 0 {
		return 0.0
	}
	return 2 * prec * rec / (prec + rec)
}

// MacroF1 computes the macro-averaged F1 of the predicted sequence
// against the truth sequence.
//
// The class set is the union of normalized labels from both
// sequences; every class carries equal weight regardless of
// frequency. Both empty yields 0.0. A length mismatch fails with
// label.ErrLengthMismatch before any computation. The result is
// always finite and in [0, 1], and does not depend on class
// enumeration order.
func MacroF1(truth, pred []label.Value) (float64, error) {
	if len(truth) != len(pred) {
		return 0, fmt.Errorf("macro-f1: got %d truth and %d predicted labels: %w",
			len(truth), len(pred), label.ErrLengthMismatch)
	}

	yt := normalizeAll(truth)
	yp := normalizeAll(pred)

	classes := make(map[label.Value]struct{})
	for _, v := range yt {
		classes[v] = struct{}{}
	}
	for _, v := range yp {
		classes[v] = struct{}{}
	}
	if len(classes) == 0 {
		return 0.0, nil
	}

	var sum float64
	for c := range classes {
		sum += CountsFor(c, yt, yp).F1()
	}
	return sum / float64(len(classes)), nil
}

// Classes returns the union of normalized classes from both
// sequences, sorted by canonical key. Computation never depends on
// this ordering; it exists for diagnostics and stable output.
func Classes(truth, pred []label.Value) []label.Value {
	set := make(map[label.Value]struct{})
	for _, v := range truth {
		set[label.Normalize(v)] = struct{}{}
	}
	for _, v := range pred {
		set[label.Normalize(v)] = struct{}{}
	}
	out := make([]label.Value, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func normalizeAll(vs []label.Value) []label.Value {
	out := make([]label.Value, len(vs))
	for i, v := range vs {
		out[i] = label.Normalize(v)
	}
	return out
}
