// Package grade contains the harness core: the candidate oracle, the
// mutation guard, the fixed test battery, and the runner that turns
// per-case verdicts into an overall grade.
package grade

import (
	"iter"
	"slices"

	"harmonic/pkg/label"
)

// Func is the candidate contract: a metric implementation under test.
// It receives the truth and predicted sequences, returns a value in
// [0, 1], and returns an error matching label.ErrLengthMismatch when
// the lengths differ.
type Func func(truth, pred []label.Value) (float64, error)

// Case is one named battery entry. Inputs are sequences rather than
// slices so that one-shot sources (the generator cases) are first
// class; the oracle materializes each sequence exactly once.
//
// Cases are built once at battery-definition time and never modified
// afterwards.
type Case struct {
	Name      string
	Truth     iter.Seq[label.Value]
	Pred      iter.Seq[label.Value]
	Expect    *float64 // literal expected value; nil = compare against the reference
	ExpectErr error    // expected error kind; nil = no error expected
}

// NewCase builds a case whose inputs are re-iterable slices.
func NewCase(name string, truth, pred []label.Value) Case {
	return Case{Name: name, Truth: slices.Values(truth), Pred: slices.Values(pred)}
}

// WithExpect pins the case to a literal expected value instead of the
// reference result.
func (c Case) WithExpect(v float64) Case {
	c.Expect = &v
	return c
}

// WithExpectErr marks the case as requiring an error of the given
// kind from the candidate.
func (c Case) WithExpectErr(kind error) Case {
	c.ExpectErr = kind
	return c
}

// OnceSeq returns a one-shot sequence over the given labels. The
// first iteration yields every value; later iterations yield nothing.
// Battery generator cases use it to verify the harness materializes
// inputs exactly once.
func OnceSeq(vals ...label.Value) iter.Seq[label.Value] {
	consumed := false
	return func(yield func(label.Value) bool) {
		if consumed {
			return
		}
		consumed = true
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

// Verdict is the recorded outcome of one case.
type Verdict struct {
	Name   string  `json:"name"`
	Pass   bool    `json:"pass"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail"`
}

// Report aggregates the verdicts of one battery run.
type Report struct {
	Verdicts []Verdict `json:"verdicts"`
	Passed   int       `json:"passed"`
	Total    int       `json:"total"`
}

// Pass reports whether every case passed.
func (r Report) Pass() bool { return r.Total > 0 && r.Passed == r.Total }
