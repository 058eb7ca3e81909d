package grade

import (
	"math"

	"harmonic/pkg/label"
)

// Battery returns the fixed, ordered set of cases every candidate is
// graded against. Each call builds fresh cases so one-shot sequences
// start unconsumed.
func Battery() []Case {
	nan := label.Float(math.NaN())

	imbalTruth := repeat(label.Int(0), 98)
	imbalTruth = append(imbalTruth, label.Int(1), label.Int(1))
	imbalPred := repeat(label.Int(0), 99)
	imbalPred = append(imbalPred, label.Int(1))

	return []Case{
		NewCase("balanced_3class",
			label.Strings("A", "A", "B", "B", "C", "C"),
			label.Strings("A", "B", "B", "B", "C", "A")),
		NewCase("no_pred_for_class",
			label.Ints(0, 0, 1, 1, 1, 2, 2),
			label.Ints(0, 0, 1, 1, 1, 0, 0)),
		NewCase("class_absent_in_truth",
			label.Ints(0, 0, 1, 1, 1, 0, 0),
			label.Ints(0, 0, 1, 1, 1, 2, 2)),
		NewCase("gapped_labels",
			label.Ints(0, 0, 2, 2, 5, 5, 5),
			label.Ints(0, 2, 2, 5, 5, 5, 0)),
		NewCase("string_labels_unseen_pred",
			label.Strings("dog", "dog", "cat", "cat", "mouse"),
			label.Strings("dog", "cat", "cat", "mouse", "unicorn")),
		NewCase("numeric_array",
			label.Ints(1, 1, 2, 2, 3, 3),
			label.Ints(1, 2, 2, 3, 3, 1)),
		NewCase("perfect",
			label.Strings("x", "y", "z", "x", "y", "z"),
			label.Strings("x", "y", "z", "x", "y", "z")).WithExpect(1.0),
		NewCase("all_wrong",
			label.Ints(0, 1, 2),
			label.Ints(1, 2, 0)),
		NewCase("length_mismatch",
			label.Ints(0, 1, 2),
			label.Ints(0, 1)).WithExpectErr(label.ErrLengthMismatch),
		NewCase("nan_as_label",
			[]label.Value{nan, label.String("a"), label.String("a"), nan, label.String("b")},
			[]label.Value{nan, label.String("a"), nan, label.String("x"), label.String("b")}),
		NewCase("extreme_imbalance", imbalTruth, imbalPred),
		NewCase("composite_labels",
			[]label.Value{
				label.Tuple(label.String("A"), label.Int(1)),
				label.Tuple(label.String("A"), label.Int(2)),
				label.String("B"),
				label.String("B"),
				label.Set(label.Int(1), label.Int(2)),
			},
			[]label.Value{
				label.Tuple(label.String("A"), label.Int(1)),
				label.String("B"),
				label.String("B"),
				label.Set(label.Int(2), label.Int(1)),
				label.Tuple(label.String("X"), label.Int(9)),
			}),
		Case{
			Name:  "generator_inputs",
			Truth: OnceSeq(label.Strings("a", "b", "a", "c")...),
			Pred:  OnceSeq(label.Strings("a", "a", "c", "c")...),
		},
	}
}

func repeat(v label.Value, n int) []label.Value {
	out := make([]label.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}
