package solution

import (
	"harmonic/pkg/label"
)

// MacroF1 computes the macro-averaged F1 score of pred against truth.
//
// Inputs are label sequences of equal length; a length mismatch
// returns label.ErrLengthMismatch. All NaN-valued labels count as one
// class, equality is type-strict otherwise, and zero denominators
// yield 0 for the affected precision, recall, or F1. The result is a
// float64 in [0, 1] and the inputs are never modified.
func MacroF1(truth, pred []label.Value) (float64, error) {
	if len(truth) != len(pred) {
		return 0, label.ErrLengthMismatch
	}

	yt := make([]label.Value, len(truth))
	yp := make([]label.Value, len(pred))
	for i := range truth {
		yt[i] = label.Normalize(truth[i])
		yp[i] = label.Normalize(pred[i])
	}

	classes := make(map[label.Value]bool)
	for _, v := range yt {
		classes[v] = true
	}
	for _, v := range yp {
		classes[v] = true
	}
	if len(classes) == 0 {
		return 0.0, nil
	}

	sum := 0.0
	for c := range classes {
		tp, fp, fn := 0, 0, 0
		for i := range yt {
			match := yt[i] == c
			predicted := yp[i] == c
			if match && predicted {
				tp++
			} else if !match && predicted {
				fp++
			} else if match && !predicted {
				fn++
			}
		}
		prec := 0.0
		if tp+fp > 0 {
			prec = float64(tp) / float64(tp+fp)
		}
		rec := 0.0
		if tp+fn > 0 {
			rec = float64(tp) / float64(tp+fn)
		}
		if prec+rec > 0 {
			sum += 2 * prec * rec / (prec + rec)
		}
	}
	return sum / float64(len(classes)), nil
}
