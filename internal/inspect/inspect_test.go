package inspect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goodSource = `package solution

import (
	"math"

	"harmonic/pkg/label"
)

// MacroF1 computes the macro-averaged F1 score over two label
// sequences. Returns label.ErrLengthMismatch when lengths differ.
func MacroF1(truth, pred []label.Value) (float64, error) {
	_ = math.NaN()
	if len(truth) != len(pred) {
		return 0, label.ErrLengthMismatch
	}
	return 1.0, nil
}
`

func TestCheckSourceAccepts(t *testing.T) {
	rep, err := CheckSource([]byte(goodSource), "MacroF1")
	if err != nil {
		t.Fatalf("CheckSource: %v", err)
	}
	if rep.Package != "solution" {
		t.Errorf("package = %q, want solution", rep.Package)
	}
	if !strings.Contains(rep.Doc, "macro-averaged F1") {
		t.Errorf("doc not captured: %q", rep.Doc)
	}
	if len(rep.Imports) != 2 {
		t.Errorf("imports = %v, want 2 entries", rep.Imports)
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.go")
	if err := os.WriteFile(path, []byte(goodSource), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckFile(path, "MacroF1"); err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if _, err := CheckFile(filepath.Join(t.TempDir(), "absent.go"), "MacroF1"); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestCheckSourceRejects(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
	}{
		{
			name: "missing_doc",
			src: `package solution
import "harmonic/pkg/label"
func MacroF1(truth, pred []label.Value) (float64, error) { return 0, nil }
`,
			reason: "doc comment",
		},
		{
			name: "empty_doc",
			src: `package solution
import "harmonic/pkg/label"
//
func MacroF1(truth, pred []label.Value) (float64, error) { return 0, nil }
`,
			reason: "doc comment",
		},
		{
			name: "missing_function",
			src: `package solution

// F1 is the wrong name.
func F1() (float64, error) { return 0, nil }
`,
			reason: "function named MacroF1",
		},
		{
			name: "disallowed_import",
			src: `package solution

import "os/exec"

// MacroF1 cheats.
func MacroF1(truth, pred []int) (float64, error) { _ = exec.Command; return 0, nil }
`,
			reason: "not allowed",
		},
		{
			name: "reference_engine_import",
			src: `package solution

import "harmonic/pkg/metric"

// MacroF1 delegates to the reference.
func MacroF1(truth, pred []int) (float64, error) { return metric.MacroF1(nil, nil) }
`,
			reason: "not allowed",
		},
		{
			name: "wrong_arity",
			src: `package solution

// MacroF1 takes too few arguments.
func MacroF1(truth []int) (float64, error) { return 0, nil }
`,
			reason: "two arguments",
		},
		{
			name: "wrong_results",
			src: `package solution

// MacroF1 drops the error result.
func MacroF1(truth, pred []int) float64 { return 0 }
`,
			reason: "(float64, error)",
		},
		{
			name:   "unparsable",
			src:    `package solution func MacroF1(`,
			reason: "does not parse",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CheckSource([]byte(tc.src), "MacroF1")
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !strings.Contains(err.Error(), tc.reason) {
				t.Errorf("error %q does not mention %q", err, tc.reason)
			}
		})
	}
}

func TestCheckSourceIgnoresMethods(t *testing.T) {
	src := `package solution

type scorer struct{}

// MacroF1 the method is not the required top-level function.
func (scorer) MacroF1(truth, pred []int) (float64, error) { return 0, nil }
`
	if _, err := CheckSource([]byte(src), "MacroF1"); err == nil {
		t.Fatal("a method must not satisfy the top-level function requirement")
	}
}
