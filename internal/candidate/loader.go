// Package candidate loads an externally supplied metric
// implementation from a Go source file at a well-known path and
// exposes it to the harness as a plain function value. Loading
// failures are fatal setup errors: the battery never runs against a
// candidate that did not load cleanly.
package candidate

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"harmonic/internal/grade"
	"harmonic/pkg/label"
)

const (
	// DefaultPath is the well-known relative location the
	// orchestration layer writes each candidate to.
	DefaultPath = "starter/solution.go"
	// FuncName is the required exported function name.
	FuncName = "MacroF1"
)

// Loader resolves a named function in a candidate source file.
type Loader interface {
	Load(path, funcName string) (grade.Func, error)
}

// Interpreted loads candidates by interpreting their source with
// yaegi. Interpreted code sees the Go standard library plus the
// harmonic/pkg/label API, nothing else.
type Interpreted struct{}

// Load reads, evaluates, and extracts funcName from the file at path.
func (Interpreted) Load(path, funcName string) (grade.Func, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidate: %w", err)
	}

	pkg, err := packageName(src)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("prepare interpreter: %w", err)
	}
	if err := i.Use(Symbols()); err != nil {
		return nil, fmt.Errorf("prepare interpreter: %w", err)
	}

	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("executing candidate raised an error: %w", err)
	}

	v, err := i.Eval(pkg + "." + funcName)
	if err != nil {
		return nil, fmt.Errorf("candidate must define a function named %s: %w", funcName, err)
	}

	fn, ok := v.Interface().(func([]label.Value, []label.Value) (float64, error))
	if !ok {
		return nil, fmt.Errorf("%s.%s must have signature func(truth, pred []label.Value) (float64, error)", pkg, funcName)
	}
	return grade.Func(fn), nil
}

// packageName reads just the package clause so the loader can address
// the function regardless of what the candidate named its package.
func packageName(src []byte) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "solution.go", src, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("candidate source does not parse: %w", err)
	}
	return file.Name.Name, nil
}
