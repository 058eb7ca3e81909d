// Package inspect performs the pre-run style check on a candidate
// source file: the required function must exist with the right shape,
// it must start with a non-empty doc comment, and the file may only
// import from a small allowlist. Every violation here is fatal to the
// whole run; no test case executes after one.
package inspect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// allowedImports is the closed set of packages a candidate file may
// import. The reference engine's package is deliberately absent so a
// candidate cannot delegate to it.
var allowedImports = map[string]bool{
	"errors":             true,
	"fmt":                true,
	"math":               true,
	"sort":               true,
	"strconv":            true,
	"strings":            true,
	"slices":             true,
	"maps":               true,
	"harmonic/pkg/label": true,
}

// Report describes the inspected candidate.
type Report struct {
	Package  string
	FuncName string
	Doc      string
	Imports  []string
}

// CheckFile parses the candidate source at path and validates that
// funcName satisfies the style contract. It returns the parsed
// metadata on success.
func CheckFile(path, funcName string) (*Report, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("candidate source does not parse: %w", err)
	}
	return check(file, funcName)
}

// CheckSource is CheckFile over in-memory source, used by tests and
// by callers that already hold the file contents.
func CheckSource(src []byte, funcName string) (*Report, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "solution.go", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("candidate source does not parse: %w", err)
	}
	return check(file, funcName)
}

func check(file *ast.File, funcName string) (*Report, error) {
	rep := &Report{Package: file.Name.Name, FuncName: funcName}

	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("malformed import path %s", imp.Path.Value)
		}
		rep.Imports = append(rep.Imports, p)
		if !allowedImports[p] {
			return nil, fmt.Errorf("import %q is not allowed; candidates may only import: %s",
				p, strings.Join(allowedList(), ", "))
		}
	}

	fn := findFunc(file, funcName)
	if fn == nil {
		return nil, fmt.Errorf("candidate must define a top-level function named %s", funcName)
	}

	if err := checkSignature(fn); err != nil {
		return nil, err
	}

	doc := strings.TrimSpace(fn.Doc.Text())
	if doc == "" {
		return nil, fmt.Errorf("%s must start with a doc comment describing inputs, outputs, and edge cases", funcName)
	}
	rep.Doc = doc

	return rep, nil
}

func findFunc(file *ast.File, name string) *ast.FuncDecl {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if fn.Name.Name == name {
			return fn
		}
	}
	return nil
}

// checkSignature verifies the candidate takes two parameters and
// returns two results. Exact types are enforced later by the loader;
// catching the arity here gives a clearer setup error than a failed
// type assertion.
func checkSignature(fn *ast.FuncDecl) error {
	params := 0
	for _, f := range fn.Type.Params.List {
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		params += n
	}
	if params != 2 {
		return fmt.Errorf("%s must take exactly two arguments (truth, predicted), got %d", fn.Name.Name, params)
	}

	results := 0
	if fn.Type.Results != nil {
		for _, f := range fn.Type.Results.List {
			n := len(f.Names)
			if n == 0 {
				n = 1
			}
			results += n
		}
	}
	if results != 2 {
		return fmt.Errorf("%s must return (float64, error), got %d results", fn.Name.Name, results)
	}
	return nil
}

func allowedList() []string {
	out := make([]string, 0, len(allowedImports))
	for p := range allowedImports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
