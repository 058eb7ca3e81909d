package trials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// Outcome is the parsed result of one grading process run.
type Outcome struct {
	Pass     bool       `json:"pass"`
	Passed   int        `json:"passed"`
	Total    int        `json:"total"`
	Cases    []CaseLine `json:"cases"`
	Setup    string     `json:"setup,omitempty"` // fatal setup failure message, if any
	Output   string     `json:"-"`
	ExitCode int        `json:"exit_code"`
}

// CaseLine is one per-case diagnostic line from the grader's stdout.
type CaseLine struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail"`
}

// Grader grades one solution file.
type Grader interface {
	Grade(ctx context.Context, solutionPath string) (Outcome, error)
}

// ProcessGrader runs the harness binary in an isolated child process,
// which contains crashes and runaway candidates without taking the
// trial loop down.
type ProcessGrader struct {
	Bin  string   // harness binary, typically the current executable
	Args []string // leading arguments, e.g. ["grade"]
}

// Grade implements Grader.
func (g ProcessGrader) Grade(ctx context.Context, solutionPath string) (Outcome, error) {
	args := append(slices.Clone(g.Args), "--solution", solutionPath)
	cmd := exec.CommandContext(ctx, g.Bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exit := 0
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return Outcome{}, fmt.Errorf("run grader: %w", err)
		}
		exit = ee.ExitCode()
	}

	oc := ParseOutput(stdout.String())
	oc.ExitCode = exit
	// The exit code is the authoritative verdict; the parsed marker
	// must agree with it for a pass.
	oc.Pass = oc.Pass && exit == 0
	return oc, nil
}

// ParseOutput interprets the grader's stdout contract: per-case
// PASS:/FAIL: lines followed by a final GRADE marker. A FAIL line
// without a case name is a fatal setup message.
func ParseOutput(out string) Outcome {
	oc := Outcome{Output: out}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "GRADE:PASS":
			oc.Pass = true
		case line == "GRADE:FAIL":
			oc.Pass = false
		case strings.HasPrefix(line, "PASS:"):
			name, detail := splitCaseLine(line[len("PASS:"):])
			oc.Cases = append(oc.Cases, CaseLine{Name: name, Pass: true, Detail: detail})
			oc.Passed++
			oc.Total++
		case strings.HasPrefix(line, "FAIL:"):
			name, detail := splitCaseLine(line[len("FAIL:"):])
			if name == "" {
				oc.Setup = detail
				continue
			}
			oc.Cases = append(oc.Cases, CaseLine{Name: name, Detail: detail})
			oc.Total++
		}
	}
	return oc
}

func splitCaseLine(rest string) (name, detail string) {
	// "name: detail" for case lines; a setup message has no name
	// segment, only free text (possibly containing colons followed
	// by spaces inside the message itself, so require a plain
	// identifier-ish name).
	idx := strings.Index(rest, ": ")
	if idx <= 0 {
		return "", strings.TrimSpace(rest)
	}
	name = rest[:idx]
	if strings.ContainsAny(name, " \t") {
		return "", strings.TrimSpace(rest)
	}
	return name, strings.TrimSpace(rest[idx+2:])
}
