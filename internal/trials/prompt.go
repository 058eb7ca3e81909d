// Package trials is the outer evaluation loop: it repeatedly asks a
// generator for a fresh MacroF1 implementation, writes it to the
// well-known solution path, runs the grading harness as an isolated
// child process, and tallies pass rates across trials. Its only
// contract with the harness core is "write file, run process, read
// exit code and stdout".
package trials

import (
	"fmt"
	"os"
	"strings"
)

// DefaultPromptPath is the task prompt shown to the generator.
const DefaultPromptPath = "prompt.md"

const promptHeader = `You are an expert Go ML engineer. Return ONLY the contents of starter/solution.go
implementing MacroF1(truth, pred []label.Value) (float64, error). No explanations.
No extra files. Wrap your answer in a single ` + "```go" + ` fenced block.`

const promptReminders = `
Implementation reminders:
- Package clause first (any package name works; "solution" is conventional)
- Begin MacroF1 with a doc comment describing inputs, outputs, and edge cases
- Import only from the standard library basics and harmonic/pkg/label
- Return label.ErrLengthMismatch (optionally wrapped) when lengths differ
- Normalize labels so every NaN counts as one class (label.Normalize)
- Zero denominators yield 0.0 for precision, recall, and F1
- Do not mutate the input slices
- Return a float64 in [0, 1]`

// BuildPrompt assembles the full generation prompt: fixed header,
// the task prompt from path, and the implementation reminders.
func BuildPrompt(path string) (string, error) {
	base, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n")
	b.Write(base)
	b.WriteString("\n")
	b.WriteString(promptReminders)
	b.WriteString("\n")
	return b.String(), nil
}
