// Package mcp exposes the grading harness over the Model Context
// Protocol so agent frontends can grade candidate files and inspect
// the battery without shelling out to the CLI.
package mcp

import (
	"bytes"
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"harmonic/internal/candidate"
	"harmonic/internal/grade"
	"harmonic/internal/inspect"
	"harmonic/internal/logging"
)

// Server wraps the MCP SDK server around the grading core.
type Server struct {
	MCPServer *sdkmcp.Server

	loader candidate.Loader
}

// NewServer creates an MCP server exposing the grading tools.
func NewServer() *Server {
	s := &Server{loader: candidate.Interpreted{}}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "harmonic", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "grade_solution",
		Description: "Grade a candidate MacroF1 source file against the full battery. Returns per-case verdicts and the overall grade.",
	}, s.handleGradeSolution)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_battery",
		Description: "List the battery cases in execution order, with their expectation kind.",
	}, s.handleListBattery)
}

// --- Tool input/output types ---

type gradeSolutionInput struct {
	SolutionPath string `json:"solution_path,omitempty" jsonschema:"candidate source path (default starter/solution.go)"`
	ScenarioPath string `json:"scenario_path,omitempty" jsonschema:"optional YAML scenario with extra cases"`
}

type gradeSolutionOutput struct {
	Pass     bool            `json:"pass"`
	Passed   int             `json:"passed"`
	Total    int             `json:"total"`
	Verdicts []grade.Verdict `json:"verdicts,omitempty"`
	Setup    string          `json:"setup_error,omitempty"`
	Output   string          `json:"output"`
}

type listBatteryInput struct{}

type batteryCase struct {
	Name        string `json:"name"`
	ExpectError bool   `json:"expect_error"`
	Literal     bool   `json:"literal_expectation"`
}

type listBatteryOutput struct {
	Cases []batteryCase `json:"cases"`
}

// --- Tool handlers ---

func (s *Server) handleGradeSolution(_ context.Context, _ *sdkmcp.CallToolRequest, input gradeSolutionInput) (*sdkmcp.CallToolResult, gradeSolutionOutput, error) {
	log := logging.New("mcp-grade")

	path := input.SolutionPath
	if path == "" {
		path = candidate.DefaultPath
	}

	cases := grade.Battery()
	if input.ScenarioPath != "" {
		extra, err := grade.LoadScenario(input.ScenarioPath)
		if err != nil {
			return nil, gradeSolutionOutput{}, fmt.Errorf("load scenario: %w", err)
		}
		cases = append(cases, extra...)
	}

	// Setup failures are the tool's result, not a protocol error:
	// the caller asked "does this candidate grade?", and the answer
	// is a failing grade with the reason.
	if _, err := inspect.CheckFile(path, candidate.FuncName); err != nil {
		log.Info("style check failed", "error", err)
		return nil, gradeSolutionOutput{Setup: err.Error(), Output: "FAIL: " + err.Error() + "\n"}, nil
	}
	fn, err := s.loader.Load(path, candidate.FuncName)
	if err != nil {
		log.Info("load failed", "error", err)
		return nil, gradeSolutionOutput{Setup: err.Error(), Output: "FAIL: " + err.Error() + "\n"}, nil
	}

	var out bytes.Buffer
	report := grade.Run(fn, cases, &out, log)
	return nil, gradeSolutionOutput{
		Pass:     report.Pass(),
		Passed:   report.Passed,
		Total:    report.Total,
		Verdicts: report.Verdicts,
		Output:   out.String(),
	}, nil
}

func (s *Server) handleListBattery(_ context.Context, _ *sdkmcp.CallToolRequest, _ listBatteryInput) (*sdkmcp.CallToolResult, listBatteryOutput, error) {
	var out listBatteryOutput
	for _, c := range grade.Battery() {
		out.Cases = append(out.Cases, batteryCase{
			Name:        c.Name,
			ExpectError: c.ExpectErr != nil,
			Literal:     c.Expect != nil,
		})
	}
	return nil, out, nil
}
