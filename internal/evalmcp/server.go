// Package evalmcp exposes the eval harness over MCP so an orchestrating
// agent can list cases, grade captured output, or drive a full run without
// shelling out to the protoeval binary.
package evalmcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"protoeval/internal/agent"
	"protoeval/internal/evalset"
	"protoeval/internal/grade"
	"protoeval/internal/harness"
	"protoeval/internal/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server. Tools are stateless: each call loads the
// cases file it names, so no session bookkeeping is needed.
type Server struct {
	MCPServer *sdkmcp.Server

	// Root is the default harness root for fixture resolution when a tool
	// call does not pass one. Captured at construction so relative fixture
	// paths resolve against the project, not whatever cwd the MCP host uses.
	Root string
}

// NewServer creates an MCP server with the eval tools registered.
func NewServer(root string) *Server {
	if root == "" {
		root, _ = os.Getwd()
	}
	s := &Server{Root: root}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "protoeval", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_cases",
		Description: "Load a cases file and return each case's fixture, kind, and expected outcome. Validates the file without invoking the agent.",
	}, s.handleListCases)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "grade_output",
		Description: "Grade already-captured agent output against the named case's expectations. Pure and deterministic — no subprocess is spawned.",
	}, s.handleGradeOutput)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_evals",
		Description: "Run every case in a cases file sequentially through the external agent and return the graded report.",
	}, s.handleRunEvals)
}

// --- Tool input/output types ---

type listCasesInput struct {
	CasesPath string `json:"cases_path" jsonschema:"path to the cases YAML/JSON file"`
	Root      string `json:"root,omitempty" jsonschema:"harness root for fixture resolution (default: server root)"`
}

type caseSummary struct {
	Fixture     string   `json:"fixture"`
	Kind        string   `json:"kind"`
	ExpectClean bool     `json:"expect_clean"`
	Severity    string   `json:"severity,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type listCasesOutput struct {
	Cases []caseSummary `json:"cases"`
	Total int           `json:"total"`
}

type gradeOutputInput struct {
	CasesPath string `json:"cases_path" jsonschema:"path to the cases YAML/JSON file"`
	Root      string `json:"root,omitempty" jsonschema:"harness root for fixture resolution (default: server root)"`
	Fixture   string `json:"fixture" jsonschema:"fixture path identifying the case to grade against"`
	RawOutput string `json:"raw_output" jsonschema:"captured agent output text"`
}

type gradeOutputOutput struct {
	Fixture string `json:"fixture"`
	Passed  bool   `json:"passed"`
	Reason  string `json:"reason"`
}

type runEvalsInput struct {
	CasesPath string `json:"cases_path" jsonschema:"path to the cases YAML/JSON file"`
	Root      string `json:"root,omitempty" jsonschema:"harness root for fixture resolution (default: server root)"`
	Model     string `json:"model,omitempty" jsonschema:"model override forwarded to the agent"`
	AgentBin  string `json:"agent_bin,omitempty" jsonschema:"agent CLI binary (default: opencode)"`
	AgentName string `json:"agent_name,omitempty" jsonschema:"agent name passed to the CLI (default: proto-event-contracts)"`
	TimeoutS  int    `json:"timeout_s,omitempty" jsonschema:"per-case timeout in seconds (default: 120)"`
}

type runEvalsOutput struct {
	Passed  int    `json:"passed"`
	Total   int    `json:"total"`
	Report  string `json:"report"`
	AllPass bool   `json:"all_pass"`
}

// --- Tool handlers ---

func (s *Server) handleListCases(_ context.Context, _ *sdkmcp.CallToolRequest, input listCasesInput) (*sdkmcp.CallToolResult, listCasesOutput, error) {
	cases, err := evalset.Load(s.resolveRoot(input.Root), input.CasesPath)
	if err != nil {
		return nil, listCasesOutput{}, fmt.Errorf("list_cases: %w", err)
	}
	out := listCasesOutput{Total: len(cases)}
	for _, c := range cases {
		out.Cases = append(out.Cases, caseSummary{
			Fixture:     c.Fixture,
			Kind:        string(c.Kind),
			ExpectClean: c.ExpectClean,
			Severity:    string(c.Severity),
			Keywords:    c.Keywords,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGradeOutput(_ context.Context, _ *sdkmcp.CallToolRequest, input gradeOutputInput) (*sdkmcp.CallToolResult, gradeOutputOutput, error) {
	cases, err := evalset.Load(s.resolveRoot(input.Root), input.CasesPath)
	if err != nil {
		return nil, gradeOutputOutput{}, fmt.Errorf("grade_output: %w", err)
	}
	for _, c := range cases {
		if c.Fixture != input.Fixture {
			continue
		}
		v := grade.Grade(c, agent.Result{RawOutput: input.RawOutput})
		return nil, gradeOutputOutput{Fixture: c.Fixture, Passed: v.Passed, Reason: v.Reason}, nil
	}
	return nil, gradeOutputOutput{}, fmt.Errorf("grade_output: no case with fixture %q in %s", input.Fixture, input.CasesPath)
}

func (s *Server) handleRunEvals(ctx context.Context, _ *sdkmcp.CallToolRequest, input runEvalsInput) (*sdkmcp.CallToolResult, runEvalsOutput, error) {
	agentName := input.AgentName
	if agentName == "" {
		agentName = "proto-event-contracts"
	}
	runner := &agent.CLIRunner{
		Bin:     input.AgentBin,
		Agent:   agentName,
		Timeout: time.Duration(input.TimeoutS) * time.Second,
		Log:     logging.New("agent"),
	}

	var buf bytes.Buffer
	report, err := harness.Run(ctx, harness.Config{
		Root:      s.resolveRoot(input.Root),
		CasesPath: input.CasesPath,
		Runner:    runner,
		Model:     input.Model,
		Out:       &buf,
		Log:       logging.New("harness"),
	})
	if err != nil && !errors.Is(err, harness.ErrCasesFailed) {
		return nil, runEvalsOutput{}, fmt.Errorf("run_evals: %w", err)
	}

	return nil, runEvalsOutput{
		Passed:  report.Passed(),
		Total:   report.Total(),
		Report:  buf.String(),
		AllPass: report.AllPassed(),
	}, nil
}

func (s *Server) resolveRoot(root string) string {
	if root != "" {
		return root
	}
	return s.Root
}
