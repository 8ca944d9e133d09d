// Package harness orchestrates a full eval run: load cases, invoke the
// agent per case, grade, and report. Cases run strictly sequentially in
// load order — the agent backend is rate-limited and possibly stateful, so
// concurrent invocation is deliberately off the table, and stable ordering
// keeps CI logs diff-friendly.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"protoeval/internal/agent"
	"protoeval/internal/evalset"
	"protoeval/internal/grade"
)

// ErrCasesFailed marks a completed run in which at least one verdict failed.
// The CLI maps it to exit code 1, distinct from configuration errors.
var ErrCasesFailed = errors.New("one or more eval cases failed")

// Fixed instructions sent to the agent, selected per case by Kind. The
// invoker itself is instruction-agnostic.
const (
	reviewInstruction = "Review this proto file against the event contract standard. " +
		"List any must-fix or should-fix findings. " +
		"If the file is clean, say so explicitly."
	convertInstruction = "Convert this schema to comply with the event contract standard. " +
		"List any must-fix or should-fix findings you addressed during conversion."
)

// InstructionFor returns the instruction string for a case kind.
func InstructionFor(k evalset.Kind) string {
	if k == evalset.KindConvert {
		return convertInstruction
	}
	return reviewInstruction
}

// Config holds everything one run needs. Root is passed explicitly — fixture
// resolution never depends on ambient working-directory state.
type Config struct {
	Root      string       // harness root; fixtures resolve relative to it
	CasesPath string       // cases file (YAML, or JSON as a YAML subset)
	Runner    agent.Runner // agent invoker; fake-able in tests
	Model     string       // optional model override forwarded to the agent
	Verbose   bool         // dump full raw output per case
	Out       io.Writer    // report destination; nil = os.Stdout
	Log       *slog.Logger
}

// Report is the ordered outcome of a run. Verdict order matches case load
// order exactly.
type Report struct {
	Verdicts []grade.Verdict
}

// Passed returns the number of passing verdicts.
func (r *Report) Passed() int {
	n := 0
	for _, v := range r.Verdicts {
		if v.Passed {
			n++
		}
	}
	return n
}

// Total returns the number of graded cases.
func (r *Report) Total() int { return len(r.Verdicts) }

// AllPassed reports whether every verdict passed.
func (r *Report) AllPassed() bool { return r.Passed() == r.Total() }

// Run executes all cases and prints per-case status plus a summary to
// cfg.Out. It returns ErrCasesFailed when the run completed but at least one
// case failed; any other error is a configuration error (nothing ran).
// Invocation failures never abort the run — they become failing verdicts and
// the remaining cases still execute.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Log
	if logger == nil {
		logger = slog.Default().With("component", "harness")
	}

	cases, err := evalset.Load(cfg.Root, cfg.CasesPath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Loaded %d eval cases from %s\n\n", len(cases), cfg.CasesPath)

	report := &Report{}
	for i, c := range cases {
		if ctx.Err() != nil {
			return report, fmt.Errorf("run interrupted: %w", ctx.Err())
		}

		fmt.Fprintf(out, "[%d/%d] %s ... ", i+1, len(cases), c.Name())
		logger.Debug("invoking case", "fixture", c.FixturePath, "kind", c.Kind)

		res := cfg.Runner.Invoke(ctx, agent.Invocation{
			FixturePath: c.FixturePath,
			Instruction: InstructionFor(c.Kind),
			Model:       cfg.Model,
		})

		if cfg.Verbose && res.RawOutput != "" {
			fmt.Fprintf(out, "\n%s\n%s\n%s\n", rule, strings.TrimRight(res.RawOutput, "\n"), rule)
		}

		v := grade.Grade(c, res)
		report.Verdicts = append(report.Verdicts, v)

		status := "PASS"
		if !v.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s — %s\n", status, v.Reason)
		if !v.Passed && res.ExitCode != 0 {
			logger.Debug("agent exit status", "fixture", c.Fixture, "exit_code", res.ExitCode)
		}
	}

	fmt.Fprintf(out, "\n%s", FormatSummary(report))

	if !report.AllPassed() {
		return report, ErrCasesFailed
	}
	return report, nil
}

const rule = "------------------------------------------------------------"
