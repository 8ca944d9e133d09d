// Package agent invokes the external review agent and captures its output.
// The agent is an opaque, non-deterministic oracle: it accepts a fixture
// reference plus an instruction and produces free-text review output. The
// harness never interprets that text here — grading happens elsewhere.
package agent

import "context"

// Invocation describes one agent run against a fixture.
type Invocation struct {
	FixturePath string // resolved fixture path
	Instruction string // fixed natural-language instruction, chosen by the caller
	Model       string // optional model override; empty = agent default
}

// Result captures everything one invocation produced. ExitCode is
// informational only: the agent may exit 0 while reporting findings, so
// pass/fail never derives from it. Err is set when the process could not be
// started or timed out; RawOutput is empty in that case.
type Result struct {
	RawOutput string
	ExitCode  int
	Err       error
}

// Runner abstracts agent invocation so the grader and run controller can be
// exercised against a fake without spawning real processes.
type Runner interface {
	Invoke(ctx context.Context, inv Invocation) Result
}
