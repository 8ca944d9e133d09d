package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds one agent invocation. Matches the original runner's
// 120s budget; override via CLIRunner.Timeout.
const DefaultTimeout = 120 * time.Second

// waitDelay is how long Wait gives the child after context cancellation
// before the process is killed outright. Keeps terminated runs from leaving
// orphaned agent processes behind.
const waitDelay = 5 * time.Second

// CLIRunner invokes the agent through the opencode CLI:
//
//	opencode run --agent <name> -f <fixture> "<instruction>" [--model m]
//
// stdout and stderr are captured merged, since the agent interleaves
// findings and diagnostics across both streams.
type CLIRunner struct {
	Bin     string        // agent CLI binary; empty = "opencode"
	Agent   string        // agent name passed to --agent
	Timeout time.Duration // per-invocation wall clock bound; 0 = DefaultTimeout
	Log     *slog.Logger
}

// Invoke launches the agent synchronously and blocks until it terminates or
// the timeout elapses. Start failures and timeouts populate Result.Err and
// never propagate as panics or returned errors — the run controller converts
// them into failing verdicts. No retries: invocations are expensive and
// non-deterministic, so a retry would add cost without reproducibility.
func (r *CLIRunner) Invoke(ctx context.Context, inv Invocation) Result {
	bin := r.Bin
	if bin == "" {
		bin = "opencode"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// A missing fixture is a per-case invocation error, not a reason to
	// burn an agent call that cannot succeed.
	if _, statErr := os.Stat(inv.FixturePath); statErr != nil {
		return Result{Err: fmt.Errorf("fixture not found: %s", inv.FixturePath)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"run", "--agent", r.Agent, "-f", inv.FixturePath, inv.Instruction}
	if inv.Model != "" {
		args = append(args, "--model", inv.Model)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	if r.Log != nil {
		r.Log.Debug("invoking agent", "bin", bin, "fixture", inv.FixturePath, "model", inv.Model)
	}

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{Err: fmt.Errorf("agent timed out after %s", timeout)}
		}
		if ctx.Err() == context.Canceled {
			return Result{Err: fmt.Errorf("agent invocation canceled: %w", ctx.Err())}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The agent ran to completion and exited non-zero. That is not
			// an invocation failure: the output still gets graded, and the
			// exit code is surfaced for diagnostics only.
			return Result{RawOutput: out.String(), ExitCode: exitErr.ExitCode()}
		}
		return Result{Err: fmt.Errorf("start agent %q: %w", bin, err)}
	}

	return Result{RawOutput: out.String()}
}
