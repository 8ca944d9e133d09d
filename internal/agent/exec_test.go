package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"protoeval/internal/agent"
)

// writeStub creates an executable shell script standing in for the agent CLI.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-opencode")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.proto")
	if err := os.WriteFile(path, []byte("syntax = \"proto3\";\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIRunner_MergesStdoutAndStderr(t *testing.T) {
	r := &agent.CLIRunner{
		Bin:   writeStub(t, "echo to-stdout\necho to-stderr >&2\n"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: writeFixture(t),
		Instruction: "Review this",
	})
	if res.Err != nil {
		t.Fatalf("Invoke: %v", res.Err)
	}
	if !strings.Contains(res.RawOutput, "to-stdout") || !strings.Contains(res.RawOutput, "to-stderr") {
		t.Errorf("output must merge both streams, got %q", res.RawOutput)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
}

// A non-zero agent exit is not an invocation failure: the output is still
// graded and the exit code is informational.
func TestCLIRunner_NonZeroExitKeepsOutput(t *testing.T) {
	r := &agent.CLIRunner{
		Bin:   writeStub(t, "echo findings reported\nexit 3\n"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: writeFixture(t),
		Instruction: "Review this",
	})
	if res.Err != nil {
		t.Fatalf("non-zero exit must not be an invocation error: %v", res.Err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.RawOutput, "findings reported") {
		t.Errorf("output lost on non-zero exit: %q", res.RawOutput)
	}
}

func TestCLIRunner_ArgvContract(t *testing.T) {
	fixture := writeFixture(t)
	r := &agent.CLIRunner{
		Bin:   writeStub(t, `printf '%s\n' "$@"`+"\n"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: fixture,
		Instruction: "Review this proto file",
		Model:       "sonnet",
	})
	if res.Err != nil {
		t.Fatalf("Invoke: %v", res.Err)
	}
	lines := strings.Split(strings.TrimSpace(res.RawOutput), "\n")
	want := []string{
		"run", "--agent", "proto-event-contracts",
		"-f", fixture,
		"Review this proto file",
		"--model", "sonnet",
	}
	if len(lines) != len(want) {
		t.Fatalf("argv = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCLIRunner_NoModelFlagWithoutOverride(t *testing.T) {
	r := &agent.CLIRunner{
		Bin:   writeStub(t, `printf '%s\n' "$@"`+"\n"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: writeFixture(t),
		Instruction: "Review this",
	})
	if strings.Contains(res.RawOutput, "--model") {
		t.Errorf("--model must be omitted without an override, argv: %q", res.RawOutput)
	}
}

func TestCLIRunner_MissingBinary(t *testing.T) {
	r := &agent.CLIRunner{
		Bin:   filepath.Join(t.TempDir(), "does-not-exist"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: writeFixture(t),
		Instruction: "Review this",
	})
	if res.Err == nil {
		t.Fatal("want invocation error for missing binary")
	}
	if res.RawOutput != "" {
		t.Errorf("raw output must be empty on start failure, got %q", res.RawOutput)
	}
}

func TestCLIRunner_MissingFixture(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invoked")
	r := &agent.CLIRunner{
		Bin:   writeStub(t, "touch "+marker+"\n"),
		Agent: "proto-event-contracts",
	}
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: filepath.Join(t.TempDir(), "nope.proto"),
		Instruction: "Review this",
	})
	if res.Err == nil || !strings.Contains(res.Err.Error(), "fixture not found") {
		t.Fatalf("want fixture-not-found error, got %v", res.Err)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("agent must not be invoked for a missing fixture")
	}
}

func TestCLIRunner_Timeout(t *testing.T) {
	r := &agent.CLIRunner{
		Bin:     writeStub(t, "sleep 10\n"),
		Agent:   "proto-event-contracts",
		Timeout: 100 * time.Millisecond,
	}
	start := time.Now()
	res := r.Invoke(context.Background(), agent.Invocation{
		FixturePath: writeFixture(t),
		Instruction: "Review this",
	})
	if res.Err == nil || !strings.Contains(res.Err.Error(), "timed out") {
		t.Fatalf("want timeout error, got %v", res.Err)
	}
	if elapsed := time.Since(start); elapsed > 8*time.Second {
		t.Errorf("child not reaped promptly after timeout: took %s", elapsed)
	}
	if res.RawOutput != "" {
		t.Errorf("raw output must be empty on timeout, got %q", res.RawOutput)
	}
}
