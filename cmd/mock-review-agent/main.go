// mock-review-agent is a deterministic stand-in for the opencode review
// agent. It accepts the same argv shape the harness produces
// (run --agent <name> -f <fixture> <instruction> [--model m]), scans the
// fixture for planted MUST-FIX:/SHOULD-FIX: marker comments, and prints them
// as findings. This binary is testing-only — it lets the full harness run
// end-to-end without a model backend.
//
// Usage: mock-review-agent run --agent proto-event-contracts -f fixture.proto "Review..."
package main

import (
	"fmt"
	"os"
)

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mock-review-agent: %v\n", err)
		os.Exit(2)
	}

	data, err := os.ReadFile(inv.fixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mock-review-agent: read fixture: %v\n", err)
		os.Exit(1)
	}

	if inv.model != "" {
		fmt.Printf("(model: %s)\n", inv.model)
	}
	fmt.Print(Review(string(data)))
}

type invocation struct {
	agent   string
	fixture string
	model   string
}

// parseArgs handles the opencode-compatible argv shape loosely: flags may
// appear in any order, and the first bare argument after "run" is the
// instruction (which the mock ignores — its findings come from the fixture).
func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 || args[0] != "run" {
		return invocation{}, fmt.Errorf("expected 'run' subcommand")
	}
	var inv invocation
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--agent":
			i++
			if i < len(rest) {
				inv.agent = rest[i]
			}
		case "-f", "--file":
			i++
			if i < len(rest) {
				inv.fixture = rest[i]
			}
		case "--model", "-m":
			i++
			if i < len(rest) {
				inv.model = rest[i]
			}
		default:
			// instruction text; ignored
		}
	}
	if inv.fixture == "" {
		return invocation{}, fmt.Errorf("missing -f <fixture>")
	}
	return inv, nil
}
