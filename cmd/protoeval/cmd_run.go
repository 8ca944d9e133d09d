package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"protoeval/internal/agent"
	"protoeval/internal/harness"
	"protoeval/internal/logging"
)

var runFlags struct {
	cases     string
	root      string
	verbose   bool
	model     string
	agentBin  string
	agentName string
	timeout   time.Duration
	logLevel  string
	logFormat string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all eval cases against the external agent and grade the output",
	Long: `Run loads the cases file, invokes the agent once per case (strictly
sequentially, in file order), grades each captured output, and prints a
per-case status plus a summary.

Exit codes:
  0  every case passed
  1  at least one case failed (grading mismatch or invocation error)
  2  configuration error — cases file missing or malformed, nothing ran`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.cases, "cases", "evals/cases.yaml", "Path to the cases file (YAML, or JSON as a YAML subset)")
	f.StringVar(&runFlags.root, "root", ".", "Harness root; fixture paths resolve relative to it")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "Print full agent output for each case")
	f.StringVarP(&runFlags.model, "model", "m", "", "Override the model used by the agent")
	f.StringVar(&runFlags.agentBin, "agent-bin", "opencode", "Agent CLI binary")
	f.StringVar(&runFlags.agentName, "agent", "proto-event-contracts", "Agent name passed to the CLI")
	f.DurationVar(&runFlags.timeout, "timeout", agent.DefaultTimeout, "Per-case wall-clock bound for one agent invocation")
	f.StringVar(&runFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&runFlags.logFormat, "log-format", "text", "Log format (text, json)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(runFlags.logLevel)
	if err != nil {
		return err
	}
	logging.Init(level, runFlags.logFormat)

	// SIGINT/SIGTERM cancel the context; CommandContext then kills and
	// reaps any in-flight agent process before the harness exits.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &agent.CLIRunner{
		Bin:     runFlags.agentBin,
		Agent:   runFlags.agentName,
		Timeout: runFlags.timeout,
		Log:     logging.New("agent"),
	}

	_, err = harness.Run(ctx, harness.Config{
		Root:      runFlags.root,
		CasesPath: runFlags.cases,
		Runner:    runner,
		Model:     runFlags.model,
		Verbose:   runFlags.verbose,
		Out:       os.Stdout,
		Log:       logging.New("harness"),
	})
	return err
}
