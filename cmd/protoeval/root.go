package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"protoeval/internal/harness"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "protoeval",
	Short: "Eval harness for the proto-event-contracts review agent",
	Long: "Protoeval drives the proto-event-contracts agent against fixture schema\n" +
		"files and deterministically grades its free-text review output against\n" +
		"expected severity markers and keywords.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

// Exit codes: 0 = all cases passed, 1 = at least one case failed,
// 2 = configuration error (bad flags, cases file missing/malformed).
func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, harness.ErrCasesFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
