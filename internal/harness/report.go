package harness

import (
	"fmt"
	"strings"
)

// FormatSummary produces the human-readable end-of-run summary: the
// passed/total ratio plus, for every failed case, its fixture path and
// reason — enough to reproduce the check by hand without rerunning the agent.
func FormatSummary(report *Report) string {
	var b strings.Builder

	b.WriteString("=== Eval Summary ===\n")
	b.WriteString(fmt.Sprintf("Results: %d/%d passed\n", report.Passed(), report.Total()))

	failed := report.Total() - report.Passed()
	if failed > 0 {
		b.WriteString("\n--- Failed cases ---\n")
		for _, v := range report.Verdicts {
			if v.Passed {
				continue
			}
			b.WriteString(fmt.Sprintf("✗ %-40s %s\n", v.Case.Fixture, v.Reason))
		}
	}

	result := "PASS"
	if failed > 0 {
		result = "FAIL"
	}
	b.WriteString(fmt.Sprintf("\nRESULT: %s\n", result))

	return b.String()
}
