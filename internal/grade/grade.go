// Package grade turns captured agent output into pass/fail verdicts.
//
// Grading is deterministic substring matching only — no semantic parsing.
// The agent's output is uncontrolled natural language, so correctness is
// approximated by checking for severity markers and domain keywords,
// case-insensitively. A keyword that happens to be a substring of an
// unrelated word still counts as matched; that false-positive risk is
// accepted in exchange for determinism.
package grade

import (
	"fmt"
	"regexp"
	"strings"

	"protoeval/internal/agent"
	"protoeval/internal/evalset"
)

// mustFixRe matches both spellings of the blocking severity. A clean fixture
// must produce zero must-fix findings, so any match is an automatic fail.
var mustFixRe = regexp.MustCompile(`(?i)must[- ]fix`)

// Verdict is the harness's own judgment about whether the agent's output
// matched the case's expectations — distinct from the agent's judgment about
// the fixture. Reason is for human diagnosis only and carries no machine
// semantics.
type Verdict struct {
	Case   evalset.Case
	Passed bool
	Reason string
}

// Grade applies the grading rules to one invocation result. It is a pure
// function: the same case and result always yield the same verdict.
func Grade(c evalset.Case, res agent.Result) Verdict {
	if res.Err != nil {
		return Verdict{Case: c, Passed: false, Reason: res.Err.Error()}
	}
	if c.ExpectClean {
		return gradeClean(c, res.RawOutput)
	}
	return gradeFinding(c, res.RawOutput)
}

// gradeClean fails on any occurrence of "must-fix" / "must fix", regardless
// of severity wording elsewhere in the output.
func gradeClean(c evalset.Case, output string) Verdict {
	if m := mustFixRe.FindString(output); m != "" {
		return Verdict{
			Case:   c,
			Passed: false,
			Reason: fmt.Sprintf("expected clean output but found %q", m),
		}
	}
	return Verdict{Case: c, Passed: true, Reason: "clean — no must-fix findings detected"}
}

// gradeFinding passes iff the expected severity marker and every keyword
// appear in the output. Order and proximity between keywords do not matter;
// each is checked independently.
func gradeFinding(c evalset.Case, output string) Verdict {
	lower := strings.ToLower(output)

	var missing []string
	for _, kw := range c.Keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}

	var problems []string
	if !severityRe(c.Severity).MatchString(output) {
		problems = append(problems, fmt.Sprintf("severity %q not found in output", c.Severity))
	}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("missing keywords: %s", strings.Join(missing, ", ")))
	}

	if len(problems) > 0 {
		return Verdict{Case: c, Passed: false, Reason: strings.Join(problems, "; ")}
	}
	return Verdict{
		Case:   c,
		Passed: true,
		Reason: fmt.Sprintf("found severity %q and all %d keywords", c.Severity, len(c.Keywords)),
	}
}

// severityRe builds a case-insensitive matcher for a severity level that
// accepts both the hyphenated and space-separated spellings ("must-fix"
// and "must fix" are equivalent).
func severityRe(sev evalset.Severity) *regexp.Regexp {
	pattern := regexp.QuoteMeta(string(sev))
	pattern = strings.ReplaceAll(pattern, "-", "[- ]")
	return regexp.MustCompile(`(?i)` + pattern)
}
