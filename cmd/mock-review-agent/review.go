package main

import (
	"fmt"
	"strings"
)

// Marker comments planted in test fixtures. Everything after the marker on
// the same line becomes the finding text.
const (
	mustFixMarker   = "MUST-FIX:"
	shouldFixMarker = "SHOULD-FIX:"
)

// Review produces deterministic review text for a fixture: one finding line
// per planted marker, or an explicit clean message when the fixture carries
// none. The phrasing mirrors what the real agent is graded on — severity
// markers up front, finding detail after.
func Review(content string) string {
	var b strings.Builder

	var findings int
	for _, line := range strings.Split(content, "\n") {
		if text, ok := markerText(line, mustFixMarker); ok {
			b.WriteString(fmt.Sprintf("Must-fix: %s\n", text))
			findings++
		}
		if text, ok := markerText(line, shouldFixMarker); ok {
			b.WriteString(fmt.Sprintf("Should-fix: %s\n", text))
			findings++
		}
	}

	if findings == 0 {
		return "This file is clean. No findings against the event contract standard.\n"
	}

	b.WriteString(fmt.Sprintf("\n%d finding(s) total.\n", findings))
	return b.String()
}

func markerText(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(marker):]), true
}
