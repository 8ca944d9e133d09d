package evalset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads an ordered sequence of cases from a YAML file and resolves each
// fixture against root. Source order is preserved. JSON case files load too,
// since JSON is a YAML subset under yaml.v3 — the original cases.json format
// needs no conversion.
//
// A missing or malformed cases file is a configuration error and fails the
// whole load. A missing fixture is NOT checked here: it surfaces later as a
// per-case invocation error so one bad entry does not abort the run.
func Load(root, path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}

	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse cases file %s: %w", path, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("cases file %s contains no cases", path)
	}

	for i := range cases {
		if cases[i].Kind == "" {
			cases[i].Kind = KindReview
		}
		if err := cases[i].Validate(); err != nil {
			return nil, fmt.Errorf("cases file %s: case %d: %w", path, i+1, err)
		}
		cases[i].FixturePath = filepath.Join(root, cases[i].Fixture)
	}

	return cases, nil
}
