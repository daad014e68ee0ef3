// Package scenarios loads scenario definitions from disk and provides the
// built-in default suite.
package scenarios

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// Default returns the canonical four-scenario login suite: one expected
// success and three expected failures.
func Default() []schemas.ScenarioDefinition {
	return []schemas.ScenarioDefinition{
		{
			Name:     "Valid Credentials",
			Username: "testuser",
			Password: "correctpassword",
			Expected: schemas.OutcomeSuccess,
		},
		{
			Name:     "Invalid Username",
			Username: "wronguser",
			Password: "correctpassword",
			Expected: schemas.OutcomeFailure,
		},
		{
			Name:     "Invalid Password",
			Username: "testuser",
			Password: "wrongpassword",
			Expected: schemas.OutcomeFailure,
		},
		{
			Name:     "Empty Credentials",
			Username: "",
			Password: "",
			Expected: schemas.OutcomeFailure,
		},
	}
}

// Load reads scenario definitions from a JSON file. The path may start with
// "~". The file must contain a non-empty array of definitions; each needs a
// unique name and an expected outcome of "success" or "failure".
func Load(path string) ([]schemas.ScenarioDefinition, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding scenario file path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var defs []schemas.ScenarioDefinition
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", expanded, err)
	}

	if err := Validate(defs); err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", expanded, err)
	}
	return defs, nil
}

// Validate checks a scenario slice for structural problems. These abort the
// run up front; a malformed definition is a configuration fault, not a
// scenario failure.
func Validate(defs []schemas.ScenarioDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("no scenarios defined")
	}

	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("scenario %d has no name", i)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("duplicate scenario name %q", def.Name)
		}
		seen[def.Name] = struct{}{}

		if def.Expected != schemas.OutcomeSuccess && def.Expected != schemas.OutcomeFailure {
			return fmt.Errorf("scenario %q: expected outcome must be %q or %q, got %q",
				def.Name, schemas.OutcomeSuccess, schemas.OutcomeFailure, def.Expected)
		}
	}
	return nil
}
