// Package scenario loads scenario files and runs their steps against the UI helpers.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scenario is an ordered list of helper calls
type Scenario struct {
	Name  string `toml:"name" yaml:"name" validate:"required"`
	Start string `toml:"start" yaml:"start"` // path opened before the first step
	Steps []Step `toml:"steps" yaml:"steps" validate:"required,min=1,dive"`
}

// Step calls one helper. Args are keyed by the helper's parameter names in snake case.
type Step struct {
	Name            string `toml:"name" yaml:"name"`
	Action          string `toml:"action" yaml:"action" validate:"required"`
	Args            Args   `toml:"args" yaml:"args"`
	ContinueOnError bool   `toml:"continue_on_error" yaml:"continue_on_error"`
}

// Label is the step name, or its action when unnamed
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Action
}

// Load reads a scenario file. .yaml and .yml files are YAML, anything else TOML.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	format := "toml"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario in the given format ("toml" or "yaml")
func Parse(data []byte, format string) (*Scenario, error) {
	var sc Scenario
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the struct tags, then that every step names a known action with its
// required arguments
func (s *Scenario) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	for i, step := range s.Steps {
		a, ok := actions[step.Action]
		if !ok {
			return fmt.Errorf("step %d (%s): unknown action %q", i+1, step.Label(), step.Action)
		}
		for _, key := range a.required {
			if !step.Args.Has(key) {
				return fmt.Errorf("step %d (%s): missing argument %q", i+1, step.Label(), key)
			}
		}
	}
	return nil
}
