package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Opportunities RuleTable `yaml:"opportunities"`
	Issues        RuleTable `yaml:"issues"`
}

// LoadRules reads a taxonomy file and returns an engine built from it. A
// section left empty in the file falls back to the built-in table, so a
// deployment can override just one side.
func LoadRules(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse taxonomy file: %w", err)
	}

	if len(file.Opportunities.Rules) == 0 {
		file.Opportunities = DefaultOpportunityRules()
	}
	if len(file.Issues.Rules) == 0 {
		file.Issues = DefaultIssueRules()
	}
	return NewEngine(file.Opportunities, file.Issues), nil
}
