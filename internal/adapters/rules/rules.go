// Package rules loads approval rule sets from YAML.
package rules

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

type document struct {
	Rules []domain.ApprovalRule `yaml:"rules"`
}

// Default returns the rule set compiled into the binary.
func Default() domain.RuleSet {
	rs, err := parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded default rules are invalid: %v", err))
	}
	return rs
}

// Load reads a rule set from path, or returns Default when path is empty.
func Load(path string) (domain.RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) (domain.RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("failed to read rules: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (domain.RuleSet, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.RuleSet{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	for i, rule := range doc.Rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return domain.RuleSet{}, fmt.Errorf("rule %d: pattern is required", i)
		}
		if rule.Tier != "" && !rule.Tier.Valid() {
			return domain.RuleSet{}, fmt.Errorf("rule %d: unknown tier %q", i, rule.Tier)
		}
		if rule.Tier == "" && rule.Flag == "" {
			return domain.RuleSet{}, fmt.Errorf("rule %d: needs a tier or a flag", i)
		}
	}

	return domain.RuleSet{Rules: doc.Rules}, nil
}
