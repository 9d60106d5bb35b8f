package domain

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// RuleSet holds the compiled scoring rules: hazard categories, urgency
// tiers, emergency keywords, urgency patterns, and the coastal gazetteer.
// Declaration order in the YAML document is load-bearing: it breaks
// scoring ties and fixes the output order of indicators and locations.
// A RuleSet is immutable after loading and safe for concurrent use.
type RuleSet struct {
	Version           string
	Hazards           []CategoryRules
	Urgency           []CategoryRules
	EmergencyKeywords []string
	UrgencyPatterns   []*regexp.Regexp
	Gazetteer         []string
}

// CategoryRules is one named keyword/pattern set.
type CategoryRules struct {
	Name     string
	Keywords []string
	Patterns []*regexp.Regexp
}

type rulesDoc struct {
	Version string `yaml:"version"`
	Hazards []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"hazards"`
	Urgency []struct {
		Level    string   `yaml:"level"`
		Keywords []string `yaml:"keywords"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"urgency"`
	EmergencyKeywords []string `yaml:"emergency_keywords"`
	UrgencyPatterns   []string `yaml:"urgency_patterns"`
	Gazetteer         []string `yaml:"gazetteer"`
}

// LoadRules parses and compiles a YAML rules document.
func LoadRules(data []byte) (*RuleSet, error) {
	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rs := &RuleSet{
		Version:           doc.Version,
		EmergencyKeywords: doc.EmergencyKeywords,
		Gazetteer:         dedupe(doc.Gazetteer),
	}

	for _, h := range doc.Hazards {
		compiled, err := compilePatterns(h.Patterns)
		if err != nil {
			return nil, fmt.Errorf("hazard %q: %w", h.Name, err)
		}
		rs.Hazards = append(rs.Hazards, CategoryRules{Name: h.Name, Keywords: h.Keywords, Patterns: compiled})
	}

	for _, u := range doc.Urgency {
		compiled, err := compilePatterns(u.Patterns)
		if err != nil {
			return nil, fmt.Errorf("urgency %q: %w", u.Level, err)
		}
		rs.Urgency = append(rs.Urgency, CategoryRules{Name: u.Level, Keywords: u.Keywords, Patterns: compiled})
	}

	var err error
	rs.UrgencyPatterns, err = compilePatterns(doc.UrgencyPatterns)
	if err != nil {
		return nil, fmt.Errorf("urgency patterns: %w", err)
	}

	return rs, nil
}

// DefaultRules returns the rules embedded in the binary. It panics only
// when the embedded document is broken, which is a build defect.
func DefaultRules() *RuleSet {
	rs, err := LoadRules(rulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules.yaml: %v", err))
	}
	return rs
}

// compilePatterns compiles each expression case-insensitively.
func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// dedupe removes duplicates while preserving first-occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
