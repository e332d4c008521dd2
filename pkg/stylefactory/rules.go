package stylefactory

import (
	"fmt"
	"os"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// RulesFile is a YAML rules file: style rules and cleaner rules, each
// registered in file order.
type RulesFile struct {
	Style   []StyleRuleEntry   `yaml:"style"`
	Cleaner []CleanerRuleEntry `yaml:"cleaner,omitempty"`
}

// StyleRuleEntry pairs a pattern with the style it applies.
type StyleRuleEntry struct {
	Pattern string `yaml:"pattern"`
	Literal bool   `yaml:"literal,omitempty"` // escape Pattern before use
	Style   Style  `yaml:"style"`
}

// CleanerRuleEntry holds a pattern whose matches are stripped.
type CleanerRuleEntry struct {
	Pattern string `yaml:"pattern"`
	Literal bool   `yaml:"literal,omitempty"`
}

// markupTag builds the pattern for a bracket tag such as [b]...[/b], allowing
// one nested tag inside it and stopping at commas or further brackets.
func markupTag(tag string) string {
	return `\[` + tag + `\](?:\[\w+\])?[^,\[]*(?:\[\/\w+\])?\[\/` + tag + `\]`
}

// DefaultRules returns the built-in bracket markup rules: [b], [i], [u] and
// a handful of colour tags, plus a cleaner that strips every tag.
func DefaultRules() *RulesFile {
	rules := &RulesFile{
		Style: []StyleRuleEntry{
			{Pattern: markupTag("b"), Style: Style{"fontWeight": "bold"}},
			{Pattern: markupTag("i"), Style: Style{"fontStyle": "italic"}},
			{Pattern: markupTag("u"), Style: Style{"textDecoration": "underline"}},
		},
		Cleaner: []CleanerRuleEntry{
			{Pattern: `\[\/?\w+\]`},
		},
	}
	for _, colour := range []string{"red", "green", "yellow", "blue", "magenta", "cyan"} {
		rules.Style = append(rules.Style, StyleRuleEntry{
			Pattern: markupTag(colour),
			Style:   Style{"color": colour},
		})
	}
	return rules
}

// LoadRulesFile reads and parses the rules file at filename.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrReadRules, filename, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file '%s': %w", filename, err)
	}
	return rules, nil
}

// ParseRules parses YAML rules and checks that every rule has a pattern.
func ParseRules(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseRules, err)
	}

	for i, rule := range rules.Style {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: style rule %d", ErrEmptyPattern, i+1)
		}
	}
	for i, rule := range rules.Cleaner {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: cleaner rule %d", ErrEmptyPattern, i+1)
		}
	}
	return &rules, nil
}

// Apply registers the rules on f in file order and returns f.
func (rules *RulesFile) Apply(f *Factory) *Factory {
	for _, rule := range rules.Style {
		f.AddStyleRule(entrySource(rule.Pattern, rule.Literal), rule.Style)
	}
	for _, rule := range rules.Cleaner {
		f.AddCleanerRule(entrySource(rule.Pattern, rule.Literal))
	}
	return f
}

// NewFactoryFromRules creates a factory with the given rules applied.
func NewFactoryFromRules(rules *RulesFile, opts ...Option) *Factory {
	return rules.Apply(NewFactory(opts...))
}

// RulesFromFactory converts the rules registered on f back to file form.
func RulesFromFactory(f *Factory) *RulesFile {
	rules := &RulesFile{}
	for _, rule := range f.StyleRules() {
		rules.Style = append(rules.Style, StyleRuleEntry{Pattern: rule.Pattern, Style: rule.Style})
	}
	for _, rule := range f.CleanerRules() {
		rules.Cleaner = append(rules.Cleaner, CleanerRuleEntry{Pattern: rule.Pattern})
	}
	return rules
}

// MarshalRules renders rules as YAML.
func MarshalRules(rules *RulesFile) ([]byte, error) {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	return data, nil
}

func entrySource(pattern string, literal bool) string {
	if literal {
		return regexp2.Escape(pattern)
	}
	return pattern
}
