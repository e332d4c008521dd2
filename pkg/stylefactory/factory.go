// Package stylefactory segments plain text into styled fragments.
//
// A Factory holds two ordered rule lists. Style rules pair a pattern with a
// style payload; cleaner rules hold a pattern only. Create splits the text on
// the union of all style-rule patterns, tags every fragment with the merged
// style of each rule that matches it, and then strips cleaner-rule matches
// from the fragment text:
//
//	f := stylefactory.NewFactory().
//		AddStyleRule(`\[u\][^\[]*\[/u\]`, stylefactory.Style{"textDecoration": "underline"}).
//		AddCleanerRule(`\[/?\w+\]`)
//	fragments, err := f.Create("Test if [u]these pattern[/u] are parsed")
//
// Patterns are regular-expression source in ECMAScript syntax. Plain strings
// are not escaped, so metacharacters in them keep their regex meaning; use
// regexp2.Escape for literal text. Patterns are trusted input: nothing guards
// against catastrophic backtracking unless WithMatchTimeout is set.
package stylefactory

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// StyleRule pairs a pattern with the style applied to fragments it matches.
type StyleRule struct {
	Pattern string
	Style   Style
}

// CleanerRule is a pattern whose matches are removed from fragment text.
type CleanerRule struct {
	Pattern string
}

// Option configures a Factory.
type Option func(*Factory)

// factoryConfig holds internal configuration for Factory.
type factoryConfig struct {
	matchTimeout time.Duration
}

// WithMatchTimeout bounds every individual regex evaluation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithMatchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("stylefactory: WithMatchTimeout duration must be positive")
	}
	return func(f *Factory) {
		f.cfg.matchTimeout = d
	}
}

// Factory is the rule store and the entry point of the pipeline.
// Rule registration is not synchronised; once rules are in place a Factory
// may be shared by concurrent Create calls.
type Factory struct {
	styleRules []StyleRule
	cleanRules []CleanerRule
	cfg        factoryConfig
}

// NewFactory creates a factory with no rules.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddStyleRule appends a style rule and returns f for chaining.
// pattern is a regex source string, a *regexp2.Regexp or a *regexp.Regexp;
// any other value is formatted with fmt.Sprint.
func (f *Factory) AddStyleRule(pattern any, style Style) *Factory {
	f.styleRules = append(f.styleRules, StyleRule{
		Pattern: patternSource(pattern),
		Style:   style,
	})
	return f
}

// AddCleanerRule appends a cleaner rule and returns f for chaining.
func (f *Factory) AddCleanerRule(pattern any) *Factory {
	f.cleanRules = append(f.cleanRules, CleanerRule{Pattern: patternSource(pattern)})
	return f
}

// StyleRules returns the style rules in registration order.
func (f *Factory) StyleRules() []StyleRule {
	return append([]StyleRule(nil), f.styleRules...)
}

// CleanerRules returns the cleaner rules in registration order.
func (f *Factory) CleanerRules() []CleanerRule {
	return append([]CleanerRule(nil), f.cleanRules...)
}

// Create segments text and then cleans the resulting fragments.
func (f *Factory) Create(text string) ([]Fragment, error) {
	fragments, err := f.CreateStyle(text)
	if err != nil {
		return nil, err
	}
	return f.Clean(fragments)
}

// CreateStyle segments text into fragments without cleaning them.
// Whitespace-only pieces join the fragment after them; whitespace at the very
// end of text joins the last fragment instead, and may pick up its style.
func (f *Factory) CreateStyle(text string) ([]Fragment, error) {
	if len(f.styleRules) == 0 {
		return []Fragment{NewFragment(text)}, nil
	}

	sources := make([]string, len(f.styleRules))
	for i, rule := range f.styleRules {
		sources[i] = rule.Pattern
	}
	splitter, err := f.compile(buildAlternation(sources))
	if err != nil {
		return nil, err
	}

	// Each rule is compiled once per call and tested against every element.
	matchers := make([]*ruleMatcher, len(f.styleRules))
	for i, rule := range f.styleRules {
		re, err := f.compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		matchers[i] = &ruleMatcher{re: re, style: rule.Style}
	}

	parts, err := splitKeep(splitter, text)
	if err != nil {
		return nil, err
	}
	elements := mergeSpaceElements(nonEmpty(parts))

	fragments := make([]Fragment, 0, len(elements))
	for _, el := range elements {
		frag := NewFragment(el)
		for _, m := range matchers {
			ok, err := m.re.MatchString(el)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMatch, err)
			}
			if ok {
				frag.Style = frag.Style.merge(m.style)
			}
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

// Clean removes every cleaner-rule match from each fragment's text.
// Styles are carried over unchanged. Without cleaner rules fragments are
// returned as given.
func (f *Factory) Clean(fragments []Fragment) ([]Fragment, error) {
	if len(f.cleanRules) == 0 {
		return fragments, nil
	}

	sources := make([]string, len(f.cleanRules))
	for i, rule := range f.cleanRules {
		sources[i] = rule.Pattern
	}
	re, err := f.compile(buildAlternation(sources))
	if err != nil {
		return nil, err
	}

	cleaned := make([]Fragment, len(fragments))
	for i, frag := range fragments {
		text, err := removeMatches(re, frag.Text)
		if err != nil {
			return nil, err
		}
		cleaned[i] = Fragment{Text: text, Style: frag.Style}
	}
	return cleaned, nil
}

type ruleMatcher struct {
	re    *regexp2.Regexp
	style Style
}
