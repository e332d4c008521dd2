package stylefactory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// patternOptions selects browser-style regex semantics for every rule.
const patternOptions = regexp2.ECMAScript

// blankRegex matches elements made only of whitespace.
var blankRegex = regexp2.MustCompile(`^\s+$`, patternOptions)

// patternSource normalises a rule pattern to its regex source text.
// Strings are used verbatim and are not escaped.
func patternSource(pattern any) string {
	switch p := pattern.(type) {
	case string:
		return p
	case *regexp2.Regexp:
		return p.String()
	case *regexp.Regexp:
		return p.String()
	default:
		return fmt.Sprint(p)
	}
}

// buildAlternation joins sources into one capturing alternation: (a|b|c).
func buildAlternation(sources []string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, src := range sources {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(src)
	}
	b.WriteByte(')')
	return b.String()
}

// compile compiles source with the factory's engine settings.
func (f *Factory) compile(source string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(source, patternOptions)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, source, err)
	}
	if f.cfg.matchTimeout > 0 {
		re.MatchTimeout = f.cfg.matchTimeout
	}
	return re, nil
}

// isBlank reports whether s consists entirely of whitespace.
func isBlank(s string) bool {
	ok, err := blankRegex.MatchString(s)
	return err == nil && ok
}

// byteOffsets maps rune indexes, as reported by regexp2, to byte offsets in
// text. Each invalid UTF-8 byte counts as one rune, as in []rune(text).
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// forEachMatch calls fn with the byte span of every match of re in text.
func forEachMatch(re *regexp2.Regexp, text string, fn func(start, end int)) error {
	offsets := byteOffsets(text)
	m, err := re.FindStringMatch(text)
	for ; err == nil && m != nil; m, err = re.FindNextMatch(m) {
		fn(offsets[m.Index], offsets[m.Index+m.Length])
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMatch, err)
	}
	return nil
}

// splitKeep splits text around every match of re, keeping the matched text as
// its own element. Elements alternate unmatched, matched, ... and may be empty.
// Elements are slices of text, so invalid UTF-8 passes through untouched.
func splitKeep(re *regexp2.Regexp, text string) ([]string, error) {
	var parts []string
	last := 0
	err := forEachMatch(re, text, func(start, end int) {
		parts = append(parts, text[last:start], text[start:end])
		last = end
	})
	if err != nil {
		return nil, err
	}
	return append(parts, text[last:]), nil
}

// removeMatches deletes every match of re from text.
func removeMatches(re *regexp2.Regexp, text string) (string, error) {
	var b strings.Builder
	last := 0
	err := forEachMatch(re, text, func(start, end int) {
		b.WriteString(text[last:start])
		last = end
	})
	if err != nil {
		return "", err
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// mergeSpaceElements folds whitespace-only elements into the element that
// follows them. Runs of whitespace left at the end are appended to the last
// emitted element; if every element is whitespace they come back as one.
func mergeSpaceElements(elements []string) []string {
	merged := make([]string, 0, len(elements))
	pending := ""
	for _, el := range elements {
		if isBlank(el) {
			pending += el
			continue
		}
		merged = append(merged, pending+el)
		pending = ""
	}
	if pending != "" {
		if n := len(merged); n > 0 {
			merged[n-1] += pending
		} else {
			merged = append(merged, pending)
		}
	}
	return merged
}

// nonEmpty drops empty strings.
func nonEmpty(elements []string) []string {
	kept := elements[:0:0]
	for _, el := range elements {
		if el != "" {
			kept = append(kept, el)
		}
	}
	return kept
}
