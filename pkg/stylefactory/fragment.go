package stylefactory

import "strings"

// Style is an arbitrary key/value style payload, e.g. {"color": "red"}.
type Style map[string]any

// merge returns a new Style holding s overlaid by other. Keys in other win.
func (s Style) merge(other Style) Style {
	merged := make(Style, len(s)+len(other))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Fragment is one contiguous span of the output sequence.
type Fragment struct {
	Text  string `json:"text" yaml:"text"`
	Style Style  `json:"style,omitempty" yaml:"style,omitempty"` // nil when no rule matched
}

// NewFragment creates an unstyled fragment.
func NewFragment(text string) Fragment {
	return Fragment{Text: text}
}

// Styled reports whether at least one style rule matched the fragment.
func (f Fragment) Styled() bool {
	return f.Style != nil
}

// JoinText concatenates the text of all fragments.
func JoinText(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}
