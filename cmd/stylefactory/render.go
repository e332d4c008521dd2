package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/spicery/stylefactory/pkg/stylefactory"
)

// Output formats.
const (
	formatJSON = "json"
	formatText = "text"
	formatANSI = "ansi"
)

type renderFunc func(w io.Writer, fragments []stylefactory.Fragment) error

var renderers = map[string]renderFunc{
	formatJSON: renderJSON,
	formatText: renderText,
	formatANSI: renderANSI,
}

var (
	fgColours = map[string]color.Color{
		"black":   color.FgBlack,
		"red":     color.FgRed,
		"green":   color.FgGreen,
		"yellow":  color.FgYellow,
		"blue":    color.FgBlue,
		"magenta": color.FgMagenta,
		"cyan":    color.FgCyan,
		"white":   color.FgWhite,
		"gray":    color.FgGray,
	}
	bgColours = map[string]color.Color{
		"black":   color.BgBlack,
		"red":     color.BgRed,
		"green":   color.BgGreen,
		"yellow":  color.BgYellow,
		"blue":    color.BgBlue,
		"magenta": color.BgMagenta,
		"cyan":    color.BgCyan,
		"white":   color.BgWhite,
		"gray":    color.BgGray,
	}
)

// renderJSON writes one JSON object per fragment, one per line.
func renderJSON(w io.Writer, fragments []stylefactory.Fragment) error {
	for _, frag := range fragments {
		jsonBytes, err := json.Marshal(frag)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(jsonBytes)); err != nil {
			return err
		}
	}
	return nil
}

// renderText writes the fragment texts with styles dropped.
func renderText(w io.Writer, fragments []stylefactory.Fragment) error {
	_, err := io.WriteString(w, stylefactory.JoinText(fragments))
	return err
}

// renderANSI writes the fragment texts with terminal colours and attributes.
func renderANSI(w io.Writer, fragments []stylefactory.Fragment) error {
	for _, frag := range fragments {
		text := frag.Text
		if st := terminalStyle(frag.Style); len(st) > 0 {
			text = st.Sprint(text)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}

// terminalStyle maps CSS-like style keys onto terminal attributes.
// Unknown keys and values are ignored.
func terminalStyle(s stylefactory.Style) color.Style {
	var st color.Style
	if c, ok := fgColours[stringValue(s, "color")]; ok {
		st = append(st, c)
	}
	if c, ok := bgColours[stringValue(s, "backgroundColor")]; ok {
		st = append(st, c)
	}
	if stringValue(s, "fontWeight") == "bold" {
		st = append(st, color.OpBold)
	}
	if stringValue(s, "fontStyle") == "italic" {
		st = append(st, color.OpItalic)
	}
	switch stringValue(s, "textDecoration") {
	case "underline":
		st = append(st, color.OpUnderscore)
	case "line-through":
		st = append(st, color.OpStrikethrough)
	}
	return st
}

func stringValue(s stylefactory.Style, key string) string {
	v, _ := s[key].(string)
	return v
}
