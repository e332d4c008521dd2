package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gookit/color"
	"github.com/spicery/stylefactory/pkg/stylefactory"
)

func runWith(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func decodeLines(t *testing.T, out string) []stylefactory.Fragment {
	t.Helper()
	var fragments []stylefactory.Fragment
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var frag stylefactory.Fragment
		if err := json.Unmarshal([]byte(line), &frag); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", line, err)
		}
		fragments = append(fragments, frag)
	}
	return fragments
}

func TestRunDefaultRules(t *testing.T) {
	out, err := runWith(t, "Test [b]bold[/b] and [u]under[/u]")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []stylefactory.Fragment{
		{Text: "Test "},
		{Text: "bold", Style: stylefactory.Style{"fontWeight": "bold"}},
		{Text: " and "},
		{Text: "under", Style: stylefactory.Style{"textDecoration": "underline"}},
	}
	if diff := cmp.Diff(want, decodeLines(t, out)); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out, `{"text":"Test "}`+"\n") {
		t.Errorf("Unstyled fragments should have no style key, got %q", out)
	}
}

func TestRunNoClean(t *testing.T) {
	out, err := runWith(t, "[b]bold[/b]", "--no-clean", "--format", "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out != "[b]bold[/b]" {
		t.Errorf("Expected markup to be kept, got %q", out)
	}
}

func TestRunWithFiles(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	inputPath := filepath.Join(dir, "input.txt")
	outputPath := filepath.Join(dir, "out.txt")

	rules := "style:\n  - pattern: error\n    style: {color: red}\ncleaner:\n  - pattern: '!'\n"
	if err := os.WriteFile(rulesPath, []byte(rules), 0o600); err != nil {
		t.Fatalf("Failed to write rules: %v", err)
	}
	if err := os.WriteFile(inputPath, []byte("an error!"), 0o600); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	out, err := runWith(t, "", "-r", rulesPath, "-i", inputPath, "-o", outputPath, "-f", "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "an error" {
		t.Errorf("Expected %q, got %q", "an error", data)
	}
}

func TestRunMakeRules(t *testing.T) {
	out, err := runWith(t, "", "--make-rules")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rules, err := stylefactory.ParseRules([]byte(out))
	if err != nil {
		t.Fatalf("Generated rules do not parse: %v", err)
	}
	if diff := cmp.Diff(stylefactory.DefaultRules(), rules); diff != "" {
		t.Errorf("Generated rules mismatch (-want +got):\n%s", diff)
	}
}

func TestRunHelpAndVersion(t *testing.T) {
	out, err := runWith(t, "", "--help")
	if err != nil || !strings.Contains(out, "Usage:") {
		t.Errorf("Expected usage, got %q (err %v)", out, err)
	}

	out, err = runWith(t, "", "-v")
	if err != nil || out != "stylefactory version "+version+"\n" {
		t.Errorf("Expected version, got %q (err %v)", out, err)
	}
}

func TestRunExit0(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte("style:\n  - pattern: '(unclosed'\n    style: {color: red}\n"), 0o600); err != nil {
		t.Fatalf("Failed to write rules: %v", err)
	}

	_, err := runWith(t, "text", "--rules", rulesPath)
	if !errors.Is(err, stylefactory.ErrInvalidPattern) {
		t.Errorf("Expected ErrInvalidPattern, got %v", err)
	}

	out, err := runWith(t, "text", "--rules", rulesPath, "--exit0")
	if err != nil {
		t.Errorf("Expected no error with --exit0, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  error
	}{
		{"Positional argument", "", []string{"input.txt"}, ErrPositionalArgs},
		{"Unknown format", "", []string{"--format", "xml"}, ErrUnknownFormat},
		{"Missing rules file", "", []string{"--rules", filepath.Join(t.TempDir(), "none.yaml")}, stylefactory.ErrReadRules},
		{"Missing input file", "", []string{"--input", filepath.Join(t.TempDir(), "none.txt")}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runWith(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTerminalStyle(t *testing.T) {
	tests := []struct {
		name  string
		style stylefactory.Style
		want  color.Style
	}{
		{"Unstyled", nil, nil},
		{"Colour", stylefactory.Style{"color": "red"}, color.Style{color.FgRed}},
		{"Unknown colour", stylefactory.Style{"color": "#123456"}, nil},
		{
			"Everything",
			stylefactory.Style{
				"color":           "blue",
				"backgroundColor": "yellow",
				"fontWeight":      "bold",
				"fontStyle":       "italic",
				"textDecoration":  "underline",
			},
			color.Style{color.FgBlue, color.BgYellow, color.OpBold, color.OpItalic, color.OpUnderscore},
		},
		{"Strike", stylefactory.Style{"textDecoration": "line-through"}, color.Style{color.OpStrikethrough}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, terminalStyle(tt.style)); diff != "" {
				t.Errorf("terminalStyle mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderANSIKeepsText(t *testing.T) {
	color.Enable = false
	defer func() { color.Enable = true }()

	var buf bytes.Buffer
	fragments := []stylefactory.Fragment{
		{Text: "plain "},
		{Text: "red", Style: stylefactory.Style{"color": "red"}},
	}
	if err := renderANSI(&buf, fragments); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if buf.String() != "plain red" {
		t.Errorf("Expected uncoloured text, got %q", buf.String())
	}
}
