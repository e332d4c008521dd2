package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spicery/stylefactory/pkg/stylefactory"
)

const (
	version = "0.1.0"
	usage   = `stylefactory - Split text into styled fragments using pattern rules

Usage:
  stylefactory [options]

Options:
  -h, --help             Show this help message
  -v, --version          Show version information
  -i, --input <file>     Input file (defaults to stdin)
  -o, --output <file>    Output file (defaults to stdout)
  -r, --rules <file>     YAML rules file (defaults to the built-in markup rules)
      --make-rules       Print the built-in rules as YAML and exit
      --no-clean         Segment only, do not apply cleaner rules
  -f, --format <fmt>     Output format: json, text or ansi (default json)
      --timeout <dur>    Per-match timeout, e.g. 100ms (default unlimited)
      --exit0            Exit with code 0 even on pattern errors (suppress stderr)

Examples:
  echo "Test [b]bold[/b] text" | stylefactory       # JSON fragments on stdout
  stylefactory --input notes.txt --format ansi       # Coloured terminal output
  stylefactory --rules custom.yaml --input notes.txt # Use custom rules
  stylefactory --make-rules > custom.yaml            # Start from the defaults

The json format writes one fragment object per line.
`
)

// Sentinel errors for CLI operations.
var (
	ErrPositionalArgs = errors.New("unexpected positional arguments, use --input and --output instead")
	ErrUnknownFormat  = errors.New("unknown output format")
)

// options holds parsed command-line flags.
type options struct {
	help      bool
	version   bool
	makeRules bool
	noClean   bool
	exit0     bool
	input     string
	output    string
	rules     string
	format    string
	timeout   time.Duration
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses args (without the program name).
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("stylefactory", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	fs.BoolVarP(&opts.help, "help", "h", false, "Show help")
	fs.BoolVarP(&opts.version, "version", "v", false, "Show version")
	fs.BoolVar(&opts.makeRules, "make-rules", false, "Print the built-in rules as YAML")
	fs.BoolVar(&opts.noClean, "no-clean", false, "Do not apply cleaner rules")
	fs.BoolVar(&opts.exit0, "exit0", false, "Exit with code 0 even on pattern errors")
	fs.StringVarP(&opts.input, "input", "i", "", "Input file (defaults to stdin)")
	fs.StringVarP(&opts.output, "output", "o", "", "Output file (defaults to stdout)")
	fs.StringVarP(&opts.rules, "rules", "r", "", "YAML rules file")
	fs.StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json, text or ansi")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-match timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %v", ErrPositionalArgs, fs.Args())
	}
	if _, ok := renderers[opts.format]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, opts.format)
	}
	return opts, nil
}

// run parses arguments, builds the factory and writes the fragments.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.help {
		fmt.Fprint(stdout, usage)
		return nil
	}
	if opts.version {
		fmt.Fprintf(stdout, "stylefactory version %s\n", version)
		return nil
	}
	if opts.makeRules {
		data, err := stylefactory.MarshalRules(stylefactory.DefaultRules())
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	factory, err := buildFactory(opts)
	if err != nil {
		return err
	}

	input, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	var fragments []stylefactory.Fragment
	if opts.noClean {
		fragments, err = factory.CreateStyle(input)
	} else {
		fragments, err = factory.Create(input)
	}
	if err != nil {
		if opts.exit0 {
			// With --exit0, a failing pattern produces no output and no error
			return nil
		}
		return err
	}

	return writeOutput(opts.output, stdout, func(w io.Writer) error {
		return renderers[opts.format](w, fragments)
	})
}

// buildFactory creates a factory from the rules file, or the defaults.
func buildFactory(opts *options) (*stylefactory.Factory, error) {
	var factoryOpts []stylefactory.Option
	if opts.timeout > 0 {
		factoryOpts = append(factoryOpts, stylefactory.WithMatchTimeout(opts.timeout))
	}

	rules := stylefactory.DefaultRules()
	if opts.rules != "" {
		var err error
		rules, err = stylefactory.LoadRulesFile(opts.rules)
		if err != nil {
			return nil, err
		}
	}
	return stylefactory.NewFactoryFromRules(rules, factoryOpts...), nil
}

// readInput reads the named file, or stdin when filename is empty.
func readInput(filename string, stdin io.Reader) (string, error) {
	if filename == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("reading file '%s': %w", filename, err)
	}
	return string(data), nil
}

// writeOutput runs write against the named file, or stdout when filename is empty.
func writeOutput(filename string, stdout io.Writer, write func(io.Writer) error) error {
	if filename == "" {
		return write(stdout)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file '%s': %w", filename, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file '%s': %w", filename, err)
	}
	return nil
}
