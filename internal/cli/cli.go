// Package cli provides command-line interface functionality for partialeq.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/partialeq/internal/errors"
	"github.com/AndreyAkinshin/partialeq/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("partialeq %s", Version)
		return 0
	case "completion":
		return cmdCompletion(args[1:])
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "check":
		return cmdCheck(cmdArgs, opts)
	case "compare":
		return cmdCompare(cmdArgs, opts)
	case "init":
		return cmdInit(cmdArgs)
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "version":
		out.Println("partialeq %s", Version)
		return 0
	case "help":
		printUsage()
		return 0
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'partialeq --help' for a list of commands")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet    bool
	Verbose  bool
	NoColor  bool
	FailFast bool

	ConfigPath string
	Select     string
	Jobs       int // 0 means the configured value

	IncludeHidden bool
	NoSymbolKeys  bool
	MaxDepth      int // 0 means the configured value
	MaxNodes      int // 0 means the configured value
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Flags may appear anywhere in the argument list. Arguments after -- are
// taken as positional even when they start with a dash.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		name, value, hasValue := strings.Cut(arg, "=")
		if !strings.HasPrefix(arg, "--") {
			name, value, hasValue = arg, "", false
		}

		switch name {
		case "-q", "--quiet":
			opts.Quiet = true
		case "-v", "--verbose":
			opts.Verbose = true
		case "--no-color":
			opts.NoColor = true
		case "--fail-fast":
			opts.FailFast = true
		case "--include-hidden":
			opts.IncludeHidden = true
		case "--no-symbol-keys":
			opts.NoSymbolKeys = true
		case "--config", "--select", "-j", "--jobs", "--max-depth", "--max-nodes":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, nil, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = args[i]
			}
			if err := opts.set(name, value); err != nil {
				return nil, nil, err
			}
		case "--":
			remaining = append(remaining, args[i+1:]...)
			i = len(args)
			continue
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" && arg != "-h" && arg != "--help" {
				return nil, nil, fmt.Errorf("unknown flag %s", arg)
			}
			remaining = append(remaining, arg)
		}
		i++
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// set assigns a flag that takes a value.
func (o *GlobalOptions) set(name, value string) error {
	switch name {
	case "--config":
		o.ConfigPath = value
		return nil
	case "--select":
		o.Select = value
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid %s value %q (want a non-negative integer)", name, value)
	}
	switch name {
	case "-j", "--jobs":
		o.Jobs = n
	case "--max-depth":
		o.MaxDepth = n
	case "--max-nodes":
		o.MaxNodes = n
	}
	return nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// Help text alignment widths.
const (
	helpCommandWidth = 24
	helpFlagWidth    = 22
)

func printUsage() {
	w := out

	w.HelpTitle("partialeq - partial deep-equality checks for structured values")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq <command> [flags] [args]")

	w.HelpSection("Commands:")
	w.HelpCommand("check [<path>...]", "Run fixture files (default: the project's fixtures)", helpCommandWidth)
	w.HelpCommand("compare <actual> <expected>", "Check that one document contains another", helpCommandWidth)
	w.HelpCommand("init", "Create .partialeq.json and an example fixture", helpCommandWidth)
	w.HelpCommand("config validate", "Validate project configuration", helpCommandWidth)
	w.HelpCommand("completion <shell>", "Generate shell completion (bash, zsh, fish)", helpCommandWidth)
	w.HelpCommand("version", "Show version information", helpCommandWidth)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("partialeq check", "Run every fixture of the project")
	w.HelpExample("partialeq check fixtures/maps.case.yaml -v", "Run one file, listing each comparison step")
	w.HelpExample("partialeq compare response.json want.json --select '$.data'", "Compare a sub-document")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Flags:")
	w.HelpFlag("-q, --quiet", "Print failures only", helpFlagWidth)
	w.HelpFlag("-v, --verbose", "Print every case and debug logs", helpFlagWidth)
	w.HelpFlag("--config=<file>", "Use this config file", helpFlagWidth)
	w.HelpFlag("-j, --jobs=<n>", "Fixture files run in parallel", helpFlagWidth)
	w.HelpFlag("--fail-fast", "Stop after the first failing file", helpFlagWidth)
	w.HelpFlag("--include-hidden", "Compare hidden keys of expected", helpFlagWidth)
	w.HelpFlag("--no-symbol-keys", "Ignore symbol keys of expected", helpFlagWidth)
	w.HelpFlag("--max-depth=<n>", "Nesting bound", helpFlagWidth)
	w.HelpFlag("--max-nodes=<n>", "Compared value bound", helpFlagWidth)
	w.HelpFlag("--select=<jsonpath>", "Node of actual to compare (compare only)", helpFlagWidth)
	w.HelpFlag("--no-color", "Disable colors", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)

	w.HelpSection("Environment:")
	w.HelpEnvVar("NO_COLOR", "Disable colors", helpFlagWidth)
}
