package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/partialeq/internal/errors"
)

// commandInfo describes a command for completion scripts.
type commandInfo struct {
	name        string
	description string
}

// flagInfo describes a global flag for completion scripts. Flags with a
// placeholder take a value.
type flagInfo struct {
	name        string
	placeholder string
	description string
}

var completionCommands = []commandInfo{
	{"check", "Run fixture files"},
	{"compare", "Check that one document contains another"},
	{"init", "Create a partialeq project"},
	{"config", "Configuration utilities"},
	{"version", "Show version information"},
	{"help", "Show help"},
	{"completion", "Generate shell completion"},
}

var completionFlags = []flagInfo{
	{"--quiet", "", "Print failures only"},
	{"--verbose", "", "Print debug logs"},
	{"--no-color", "", "Disable colors"},
	{"--fail-fast", "", "Stop after the first failing file"},
	{"--include-hidden", "", "Compare hidden keys of expected"},
	{"--no-symbol-keys", "", "Ignore symbol keys of expected"},
	{"--config", "file", "Use this config file"},
	{"--jobs", "n", "Fixture files run in parallel"},
	{"--max-depth", "n", "Nesting bound"},
	{"--max-nodes", "n", "Compared value bound"},
	{"--select", "jsonpath", "Node of actual to compare"},
	{"--help", "", "Show help"},
}

var completionShells = []string{"bash", "zsh", "fish"}

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			out.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return errors.ExitConfigError
		case strings.HasPrefix(arg, "-"):
			out.ErrorPrefix("completion: unknown flag: %s", arg)
			return errors.ExitConfigError
		default:
			if shell != "" {
				out.ErrorPrefix("completion: unexpected argument: %s", arg)
				return errors.ExitConfigError
			}
			shell = arg
		}
	}

	if shell == "" {
		out.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		return errors.ExitConfigError
	}

	cmdName := "partialeq"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		out.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		out.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		out.Print("%s", generateFishCompletion(cmdName))
	default:
		out.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return errors.ExitConfigError
	}
	return 0
}

func printCompletionUsage() {
	w := out

	w.HelpTitle("partialeq completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", 14)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(partialeq completion bash)\"")
	w.Println("  Zsh:   eval \"$(partialeq completion zsh)\"")
	w.Println("  Fish:  partialeq completion fish | source")
	w.Println("")
}

func commandNames() []string {
	names := make([]string, len(completionCommands))
	for i, c := range completionCommands {
		names[i] = c.name
	}
	return names
}

func flagNames() []string {
	names := make([]string, len(completionFlags))
	for i, f := range completionFlags {
		names[i] = f.name
	}
	return names
}

// funcSuffix turns a command name into a shell identifier.
func funcSuffix(cmdName string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(cmdName)
}

func aliasNote(cmdName, hint string) string {
	if cmdName == "partialeq" {
		return ""
	}
	return fmt.Sprintf("\n# Generated for the alias %q (alias %s=\"partialeq\")\n# %s\n", cmdName, cmdName, hint)
}

func generateBashCompletion(cmdName string) string {
	funcName := "_" + funcSuffix(cmdName) + "_completions"

	return fmt.Sprintf(`# partialeq bash completion
# Add to ~/.bashrc: eval "$(partialeq completion bash)"
%s
%s() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "validate" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "%s" -- "${cur}"))
            return
            ;;
        --config|check|compare)
            _filedir
            return
            ;;
        --jobs|-j|--max-depth|--max-nodes|--select)
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi
    _filedir
}

complete -F %s %s
`, aliasNote(cmdName, "complete -F "+funcName+" "+cmdName), funcName,
		strings.Join(commandNames(), " "), strings.Join(flagNames(), " "),
		cmdName, strings.Join(completionShells, " "), funcName, cmdName)
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + funcSuffix(cmdName)

	var commands, flags strings.Builder
	for _, c := range completionCommands {
		fmt.Fprintf(&commands, "        '%s:%s'\n", c.name, c.description)
	}
	for _, f := range completionFlags {
		if f.placeholder != "" {
			fmt.Fprintf(&flags, "        '%s=[%s]:%s:'\n", f.name, f.description, f.placeholder)
		} else {
			fmt.Fprintf(&flags, "        '%s[%s]'\n", f.name, f.description)
		}
	}

	return fmt.Sprintf(`#compdef %s
# partialeq zsh completion
# Add to ~/.zshrc: eval "$(partialeq completion zsh)"
%s
%s() {
    local -a commands flags

    commands=(
%s    )

    flags=(
%s    )

    if (( CURRENT == 2 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        config)
            _values 'config subcommand' validate
            ;;
        completion)
            _values 'shell' %s
            ;;
        check|compare)
            _arguments -s $flags[@] '*:file:_files'
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

compdef %s %s
`, cmdName, aliasNote(cmdName, "compdef "+funcName+" "+cmdName), funcName,
		commands.String(), flags.String(), strings.Join(completionShells, " "), funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# partialeq fish completion\n# Add to config: partialeq completion fish | source\n%s\n",
		aliasNote(cmdName, "complete -c "+cmdName+" -w partialeq"))

	sb.WriteString("# Commands\n")
	for _, c := range completionCommands {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_use_subcommand' -f -a '%s' -d '%s'\n", cmdName, c.name, c.description)
	}

	sb.WriteString("\n# Global flags\n")
	for _, f := range completionFlags {
		long := strings.TrimPrefix(f.name, "--")
		if f.placeholder != "" {
			fmt.Fprintf(&sb, "complete -c %s -l %s -r -d '%s'\n", cmdName, long, f.description)
		} else {
			fmt.Fprintf(&sb, "complete -c %s -l %s -d '%s'\n", cmdName, long, f.description)
		}
	}

	sb.WriteString("\n# Subcommands\n")
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from config' -f -a 'validate' -d 'Validate configuration'\n", cmdName)
	for _, shell := range completionShells {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from completion' -f -a '%s' -d 'Generate %s completion'\n",
			cmdName, shell, shell)
	}
	return sb.String()
}
