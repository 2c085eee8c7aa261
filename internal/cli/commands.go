package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/partialeq/internal/errors"
	"github.com/AndreyAkinshin/partialeq/internal/output"
	"github.com/AndreyAkinshin/partialeq/internal/project"
	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// titleCase renders reason names as table labels ("Missing Key").
var titleCase = cases.Title(language.English)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}
}

// newLogger builds the diagnostic logger. It writes to stderr at warn
// level, or at debug level with --verbose so the comparator trace shows.
var newLogger = func(opts *GlobalOptions) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.Verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	if opts.NoColor {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and the exit code
// to return on failure.
func loadProject(opts *GlobalOptions) (*project.Project, int) {
	var proj *project.Project
	var err error
	if opts.ConfigPath != "" {
		var path string
		path, err = filepath.Abs(opts.ConfigPath)
		if err == nil {
			proj, err = project.LoadProjectWithConfig(filepath.Dir(path), path)
		}
	} else {
		proj, err = project.LoadProject()
	}
	if err != nil {
		cfgErr := &errors.Error{Kind: errors.KindConfig, Message: "cannot load project", Cause: err}
		out.ErrorPrefix("%v", cfgErr)
		return nil, cfgErr.ExitCode()
	}

	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}
	return proj, 0
}

// comparisonOptions merges the project's comparison settings with flags.
func comparisonOptions(proj *project.Project, opts *GlobalOptions) partialeq.Options {
	co := proj.Config.Options()
	if opts.IncludeHidden {
		co.IncludeHidden = true
	}
	if opts.NoSymbolKeys {
		co.IncludeSymbolKeys = false
	}
	if opts.MaxDepth > 0 {
		co.MaxDepth = opts.MaxDepth
	}
	if opts.MaxNodes > 0 {
		co.MaxNodes = opts.MaxNodes
	}
	return co
}

// jobs returns the number of fixture files run at once.
func jobs(proj *project.Project, opts *GlobalOptions) int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	if proj.Config.Jobs > 0 {
		return proj.Config.Jobs
	}
	return 1
}

func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}
	if !proj.HasConfig {
		out.ErrorPrefix("%v", project.ErrNoProjectRoot)
		return errors.ExitConfigError
	}

	files, err := proj.FixtureFiles()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	out.Success("Configuration is valid.")
	out.SummaryItem("Config", proj.ConfigPath())
	out.SummaryItem("Fixtures", fmt.Sprintf("%s (%s)", proj.Config.Fixtures.Directory, proj.Config.Fixtures.Pattern))
	out.SummaryItem("Fixture files", fmt.Sprintf("%d", len(files)))
	out.SummaryItem("Jobs", fmt.Sprintf("%d", jobs(proj, opts)))
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

func printConfigUsage() {
	w := out

	w.HelpTitle("partialeq config - inspect project configuration")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq config validate [--config=<file>]")

	w.HelpSection("Description:")
	w.Println("  Loads .partialeq.json, checks it against the embedded schema, and")
	w.Println("  lists the fixture files it selects.")
	w.Println("")
}
