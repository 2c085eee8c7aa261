package cli

import (
	"github.com/AndreyAkinshin/partialeq/internal/errors"
	"github.com/AndreyAkinshin/partialeq/internal/fixture"
	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// cmdCompare checks that the expected document is contained in the actual one.
func cmdCompare(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCompareUsage()
		return 0
	}
	if len(args) != 2 {
		out.ErrorPrefix("compare: want <actual> and <expected> documents, got %d argument(s)", len(args))
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	actual, expected, err := fixture.LoadPair(args[0], args[1], opts.Select)
	if err != nil {
		e := &errors.Error{Kind: errors.KindValidation, Message: "cannot load documents", Cause: err}
		out.ErrorPrefix("%v", e)
		return e.ExitCode()
	}

	logger, err := newLogger(opts)
	if err != nil {
		out.ErrorPrefix("cannot create logger: %v", err)
		return errors.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	co := comparisonOptions(proj, opts)
	co.Logger = logger
	return reportComparison(partialeq.Compare(actual, expected, co))
}

// reportComparison prints the outcome of a comparison and returns the exit code.
func reportComparison(err error) int {
	if err == nil {
		out.Success("expected is contained in actual")
		return errors.ExitSuccess
	}

	m, ok := partialeq.AsMismatch(err)
	if !ok {
		out.ErrorPrefix("%v", err)
		return errors.ExitFailure
	}
	out.FinalFailure("expected is not contained in actual")
	out.SummaryItem("Path", m.Path.String())
	out.SummaryFailed("Reason", titleCase.String(m.Reason.String()))
	if m.Expected != "" {
		out.SummaryItem("Expected", m.Expected)
	}
	if m.Actual != "" {
		out.SummaryItem("Actual", m.Actual)
	}
	if m.Detail != "" {
		out.SummaryItem("Detail", m.Detail)
	}
	if m.Reason == partialeq.ArityError {
		return errors.ExitConfigError
	}
	return errors.ExitFailure
}

func printCompareUsage() {
	w := out

	w.HelpTitle("partialeq compare - check that one document contains another")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq compare <actual> <expected> [--select=<jsonpath>] [flags]")

	w.HelpSection("Description:")
	w.Println("  Loads two JSON or YAML documents, decoding tagged values such as")
	w.Println("  {\"$set\": [...]} the way fixture files do, and reports the first")
	w.Println("  place where expected is not contained in actual.")

	printGlobalFlags(w)
	w.Println("")
}
