package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/partialeq/internal/errors"
	"github.com/AndreyAkinshin/partialeq/internal/fixture"
	"github.com/AndreyAkinshin/partialeq/internal/project"
	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// fileOutcome is the result of one fixture file: either its case results
// or the error that kept it from loading.
type fileOutcome struct {
	file   string
	result *fixture.FileResult
	err    error
}

// checkSummary aggregates the outcomes of a check run.
type checkSummary struct {
	files    int
	passed   int
	failed   int
	skipped  int
	invalid  int
	notRun   int
	reasons  map[string]int
	duration time.Duration
}

// errFailFast cancels the remaining files after a failure under --fail-fast.
var errFailFast = errors.New("stopping after first failing file")

// cmdCheck runs fixture files and reports their results.
func cmdCheck(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCheckUsage()
		return 0
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	files, err := checkFiles(proj, args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if len(files) == 0 {
		err := errors.NotFound("fixture files", fmt.Sprintf("%s matching %q", proj.FixturesDirectory(), proj.Config.Fixtures.Pattern))
		out.ErrorPrefix("%v", err)
		return err.ExitCode()
	}

	logger, err := newLogger(opts)
	if err != nil {
		out.ErrorPrefix("cannot create logger: %v", err)
		return errors.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	base := comparisonOptions(proj, opts)
	n := jobs(proj, opts)
	logger.Debug("running fixtures", zap.Int("files", len(files)), zap.Int("jobs", n))

	start := time.Now()
	outcomes := runFiles(context.Background(), files, base, n, opts.FailFast, logger)
	summary := summarize(outcomes)
	summary.duration = time.Since(start)

	for _, o := range outcomes {
		printOutcome(o, opts)
	}
	printCheckSummary(summary)

	switch {
	case summary.invalid > 0:
		return errors.ExitConfigError
	case summary.failed > 0:
		return errors.ExitFailure
	}
	return errors.ExitSuccess
}

// checkFiles returns the fixture files named by args, or the project's own
// fixtures when args is empty.
func checkFiles(proj *project.Project, args []string) ([]string, error) {
	if len(args) == 0 {
		files, err := proj.FixtureFiles()
		if err != nil {
			return nil, &errors.Error{Kind: errors.KindConfig, Message: "cannot list fixtures", Cause: err}
		}
		return files, nil
	}
	files, err := project.ExpandPaths(args, proj.Config.Fixtures.Pattern)
	if err != nil {
		return nil, &errors.Error{Kind: errors.KindNotFound, Message: "cannot read fixtures", Cause: err}
	}
	return files, nil
}

// runFiles runs files with at most jobs at a time. Outcomes keep the order
// of files; files not run because of --fail-fast have neither result nor
// error.
func runFiles(ctx context.Context, files []string, base partialeq.Options, jobs int, failFast bool, logger *zap.Logger) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, file := range files {
		outcomes[i].file = file
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			opts := base
			opts.Logger = logger.With(zap.String("file", file))
			fr, err := fixture.RunFile(file, opts)
			outcomes[i].result, outcomes[i].err = fr, err
			if err != nil {
				logger.Warn("fixture file not loaded", zap.String("file", file), zap.Error(err))
			}
			if failFast && (err != nil || fr.Failed > 0) {
				return errFailFast
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func summarize(outcomes []fileOutcome) checkSummary {
	s := checkSummary{files: len(outcomes), reasons: make(map[string]int)}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			s.invalid++
		case o.result == nil:
			s.notRun++
		default:
			s.passed += o.result.Passed
			s.failed += o.result.Failed
			s.skipped += o.result.Skipped
			for _, r := range o.result.Results {
				if !r.Passed && !r.Skipped {
					s.reasons[failureLabel(r)]++
				}
			}
		}
	}
	return s
}

// failureLabel names the outcome of a failed case for the summary table.
func failureLabel(r fixture.Result) string {
	if m, ok := partialeq.AsMismatch(r.Err); ok {
		return titleCase.String(m.Reason.String())
	}
	return "Unexpected Match"
}

func printOutcome(o fileOutcome, opts *GlobalOptions) {
	switch {
	case o.err != nil:
		out.ErrorPrefix("%v", errors.Validation(o.file, o.err))
		return
	case o.result == nil:
		return
	}

	if !opts.Quiet {
		out.FileStart(o.file)
	}
	for _, r := range o.result.Results {
		switch {
		case r.Skipped:
			out.CaseSkipped(r.Case.Name)
		case r.Passed:
			out.CasePassed(r.Case.Name, formatDuration(r.Duration))
		default:
			out.CaseFailed(r.Case.Name, r.Problem)
		}
	}
}

func printCheckSummary(s checkSummary) {
	out.SummaryHeader("Summary")
	out.SummaryItem("Files", fmt.Sprintf("%d", s.files))
	out.SummaryPassed("Passed", fmt.Sprintf("%d", s.passed))
	if s.failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", s.failed))
	}
	if s.skipped > 0 {
		out.SummaryItem("Skipped", fmt.Sprintf("%d", s.skipped))
	}
	if s.invalid > 0 {
		out.SummaryFailed("Invalid files", fmt.Sprintf("%d", s.invalid))
	}
	if s.notRun > 0 {
		out.SummaryItem("Not run", fmt.Sprintf("%d", s.notRun))
	}
	out.SummaryItem("Duration", formatDuration(s.duration))

	if len(s.reasons) > 0 {
		labels := make([]string, 0, len(s.reasons))
		for label := range s.reasons {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		rows := make([][]string, len(labels))
		for i, label := range labels {
			rows[i] = []string{label, fmt.Sprintf("%d", s.reasons[label])}
		}
		out.Println("")
		out.Table([]string{"Failure", "Cases"}, rows)
	}

	total := s.passed + s.failed
	switch {
	case s.invalid > 0:
		out.FinalFailure("%d fixture file(s) could not be loaded.", s.invalid)
	case s.failed > 0:
		out.FinalFailure("%d of %d cases failed.", s.failed, total)
	default:
		out.FinalSuccess("All %d cases passed.", total)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func printCheckUsage() {
	w := out

	w.HelpTitle("partialeq check - run fixture files")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq check [<path>...] [flags]")

	w.HelpSection("Description:")
	w.Println("  Runs every case of the given fixture files or directories. Without")
	w.Println("  arguments, runs the fixtures configured in .partialeq.json.")

	w.HelpSection("Exit codes:")
	w.HelpFlag("0", "Every case passed", 4)
	w.HelpFlag("1", "A case failed", 4)
	w.HelpFlag("2", "Invalid configuration or fixture file", 4)
	w.HelpFlag("3", "No fixture files found", 4)

	printGlobalFlags(w)
	w.Println("")
}
