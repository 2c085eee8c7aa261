package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/partialeq/internal/config"
	"github.com/AndreyAkinshin/partialeq/internal/errors"
)

// exampleFixture is written to a new project's fixtures directory.
const exampleFixture = `{
  "cases": [
    {
      "name": "extra actual keys are ignored",
      "actual": {"id": 7, "name": "ada", "roles": ["admin", "dev"]},
      "expected": {"roles": ["dev"]}
    },
    {
      "name": "missing keys are reported",
      "actual": {"id": 7},
      "expected": {"id": 7, "name": "ada"},
      "want": "mismatch",
      "reason": "missing_key",
      "path": "$.name"
    }
  ]
}
`

// cmdInit creates .partialeq.json and an example fixture in the working
// directory. It only creates files that don't exist.
func cmdInit(args []string) int {
	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printInitUsage()
			return 0
		case strings.HasPrefix(arg, "-"):
			out.ErrorPrefix("init: unknown option %q", arg)
			return errors.ExitConfigError
		default:
			out.ErrorPrefix("init: unexpected argument %q", arg)
			return errors.ExitConfigError
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		e := errors.Environment("cannot read working directory")
		e.Cause = err
		out.ErrorPrefix("%v", e)
		return e.ExitCode()
	}

	created, err := initProject(cwd)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if len(created) == 0 {
		out.Info("Project already initialized (nothing to do)")
		return 0
	}
	out.Success("Initialized partialeq project")
	out.HelpSection("Created:")
	out.List(created)
	out.HelpSection("Next steps:")
	out.Println("  1. Add fixture files under %s/", config.DefaultFixturesDirectory)
	out.Println("  2. Run 'partialeq check'")
	out.Println("")
	return 0
}

// initProject writes the missing project files under root and returns their
// paths relative to root.
func initProject(root string) ([]string, error) {
	var created []string

	configPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &config.Config{
			Fixtures: &config.FixturesConfig{
				Directory: config.DefaultFixturesDirectory,
				Pattern:   config.DefaultFixturesPattern,
			},
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "cannot encode configuration")
		}
		data = append(data, '\n')
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return nil, &errors.Error{Kind: errors.KindEnvironment, Message: "cannot write configuration", File: configPath, Cause: err}
		}
		created = append(created, config.FileName)
	}

	fixturesDir := filepath.Join(root, config.DefaultFixturesDirectory)
	if _, err := os.Stat(fixturesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(fixturesDir, 0755); err != nil {
			return created, &errors.Error{Kind: errors.KindEnvironment, Message: "cannot create fixtures directory", Cause: err}
		}
		examplePath := filepath.Join(fixturesDir, "example.json")
		if err := os.WriteFile(examplePath, []byte(exampleFixture), 0644); err != nil {
			return created, &errors.Error{Kind: errors.KindEnvironment, Message: "cannot write example fixture", File: examplePath, Cause: err}
		}
		created = append(created, filepath.Join(config.DefaultFixturesDirectory, "example.json"))
	}

	return created, nil
}

func printInitUsage() {
	w := out

	w.HelpTitle("partialeq init - create a partialeq project")

	w.HelpSection("Usage:")
	w.HelpUsage("partialeq init")

	w.HelpSection("Description:")
	w.Println("  Creates .partialeq.json and fixtures/example.json in the current")
	w.Println("  directory. Existing files are left untouched.")
	w.Println("")
}
