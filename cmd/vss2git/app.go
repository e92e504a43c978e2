package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/urfave/cli/v2"

	"github.com/luc-dc/vss2git/internal/config"
	"github.com/luc-dc/vss2git/internal/convert"
	internalErrors "github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/git"
	"github.com/luc-dc/vss2git/internal/history"
	"github.com/luc-dc/vss2git/internal/logger"
	"github.com/luc-dc/vss2git/internal/snapshot"
	"github.com/luc-dc/vss2git/internal/vss"
)

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger logger.Logger

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit         func(code int)
	ExecLookPath func(file string) (string, error)
}

// App is the main vss2git application
type App struct {
	Config *config.Config
	Logger logger.Logger

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit         func(code int)
	execLookPath func(file string) (string, error)
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo
	cfg.LoadFromEnvironment()

	return NewApp(AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
	})
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}

	return app
}

// CLI builds the command-line surface of the application.
func (a *App) CLI() *cli.App {
	cfg := a.Config

	return &cli.App{
		Name:      "vss2git",
		Usage:     "Convert a Visual SourceSafe project's release history to Git",
		Version:   cfg.VersionInfo.Version,
		ArgsUsage: "ssdir project",
		Writer:    a.Stdout,
		ErrWriter: a.Stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: config.DefaultNumLabels, Usage: "Number of labels to convert"},
			&cli.StringFlag{Name: "d", Usage: "Start date of labels to convert (YYYY-MM-DD)"},
			&cli.StringSliceFlag{Name: "e", Usage: "File patterns to exclude (replaces the default SourceSafe control files)"},
			&cli.StringFlag{Name: "l", Usage: "Name used in labels if different from the project name"},
			&cli.BoolFlag{Name: "L", Aliases: []string{"list"}, Usage: "List releases and exit"},
			&cli.StringFlag{Name: "u", Usage: "SourceSafe login user name"},
			&cli.StringFlag{Name: "p", Usage: "SourceSafe login password"},
			&cli.StringFlag{Name: "B", Value: config.DefaultBranch, Usage: "Head branch of the initial push"},
			&cli.BoolFlag{Name: "s", Usage: "Step through each release conversion"},
			&cli.StringFlag{Name: "R", Usage: "Git repository URL to set as remote"},
			&cli.BoolFlag{Name: "P", Usage: "Push the repository to the remote server"},
			&cli.StringFlag{Name: "attr-file", Usage: "File to copy into the repository as .gitattributes"},
			&cli.StringFlag{Name: "ss-exe", Value: config.DefaultSSExe, Usage: "Full path to the SourceSafe command-line executable"},
			&cli.StringFlag{Name: "project-base", Value: config.DefaultProjectBase, Usage: "Project base folder within SourceSafe"},
			&cli.StringFlag{Name: "git-exe", Value: "git", Usage: "Git command line executable"},
			&cli.StringFlag{Name: "date-format", Value: history.DefaultDateLayout, Usage: "Go time layout of history dates"},
			&cli.StringFlag{Name: "issue-pattern", Usage: "Pattern extracting tracker references from label comments"},
			&cli.BoolFlag{Name: "resume", Usage: "Keep the work repository and skip already-tagged releases"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "log-file", Usage: "Path to log file"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Hide informational messages"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				_ = cli.ShowAppHelp(c)
				return internalErrors.Wrap(internalErrors.ErrInvalidConfiguration, "ssdir and project arguments are required")
			}

			cfg.SSDir = c.Args().Get(0)
			cfg.Project = c.Args().Get(1)
			cfg.NumLabels = c.Int("n")
			cfg.CountSet = c.IsSet("n")
			cfg.FromDate = c.String("d")
			if c.IsSet("e") {
				cfg.Excluded = c.StringSlice("e")
			}
			cfg.LabelBase = c.String("l")
			cfg.List = c.Bool("L")
			if c.IsSet("u") {
				cfg.User = c.String("u")
			}
			if c.IsSet("p") {
				cfg.Password = c.String("p")
			}
			cfg.Branch = c.String("B")
			cfg.Step = c.Bool("s")
			cfg.Remote = c.String("R")
			cfg.Push = c.Bool("P")
			cfg.AttrFile = c.String("attr-file")
			cfg.SSExe = c.String("ss-exe")
			cfg.ProjectBase = c.String("project-base")
			cfg.GitExe = c.String("git-exe")
			cfg.DateFormat = c.String("date-format")
			cfg.IssuePattern = c.String("issue-pattern")
			cfg.Resume = c.Bool("resume")
			if c.IsSet("debug") {
				cfg.Debug = c.Bool("debug")
			}
			if c.IsSet("log-file") {
				cfg.LogFile = c.String("log-file")
			}
			cfg.Verbose = !c.Bool("quiet")

			return a.Run(c.Context)
		},
	}
}

// Run executes one conversion with the finalized configuration.
func (a *App) Run(ctx context.Context) error {
	if err := a.Config.Finalize(); err != nil {
		if internalErrors.Is(err, internalErrors.ErrInvalidConfiguration) {
			return err
		}
		return internalErrors.Wrap(internalErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
	}

	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
		}
	}()

	if err := a.checkRequiredCommands(); err != nil {
		return err
	}

	// Pattern configuration problems abort before any release is touched
	grammar := history.DefaultGrammar()
	grammar.DateLayout = a.Config.DateFormat
	parser, err := history.NewParser(grammar)
	if err != nil {
		return err
	}
	classifier, err := history.NewClassifier(a.Config.LabelBase, a.Config.IssuePattern)
	if err != nil {
		return err
	}

	source := vss.NewRunner(vss.Config{
		Exe:         a.Config.SSExe,
		RepoDir:     a.Config.SSDir,
		User:        a.Config.User,
		Password:    a.Config.Password,
		ProjectBase: a.Config.ProjectBase,
	}, a.Logger)

	a.Logger.InfoToUser("Retrieving history for %s", a.Config.Project)
	historyText, err := source.History(a.Config.Project)
	if err != nil {
		return err
	}

	a.Logger.Info("Parsing history")
	releases := classify(parser.Parse(historyText), classifier)
	a.Logger.InfoToUser("Found %d release labels", len(releases))

	if a.Config.List {
		for _, rel := range history.Order(releases) {
			a.Logger.StatusMessage("%s\t%s\t%s", rel.Name, rel.Timestamp.Format("2006-01-02 15:04"), rel.Comment)
		}
		return nil
	}

	mode := a.Config.Mode()
	if mode.Count > len(releases) && mode.Count > 0 {
		a.Logger.InfoToUser("Adjusted number of labels to process to %d", len(releases))
	}

	selected := history.Select(releases, mode)
	if len(selected) == 0 {
		// A no-op run is a success, not a crash
		a.Logger.WarningToUser("No releases selected; nothing to convert")
		return nil
	}

	sink, selected, err := a.prepareWorkFolders(historyText, selected)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		a.Logger.Success("All selected releases are already tagged; nothing to do")
		return nil
	}

	baseline := history.Predecessor(releases, selected[0])

	var interactor convert.Interactor
	if a.Config.Step {
		interactor = convert.NewDefaultInteractor(a.Logger)
	}

	converter := convert.New(convert.Config{
		Project:     a.Config.Project,
		CheckoutDir: a.Config.CheckoutDir,
		RepoDir:     a.Config.RepoDir,
		Exclusions:  snapshot.ExclusionSet(a.Config.Excluded),
		AttrFile:    a.Config.AttrFile,
		Step:        a.Config.Step,
	}, a.Logger, source, sink, interactor)

	err = converter.Run(ctx, selected, baseline)
	converter.PrintSummary()
	if err != nil {
		return err
	}

	if a.Config.Push {
		a.Logger.InfoToUser("Pushing repository to the %s branch", a.Config.Branch)
		if err := sink.Push(a.Config.Branch); err != nil {
			return err
		}
	}

	a.Logger.Success("Converted %d releases of %s", len(selected), a.Config.Project)
	return nil
}

// prepareWorkFolders sets up the checkout and repository folders and
// returns the git sink. A fresh run wipes previous work folders like the
// original tool; a resume keeps the repository and drops releases whose
// tag already exists, since prior commits remain individually valid.
func (a *App) prepareWorkFolders(historyText string, selected []*history.Release) (*git.Runner, []*history.Release, error) {
	cfg := a.Config

	if !cfg.Resume {
		for _, dir := range []string{cfg.CheckoutDir, cfg.RepoDir} {
			if _, err := os.Stat(dir); err == nil {
				a.Logger.InfoToUser("Removing work folder %s", dir)
				if err := os.RemoveAll(dir); err != nil {
					return nil, nil, internalErrors.Wrapf(err, "failed to remove work folder %s", dir)
				}
			}
		}
	}

	for _, dir := range []string{cfg.CheckoutDir, cfg.RepoDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, internalErrors.Wrapf(err, "failed to create work folder %s", dir)
		}
	}

	if err := os.WriteFile(cfg.HistoryFile, []byte(historyText), 0644); err != nil {
		a.Logger.Warning("Failed to write history to %s: %v", cfg.HistoryFile, err)
	} else {
		a.Logger.InfoToUser("History written to %s", cfg.HistoryFile)
	}

	sink := git.NewRunner(git.Config{Exe: cfg.GitExe, RepoDir: cfg.RepoDir}, a.Logger)

	if cfg.Resume && git.IsRepository(cfg.RepoDir) {
		existing, err := git.ExistingTags(cfg.RepoDir)
		if err != nil {
			return nil, nil, err
		}
		var remaining []*history.Release
		for _, rel := range selected {
			if existing[rel.TagName] {
				a.Logger.InfoToUser("Tag %s already exists; skipping %s", rel.TagName, rel.Name)
				continue
			}
			remaining = append(remaining, rel)
		}
		return sink, remaining, nil
	}

	a.Logger.InfoToUser("Initializing git repository in %s", cfg.RepoDir)
	if err := sink.Init(); err != nil {
		return nil, nil, err
	}
	if cfg.Remote != "" {
		a.Logger.InfoToUser("Setting remote repository URL to %s", cfg.Remote)
		if err := sink.SetRemote(cfg.Remote); err != nil {
			return nil, nil, err
		}
	}

	return sink, selected, nil
}

// classify runs every parsed label through the classifier, dropping the
// intermediate and working labels.
func classify(records []history.LabelRecord, classifier *history.Classifier) []*history.Release {
	var releases []*history.Release
	for _, rec := range records {
		if rel := classifier.Classify(rec); rel != nil {
			releases = append(releases, rel)
		}
	}
	return releases
}

// checkRequiredCommands verifies the external executables are reachable
func (a *App) checkRequiredCommands() error {
	if _, err := a.execLookPath(a.Config.GitExe); err != nil {
		return internalErrors.Errorf("git executable %q not found. Please install it and try again", a.Config.GitExe)
	}
	if _, err := a.execLookPath(a.Config.SSExe); err != nil {
		return internalErrors.Errorf("SourceSafe executable %q not found", a.Config.SSExe)
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	if a.Logger != nil {
		return a.Logger.Close()
	}
	return nil
}
