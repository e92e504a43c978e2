package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/history"
	"github.com/luc-dc/vss2git/internal/snapshot"
)

const (
	// DefaultSSExe is the stock install location of the SourceSafe client
	DefaultSSExe = `C:\Program Files (x86)\Microsoft Visual SourceSafe\ss.exe`

	// DefaultNumLabels is the number of most recent releases converted
	// when no explicit selection is given
	DefaultNumLabels = 10

	// DefaultBranch is the head branch of the initial push
	DefaultBranch = "master"

	// DefaultProjectBase is the project base folder within SourceSafe
	DefaultProjectBase = "$"

	// FromDateLayout is the accepted format of the -d flag
	FromDateLayout = "2006-01-02"
)

// Config holds all vss2git application settings for one run. It is
// finalized once before the conversion starts and never re-read mid-run.
type Config struct {
	// SourceSafe side
	SSDir       string
	Project     string
	SSExe       string
	ProjectBase string
	User        string
	Password    string

	// Release selection (count and from-date are mutually exclusive)
	NumLabels int
	CountSet  bool
	FromDate  string

	// Parsing configuration
	LabelBase    string
	IssuePattern string
	DateFormat   string
	Excluded     []string

	// Git side
	GitExe   string
	Branch   string
	Remote   string
	Push     bool
	AttrFile string

	// Behavior
	List   bool
	Step   bool
	Resume bool

	// User experience
	Verbose bool

	// Debugging
	Debug   bool
	LogFile string

	// Build metadata
	VersionInfo VersionInfo

	// Derived paths, populated by Finalize
	WorkDir     string
	CheckoutDir string
	RepoDir     string
	HistoryFile string

	startDate time.Time
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		SSExe:       DefaultSSExe,
		ProjectBase: DefaultProjectBase,
		NumLabels:   DefaultNumLabels,
		DateFormat:  history.DefaultDateLayout,
		Excluded:    append([]string(nil), snapshot.DefaultExclusions...),
		GitExe:      "git",
		Branch:      DefaultBranch,
		Verbose:     true,

		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates config from environment variables.
// Credentials in particular are better passed through the environment
// than on a visible command line.
func (c *Config) LoadFromEnvironment() {
	c.User = getEnvString("VSS2GIT_USER", c.User)
	c.Password = getEnvString("VSS2GIT_PASSWORD", c.Password)
	c.SSExe = getEnvString("VSS2GIT_SS_EXE", c.SSExe)
	c.GitExe = getEnvString("VSS2GIT_GIT_EXE", c.GitExe)
	c.Debug = getEnvBool("VSS2GIT_DEBUG", c.Debug)
	c.LogFile = getEnvString("VSS2GIT_LOG_FILE", c.LogFile)
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.SSDir == "" {
		return errors.NewConfigError("ssdir", nil, errors.Wrap(errors.ErrInvalidConfiguration, "SourceSafe repository folder is required"))
	}
	if c.Project == "" {
		return errors.NewConfigError("project", nil, errors.Wrap(errors.ErrInvalidConfiguration, "SourceSafe project is required"))
	}

	if c.FromDate != "" && c.CountSet {
		return errors.NewConfigError("n/d", nil, errors.Wrap(errors.ErrInvalidConfiguration, "label count and start date are mutually exclusive"))
	}
	if c.FromDate != "" {
		d, err := time.Parse(FromDateLayout, c.FromDate)
		if err != nil {
			return errors.NewConfigError("d", c.FromDate, errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("start date must be %s: %v", FromDateLayout, err)))
		}
		c.startDate = d
	} else if c.NumLabels < 1 {
		return errors.NewConfigError("n", c.NumLabels, errors.Wrap(errors.ErrInvalidConfiguration, "label count must be at least 1"))
	}

	if c.LabelBase == "" {
		// Label pattern defaults to the project name
		c.LabelBase = c.Project
	}

	if err := snapshot.ExclusionSet(c.Excluded).Validate(); err != nil {
		return err
	}

	if c.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.NewConfigError("workdir", nil, errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
		c.WorkDir = wd
	}
	c.CheckoutDir = filepath.Join(c.WorkDir, "vss", c.Project)
	c.RepoDir = filepath.Join(c.WorkDir, "git", c.Project)
	c.HistoryFile = filepath.Join(c.WorkDir, "vss", c.Project+"_history.txt")

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		projectHash := fmt.Sprintf("%x", sha256OfString(c.SSDir+"/"+c.Project)[:8])
		c.LogFile = filepath.Join(logDir, "vss2git", "logs", fmt.Sprintf("vss2git-%s.log", projectHash))
	}

	return nil
}

// Mode returns the release selection mode derived from the flags.
// Finalize must have been called first.
func (c *Config) Mode() history.Mode {
	if !c.startDate.IsZero() {
		return history.Mode{FromDate: c.startDate}
	}
	return history.Mode{Count: c.NumLabels}
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
	}
	return defaultValue
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
