package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luc-dc/vss2git/internal/errors"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := New()
	cfg.SSDir = `\\server\vss`
	cfg.Project = "MyProj"
	cfg.WorkDir = t.TempDir()
	return cfg
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultSSExe, cfg.SSExe)
	assert.Equal(t, DefaultProjectBase, cfg.ProjectBase)
	assert.Equal(t, DefaultNumLabels, cfg.NumLabels)
	assert.Equal(t, DefaultBranch, cfg.Branch)
	assert.Equal(t, "git", cfg.GitExe)
	assert.Contains(t, cfg.Excluded, "vssver2.scc")
	assert.True(t, cfg.Verbose)
}

func TestFinalize_RequiredArguments(t *testing.T) {
	cfg := New()
	cfg.WorkDir = t.TempDir()

	err := cfg.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))

	cfg.SSDir = `\\server\vss`
	err = cfg.Finalize()
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "project", cfgErr.Parameter)
}

func TestFinalize_CountAndDateMutuallyExclusive(t *testing.T) {
	cfg := validConfig(t)
	cfg.CountSet = true
	cfg.NumLabels = 5
	cfg.FromDate = "2021-01-01"

	err := cfg.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))
}

func TestFinalize_FromDate(t *testing.T) {
	cfg := validConfig(t)
	cfg.FromDate = "2021-03-12"
	require.NoError(t, cfg.Finalize())

	mode := cfg.Mode()
	assert.Equal(t, 0, mode.Count)
	assert.Equal(t, time.Date(2021, time.March, 12, 0, 0, 0, 0, time.UTC), mode.FromDate)
}

func TestFinalize_BadFromDate(t *testing.T) {
	cfg := validConfig(t)
	cfg.FromDate = "12/03/2021"

	err := cfg.Finalize()
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "d", cfgErr.Parameter)
	assert.Equal(t, "12/03/2021", cfgErr.Value)
}

func TestFinalize_CountMode(t *testing.T) {
	cfg := validConfig(t)
	cfg.NumLabels = 3
	require.NoError(t, cfg.Finalize())

	mode := cfg.Mode()
	assert.Equal(t, 3, mode.Count)
	assert.True(t, mode.FromDate.IsZero())
}

func TestFinalize_CountMustBePositive(t *testing.T) {
	cfg := validConfig(t)
	cfg.NumLabels = 0

	err := cfg.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))
}

func TestFinalize_LabelBaseDefaultsToProject(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, "MyProj", cfg.LabelBase)

	cfg = validConfig(t)
	cfg.LabelBase = "MyProject"
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, "MyProject", cfg.LabelBase)
}

func TestFinalize_DerivedPaths(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, filepath.Join(cfg.WorkDir, "vss", "MyProj"), cfg.CheckoutDir)
	assert.Equal(t, filepath.Join(cfg.WorkDir, "git", "MyProj"), cfg.RepoDir)
	assert.Equal(t, filepath.Join(cfg.WorkDir, "vss", "MyProj_history.txt"), cfg.HistoryFile)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestFinalize_BadExclusionGlob(t *testing.T) {
	cfg := validConfig(t)
	cfg.Excluded = []string{"[unclosed"}

	err := cfg.Finalize()
	require.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VSS2GIT_USER", "converter")
	t.Setenv("VSS2GIT_PASSWORD", "secret")
	t.Setenv("VSS2GIT_DEBUG", "true")

	cfg := New()
	cfg.LoadFromEnvironment()

	assert.Equal(t, "converter", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.True(t, cfg.Debug)
}

func TestLoadFromEnvironment_KeepsDefaults(t *testing.T) {
	cfg := New()
	cfg.User = "fallback"
	cfg.LoadFromEnvironment()
	assert.Equal(t, "fallback", cfg.User)
	assert.Equal(t, DefaultSSExe, cfg.SSExe)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("VSS2GIT_TEST_BOOL", "yes")
	assert.True(t, getEnvBool("VSS2GIT_TEST_BOOL", false))

	t.Setenv("VSS2GIT_TEST_BOOL", "0")
	assert.False(t, getEnvBool("VSS2GIT_TEST_BOOL", true))

	t.Setenv("VSS2GIT_TEST_BOOL", "garbage")
	assert.True(t, getEnvBool("VSS2GIT_TEST_BOOL", true))
}
