package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luc-dc/vss2git/internal/errors"
)

// initTaggedRepo creates a real repository with one commit and the given
// tags, the state a resumed run finds on disk.
func initTaggedRepo(t *testing.T, tags ...string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("one"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.c")
	require.NoError(t, err)

	hash, err := wt.Commit("MyProj_1.0", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Jdoe", Email: "jdoe@localhost", When: time.Now()},
	})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err = repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

func TestIsRepository(t *testing.T) {
	assert.False(t, IsRepository(t.TempDir()))
	assert.True(t, IsRepository(initTaggedRepo(t)))
}

func TestExistingTags(t *testing.T) {
	dir := initTaggedRepo(t, "MyProj_1.0.0.0", "MyProj_1.1.0.0")

	tags, err := ExistingTags(dir)
	require.NoError(t, err)

	assert.True(t, tags["MyProj_1.0.0.0"])
	assert.True(t, tags["MyProj_1.1.0.0"])
	assert.False(t, tags["MyProj_2.0.0.0"])
}

func TestExistingTags_EmptyRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	tags, err := ExistingTags(dir)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestExistingTags_NotARepository(t *testing.T) {
	_, err := ExistingTags(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotGitRepository))
}
