package git

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/luc-dc/vss2git/internal/errors"
)

// IsRepository checks if the given path is a git repository.
func IsRepository(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}

// ExistingTags returns the set of tag names already present in the work
// repository. A re-run resumes by skipping releases whose tag is in this
// set; earlier commits and tags remain individually valid, so no rollback
// is ever needed.
func ExistingTags(path string) (map[string]bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		if err == gogit.ErrRepositoryNotExists {
			return nil, errors.Wrap(errors.ErrNotGitRepository, path)
		}
		return nil, errors.Wrap(err, "failed to open work repository")
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}

	tags := make(map[string]bool)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags[ref.Name().Short()] = true
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to iterate tags")
	}

	return tags, nil
}
