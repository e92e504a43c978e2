package snapshot

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/luc-dc/vss2git/internal/errors"
)

// ExclusionSet is the list of filename glob patterns excluded from every
// snapshot of a run, typically the control files the legacy system drops
// into checked-out trees. Patterns match against base names.
type ExclusionSet []string

// DefaultExclusions are the SourceSafe control files.
var DefaultExclusions = ExclusionSet{"vssver2.scc", "mssccprj.scc"}

// Validate checks every glob pattern for syntax errors.
func (e ExclusionSet) Validate() error {
	for _, pattern := range e {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return errors.NewConfigError("exclude", pattern, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
		}
	}
	return nil
}

// Match reports whether a base name is excluded.
func (e ExclusionSet) Match(name string) bool {
	for _, pattern := range e {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Snapshot is the set of project-relative file paths present in a source
// tree at one release, each with a content identity sufficient to detect
// change. Paths are slash-separated and case-preserving. The backing map
// is ordered so iteration, and therefore staging, is deterministic.
type Snapshot struct {
	files *treemap.Map // path -> identity
}

// New creates an empty Snapshot.
func New() *Snapshot {
	return &Snapshot{files: treemap.NewWithStringComparator()}
}

// Build walks the checked-out tree at root and records every file that
// survives the exclusion filter. Both snapshots of a diff must be built
// with the identical ExclusionSet; mixing configurations is a caller error.
func Build(root string, exclude ExclusionSet) (*Snapshot, error) {
	snap := New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if exclude.Match(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		identity, err := fileIdentity(path)
		if err != nil {
			return err
		}

		snap.Put(filepath.ToSlash(rel), identity)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to snapshot %s", root)
	}

	return snap, nil
}

// Put records a path with its content identity.
func (s *Snapshot) Put(path, identity string) {
	s.files.Put(path, identity)
}

// Identity returns the content identity recorded for a path.
func (s *Snapshot) Identity(path string) (string, bool) {
	v, found := s.files.Get(path)
	if !found {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	return s.files.Size()
}

// Paths returns every path in the snapshot in sorted order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, s.files.Size())
	it := s.files.Iterator()
	for it.Next() {
		paths = append(paths, it.Key().(string))
	}
	return paths
}

// fileIdentity derives the content identity of a file as size plus
// SHA-256. Identity only needs to distinguish changed from unchanged
// content between two snapshots of the same path.
func fileIdentity(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d:%x", size, h.Sum(nil)), nil
}
