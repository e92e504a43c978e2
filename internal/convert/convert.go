package convert

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/history"
	"github.com/luc-dc/vss2git/internal/logger"
	"github.com/luc-dc/vss2git/internal/snapshot"
)

// Source checks out point-in-time trees from the legacy system.
type Source interface {
	// GetAtLabel materializes the project tree at a label into outDir
	GetAtLabel(project, label, outDir string) error
}

// Sink applies staging, commit and tag operations to the target
// repository. Staging must be idempotent.
type Sink interface {
	Add(paths []string) error
	Remove(path string, recursive bool) error
	Commit(author, message string, timestamp time.Time) error
	Tag(name string) error
	HasCommits() bool
}

// Config contains the settings for one conversion run. It is immutable:
// the converter never re-reads configuration mid-run.
type Config struct {
	// Project is the SourceSafe project being converted
	Project string

	// CheckoutDir is where per-release trees are checked out
	CheckoutDir string

	// RepoDir is the work repository the releases are committed into
	RepoDir string

	// Exclusions filters legacy control files out of every snapshot
	Exclusions snapshot.ExclusionSet

	// AttrFile, when set, is copied into the repository as .gitattributes
	// before the first commit
	AttrFile string

	// Step pauses for confirmation before each release
	Step bool
}

// Converter replays selected releases against the target repository, one
// release at a time: Checkout, Diff, Stage, Commit, Tag, strictly in that
// order. Each release either completes fully or the whole run stops;
// earlier commits and tags are left intact since they remain valid.
type Converter struct {
	config     Config
	logger     logger.Logger
	source     Source
	sink       Sink
	interactor Interactor

	startTime time.Time
	commits   int
	tags      int
}

// New creates a Converter. The interactor is only consulted in step mode.
func New(config Config, log logger.Logger, source Source, sink Sink, interactor Interactor) *Converter {
	if interactor == nil {
		interactor = NewNonInteractiveInteractor()
	}
	return &Converter{
		config:     config,
		logger:     log,
		source:     source,
		sink:       sink,
		interactor: interactor,
	}
}

// Run converts the releases oldest-first. The baseline, when non-nil, is
// the release immediately preceding the first selected one; its tree is
// checked out for diffing only and never committed. A nil baseline makes
// the first delta an initial import of everything.
func (c *Converter) Run(ctx context.Context, releases []*history.Release, baseline *history.Release) error {
	c.startTime = time.Now()

	if len(releases) == 0 {
		return errors.ErrNoReleases
	}

	var previous *snapshot.Snapshot
	if baseline != nil {
		c.logger.InfoToUser("Using %s as the diff baseline (not committed)", baseline.Name)
		snap, _, err := c.checkout(baseline)
		if err != nil {
			return err
		}
		previous = snap
	}

	for i, rel := range releases {
		// Cancellation is honored only at release boundaries; the unit
		// of work is one full release.
		if err := ctx.Err(); err != nil {
			return err
		}

		c.logger.StatusMessage("--------------------------------------------------------------------------------")
		c.logger.StatusMessage("📦 Processing label %s (%d of %d)", rel.Name, i+1, len(releases))

		if c.config.Step {
			if !c.interactor.PromptYesNo("Convert this release?") {
				c.logger.WarningToUser("Conversion stopped before %s; history so far is kept", rel.Name)
				return nil
			}
		}

		current, dir, err := c.checkout(rel)
		if err != nil {
			return err
		}

		delta := snapshot.Diff(previous, current)

		if err := c.stage(rel, delta, dir, i == 0); err != nil {
			return err
		}

		if err := c.commitAndTag(rel, delta, previous == nil); err != nil {
			return err
		}

		previous = current
	}

	return nil
}

// checkout materializes the tree at a release label and snapshots it.
// Checkout failure is fatal to the whole run: every subsequent delta
// depends on this snapshot being accurate.
func (c *Converter) checkout(rel *history.Release) (*snapshot.Snapshot, string, error) {
	dir := filepath.Join(c.config.CheckoutDir, rel.TagName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", errors.Wrapf(errors.ErrCheckoutFailed, "release %s: %v", rel.Name, err)
	}

	c.logger.Info("Checking out %s into %s", rel.Name, dir)
	if err := c.source.GetAtLabel(c.config.Project, rel.Name, dir); err != nil {
		return nil, "", errors.Wrapf(errors.ErrCheckoutFailed, "release %s: %v", rel.Name, err)
	}

	snap, err := snapshot.Build(dir, c.config.Exclusions)
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrCheckoutFailed, "release %s: %v", rel.Name, err)
	}

	c.logger.Info("Snapshot of %s holds %d files", rel.Name, snap.Len())
	return snap, dir, nil
}

// stage copies the checked-out tree into the work repository and hands
// the delta to the sink, removals first. A failed stage leaves the target
// divergent from the intended snapshot and must never be committed.
func (c *Converter) stage(rel *history.Release, delta snapshot.Delta, checkoutDir string, first bool) error {
	if err := copyTree(checkoutDir, c.config.RepoDir, c.config.Exclusions); err != nil {
		return errors.Wrapf(err, "release %s: failed to populate work tree", rel.Name)
	}

	added := delta.Added
	if first && c.config.AttrFile != "" {
		if err := copyFile(c.config.AttrFile, filepath.Join(c.config.RepoDir, ".gitattributes")); err != nil {
			return errors.Wrapf(err, "release %s: failed to copy attributes file", rel.Name)
		}
		c.logger.InfoToUser("Copied %s to .gitattributes", c.config.AttrFile)
		added = append(added, ".gitattributes")
	}

	for _, path := range delta.Removed {
		c.logger.StatusMessage("  -%s", path)
		if err := c.sink.Remove(path, false); err != nil {
			return errors.Wrapf(err, "release %s: failed to stage removal of %s", rel.Name, path)
		}
	}

	for _, path := range delta.Added {
		c.logger.StatusMessage("  +%s", path)
	}
	if err := c.sink.Add(added); err != nil {
		return errors.Wrapf(err, "release %s: failed to stage additions", rel.Name)
	}

	return nil
}

// commitAndTag creates the release commit and its tag. An empty delta on
// a non-initial release carries no information, so the commit is skipped
// and the tag lands on the previous commit: every selected release maps
// to exactly one reachable tag.
func (c *Converter) commitAndTag(rel *history.Release, delta snapshot.Delta, initial bool) error {
	if delta.Empty() && !initial {
		c.logger.InfoToUser("No changes at %s; tagging previous commit", rel.Name)
	} else if delta.Empty() {
		c.logger.WarningToUser("Release %s has an empty tree; nothing to commit", rel.Name)
	} else {
		if err := c.sink.Commit(rel.Author, commitMessage(rel), rel.Timestamp); err != nil {
			return errors.Wrapf(err, "release %s: commit failed", rel.Name)
		}
		c.commits++
		c.logger.Success("Committed %s", rel.Name)
	}

	if !c.sink.HasCommits() {
		c.logger.WarningToUser("No commit exists yet; skipping tag %s", rel.TagName)
		return nil
	}

	if err := c.sink.Tag(rel.TagName); err != nil {
		return errors.Wrapf(err, "release %s: tag %s failed", rel.Name, rel.TagName)
	}
	c.tags++
	if rel.TagName != rel.Name {
		c.logger.Info("Label %s tagged as %s", rel.Name, rel.TagName)
	}

	return nil
}

// commitMessage derives the message for a release: the tracker reference
// when one was found in the label comment, else the raw comment, else a
// placeholder naming the release.
func commitMessage(rel *history.Release) string {
	switch {
	case rel.IssueRef != "" && rel.Comment != "":
		return rel.IssueRef + "\n\n" + rel.Comment
	case rel.IssueRef != "":
		return rel.IssueRef
	case rel.Comment != "":
		return rel.Comment
	default:
		return "Release " + rel.Name
	}
}

// PrintSummary prints a summary of the conversion run.
func (c *Converter) PrintSummary() {
	duration := time.Since(c.startTime)

	c.logger.StatusMessage("")
	c.logger.StatusMessage("---------------------------------------------")
	c.logger.StatusMessage("📊 Conversion Summary")
	c.logger.StatusMessage("---------------------------------------------")
	c.logger.StatusMessage("✅ Commits created: %d", c.commits)
	c.logger.StatusMessage("🏷️  Tags created: %d", c.tags)
	c.logger.StatusMessage("⏱️  Duration: %s", duration.Round(time.Second))
}

// copyTree copies every non-excluded file under src into dst, creating
// directories as needed. Files already in dst are overwritten; files that
// vanished from src are left for the staged removals to handle.
func copyTree(src, dst string, exclude snapshot.ExclusionSet) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if exclude.Match(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies a single file, replacing any existing target.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
