package snapshot

// Delta is the minimal set of staging operations between two consecutive
// snapshots. It is a pure value with no identity beyond one iteration.
//
// Renames are deliberately not detected: a moved file appears once in
// Removed (old path) and once in Added (new path). This approximation is
// part of the history shape, not a defect.
type Delta struct {
	// Added holds paths new in the current snapshot, plus paths whose
	// content identity changed and must be staged again
	Added []string

	// Removed holds paths present only in the previous snapshot
	Removed []string
}

// Empty reports whether the delta carries no staging work.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff computes the delta from previous to current. A nil previous models
// the initial import: everything in current is an addition. A path present
// in both snapshots with unchanged content identity is omitted from both
// sets. Both slices come out in sorted path order.
func Diff(previous, current *Snapshot) Delta {
	var delta Delta

	if previous == nil {
		delta.Added = current.Paths()
		return delta
	}

	it := current.files.Iterator()
	for it.Next() {
		path := it.Key().(string)
		identity := it.Value().(string)

		prevIdentity, existed := previous.Identity(path)
		if !existed || prevIdentity != identity {
			delta.Added = append(delta.Added, path)
		}
	}

	pit := previous.files.Iterator()
	for pit.Next() {
		path := pit.Key().(string)
		if _, exists := current.Identity(path); !exists {
			delta.Removed = append(delta.Removed, path)
		}
	}

	return delta
}
