package history

import (
	"sort"
	"time"
)

// Mode is the release selection criterion. Exactly one of Count or
// FromDate is active per run; config validation enforces the exclusivity.
type Mode struct {
	// Count selects the N most recent releases (highest version keys)
	Count int

	// FromDate selects every release labeled at or after this instant
	FromDate time.Time
}

// Order sorts the classified releases by version key ascending (ties by
// timestamp), disambiguates tag-name collisions and drops re-applied
// labels. The result is the canonical oldest-first release sequence of a
// project; version keys are strictly increasing across it.
func Order(releases []*Release) []*Release {
	ordered := make([]*Release, len(releases))
	copy(ordered, releases)

	sort.SliceStable(ordered, func(i, j int) bool {
		if c := ordered[i].Version.Compare(ordered[j].Version); c != 0 {
			return c < 0
		}
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	ordered = disambiguateTags(ordered)
	return dedupeTags(ordered)
}

// Predecessor returns the release immediately preceding first in the
// canonical order, or nil when first is the earliest known release. The
// predecessor's tree is the diff baseline for a truncated selection even
// though the release itself is not converted.
func Predecessor(releases []*Release, first *Release) *Release {
	ordered := Order(releases)
	for i, rel := range ordered {
		if rel.TagName == first.TagName {
			if i == 0 {
				return nil
			}
			return ordered[i-1]
		}
	}
	return nil
}

// Select orders the classified releases and truncates them according to
// the mode. The result is always oldest-first, since replay must proceed
// in forward order to build an accurate incremental history. An empty
// result is reported as an empty slice; whether that is fatal is the
// orchestrator's decision.
func Select(releases []*Release, mode Mode) []*Release {
	ordered := Order(releases)

	if mode.Count > 0 {
		if mode.Count < len(ordered) {
			ordered = ordered[len(ordered)-mode.Count:]
		}
		return ordered
	}

	var kept []*Release
	for _, rel := range ordered {
		if !rel.Timestamp.Before(mode.FromDate) {
			kept = append(kept, rel)
		}
	}
	return kept
}

// disambiguateTags appends the version tuple to tag names that collide
// after sanitization but belong to distinct versions.
func disambiguateTags(ordered []*Release) []*Release {
	byTag := make(map[string][]*Release)
	for _, rel := range ordered {
		byTag[rel.TagName] = append(byTag[rel.TagName], rel)
	}

	out := make([]*Release, 0, len(ordered))
	for _, rel := range ordered {
		group := byTag[rel.TagName]
		if hasDistinctVersions(group) {
			clone := *rel
			clone.TagName = rel.TagName + "-" + rel.Version.String()
			out = append(out, &clone)
			continue
		}
		out = append(out, rel)
	}
	return out
}

// hasDistinctVersions reports whether a tag-name group spans more than
// one version key.
func hasDistinctVersions(group []*Release) bool {
	for _, rel := range group[1:] {
		if rel.Version.Compare(group[0].Version) != 0 {
			return true
		}
	}
	return false
}

// dedupeTags drops later releases that produce an already-seen tag name.
// The input is sorted ascending, so the survivor is the one with the
// smallest version key and earliest timestamp: legacy systems re-apply a
// label after correction, and the earliest application is the real one.
func dedupeTags(ordered []*Release) []*Release {
	seen := make(map[string]bool, len(ordered))
	out := make([]*Release, 0, len(ordered))
	for _, rel := range ordered {
		if seen[rel.TagName] {
			continue
		}
		seen[rel.TagName] = true
		out = append(out, rel)
	}
	return out
}
