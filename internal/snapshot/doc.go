// Package snapshot captures the file contents of a checked-out source
// tree and computes the minimal staging delta between two consecutive
// snapshots.
//
// A Snapshot maps project-relative paths to content identities (size plus
// SHA-256). Diff reports paths to add and paths to remove; a path whose
// identity is unchanged is omitted from both sets. Renames are not
// detected by design: a moved file is a removal plus an addition, an
// approximation inherited from the conversion model.
package snapshot
