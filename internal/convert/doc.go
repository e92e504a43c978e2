// Package convert drives the release-by-release conversion loop.
//
// For each selected release, in oldest-first order, the Converter checks
// out the labeled tree, diffs it against the previous snapshot, stages
// the delta, commits with a message derived from the label history and
// tags the result. Releases are processed strictly sequentially: each
// delta depends on the immediately preceding snapshot, so there is
// nothing to parallelize and no skipping on failure. A checkout, stage,
// commit or tag failure stops the run at the current release boundary;
// commits and tags already created remain valid and a re-run can resume
// past them.
package convert
