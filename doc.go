// Package vss2git converts a Visual SourceSafe project's release history
// into a Git repository.
//
// vss2git reads the label history of a SourceSafe project, keeps the labels
// that follow the project's release naming convention, and replays each
// release as one Git commit with a matching tag. The commit carries the
// label's author, timestamp and comment, so the resulting repository reads
// like the project had been in Git all along.
//
// # Quick Start
//
//	# Convert the ten most recent releases of MyProj
//	vss2git \\server\vss MyProj
//
//	# Convert every release since a date and push the result
//	vss2git -d 2020-01-01 -R git@example.com:team/myproj.git -P \\server\vss MyProj
//
//	# See which labels would be converted without touching anything
//	vss2git -L \\server\vss MyProj
//
// # How It Works
//
// For every selected release, oldest first, vss2git checks the labelled
// tree out of SourceSafe, diffs it against the previous release's tree,
// stages the additions and removals, commits, and tags the commit with a
// sanitized form of the label. Releases whose tree did not change are
// tagged on the previous commit instead of creating an empty one.
//
// Release labels are recognized by name: a base name (the project name by
// default) followed by a dotted or underscored version such as
// MyProj_1.2.0.0 or MyProj.1.2. Other labels are ignored. A tracker
// reference found in the label comment (JIRA-123 style) becomes the first
// line of the commit message.
//
// Work happens in ./vss/<project> (checkouts) and ./git/<project> (the
// repository being built). A fresh run wipes both; --resume keeps the
// repository and skips releases whose tag already exists.
//
// SourceSafe is driven through its ss.exe command line client, so vss2git
// needs ss.exe and git on the machine it runs on. Credentials come from
// the -u and -p flags or the VSS2GIT_USER and VSS2GIT_PASSWORD environment
// variables.
//
// # Package Organization
//
//   - cmd/vss2git: command line entry point
//   - internal/config: flag and environment configuration
//   - internal/history: label parsing, release classification and selection
//   - internal/vss: SourceSafe command line driver
//   - internal/snapshot: checkout tree snapshots and diffing
//   - internal/git: git command line driver and repository inspection
//   - internal/convert: the release replay loop
//   - internal/logger: debug and user-facing logging
//   - internal/errors: sentinel and typed errors
//
// This file exists for documentation purposes only.
package vss2git
