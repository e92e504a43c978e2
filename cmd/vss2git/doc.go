// Package main implements vss2git, a Visual SourceSafe to Git converter
//
// vss2git replays the release labels of a SourceSafe project as Git commits
// and tags, one commit per release, in chronological order. This package
// provides the command-line interface; the conversion itself lives in the
// internal packages of github.com/luc-dc/vss2git.
//
// # Basic Usage
//
//	vss2git [options] ssdir project
//
// ssdir is the SourceSafe repository folder (the folder holding
// srcsafe.ini) and project is the project name below the project base
// folder, $/ by default.
//
// # Options
//
//	-n count          Number of most recent releases to convert (default 10)
//	-d date           Convert releases since this date (YYYY-MM-DD, excludes -n)
//	-e patterns       File patterns to exclude from every snapshot
//	-l name           Base name used in labels if it differs from the project name
//	-L, --list        List the recognized releases and exit
//	-u user           SourceSafe login user name
//	-p password       SourceSafe login password
//	-B branch         Head branch of the initial push (default master)
//	-s                Step through each release conversion
//	-R url            Git repository URL to set as remote
//	-P                Push the repository and its tags when done
//	--attr-file file  Copy this file into the repository as .gitattributes
//	--ss-exe path     SourceSafe command-line executable
//	--git-exe path    Git executable (default git)
//	--project-base p  Project base folder within SourceSafe (default $)
//	--date-format f   Go time layout of history dates
//	--issue-pattern p Pattern extracting tracker references from label comments
//	--resume          Keep the work repository and skip already-tagged releases
//	--debug           Enable debug logging
//	--log-file path   Path to the debug log file
//	-q, --quiet       Hide informational messages
//
// # Exit Codes
//
//	0  conversion completed (or nothing to do)
//	1  configuration or usage error
//	2  SourceSafe operation failed
//	3  git operation failed
package main
