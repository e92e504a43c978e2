// Package execx provides the command execution layer shared by the
// SourceSafe and git runners. The CommandExecutor interface isolates
// external process invocation so tests can record and fake command runs.
package execx
