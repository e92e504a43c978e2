// Package vss wraps the Visual SourceSafe command-line client. It reads
// project history and checks out labeled trees; everything it knows comes
// from the client's text output, never from the repository's storage
// format.
package vss
