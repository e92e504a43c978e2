// Package git applies the conversion to the target repository.
//
// The write side shells out to the git binary (staging, commits with
// backdated author information, tags, the final push). The read side uses
// go-git to enumerate tags already present in the work repository so a
// resumed run can skip converted releases.
package git
