package history

import (
	"regexp"
	"strings"
	"time"

	"github.com/luc-dc/vss2git/internal/errors"
)

// LabelRecord is one labeled event recovered from the history log.
// Records are immutable once parsed.
type LabelRecord struct {
	// Name is the raw label text, quotes stripped
	Name string

	// Author is the user that applied the label
	Author string

	// Timestamp is the label date parsed with the configured layout
	Timestamp time.Time

	// Comment is the free-text label comment, possibly multi-line
	Comment string
}

// Grammar holds the compiled patterns that recognize the blocks of a
// "ss history" dump. The SourceSafe client emits human-oriented text, so
// the grammar is configurable rather than hard-coded: block entries start
// with a separator line, contain a Label line and a User/Date/Time line,
// and may carry a label comment that runs until the next separator.
type Grammar struct {
	// BlockPrefix starts a new history entry ("*****...")
	BlockPrefix string

	// Label matches the label line and captures the label name
	Label *regexp.Regexp

	// UserDate matches the attribution line and captures user, date, time
	UserDate *regexp.Regexp

	// Comment matches the first label-comment line and captures its text
	Comment *regexp.Regexp

	// DateLayout is the time.Parse layout for the captured date and time.
	// SourceSafe emits locale-dependent dates, so this is a hint, not a fact.
	DateLayout string
}

// DefaultDateLayout matches the dd/mm/yy output of the legacy installations
// this tool was written against.
const DefaultDateLayout = "02/01/06 15:04"

// DefaultGrammar returns the grammar for the stock "ss history" output format.
func DefaultGrammar() Grammar {
	return Grammar{
		BlockPrefix: "*****",
		Label:       regexp.MustCompile(`^Label:\s+"?(.+?)"?\s*$`),
		UserDate:    regexp.MustCompile(`^User:\s+(.+?)\s+Date:\s+(\S+)\s+Time:\s+([0-9:]+)`),
		Comment:     regexp.MustCompile(`^Label comment:\s*(.*)$`),
		DateLayout:  DefaultDateLayout,
	}
}

// Validate checks that the grammar is usable. A nil pattern or empty date
// layout is a configuration error, the only hard failure of the parser.
func (g Grammar) Validate() error {
	if g.BlockPrefix == "" || g.Label == nil || g.UserDate == nil || g.Comment == nil {
		return errors.Wrap(errors.ErrParse, "history grammar is incomplete")
	}
	if g.DateLayout == "" {
		return errors.Wrap(errors.ErrParse, "history grammar has no date layout")
	}
	return nil
}

// Parser turns raw history text into LabelRecords. It is a pure
// transformation with no side effects.
type Parser struct {
	grammar Grammar
}

// NewParser creates a Parser for the given grammar.
func NewParser(grammar Grammar) (*Parser, error) {
	if err := grammar.Validate(); err != nil {
		return nil, err
	}
	return &Parser{grammar: grammar}, nil
}

// Parse extracts every labeled entry from the history text, in the order
// the legacy tool printed them. Callers must not assume that order is
// chronological. Malformed or truncated blocks are skipped, never fatal:
// completely unrecognized input yields an empty slice, since an empty
// history is a valid state.
func (p *Parser) Parse(text string) []LabelRecord {
	var records []LabelRecord

	var (
		label     string
		lastLabel string
		user      string
		rawDate   string
		rawTime   string
		comment   []string
		inComment bool
	)

	flush := func() {
		defer func() {
			label = ""
			user = ""
			rawDate = ""
			rawTime = ""
			comment = nil
			inComment = false
		}()

		if label == "" || rawDate == "" || rawTime == "" {
			return
		}
		// A label applied to several items shows up as consecutive
		// identical blocks; keep the first.
		if label == lastLabel {
			return
		}

		ts, err := time.Parse(p.grammar.DateLayout, rawDate+" "+rawTime)
		if err != nil {
			return
		}

		records = append(records, LabelRecord{
			Name:      label,
			Author:    user,
			Timestamp: ts,
			Comment:   strings.TrimRight(strings.Join(comment, "\n"), "\n"),
		})
		lastLabel = label
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		if strings.HasPrefix(line, p.grammar.BlockPrefix) {
			flush()
			continue
		}

		if m := p.grammar.Label.FindStringSubmatch(line); m != nil {
			label = m[1]
			inComment = false
			continue
		}
		if label == "" {
			// Non-label blocks (check-ins, adds) are the majority case
			continue
		}

		if m := p.grammar.UserDate.FindStringSubmatch(line); m != nil {
			user = strings.TrimSpace(m[1])
			rawDate = m[2]
			rawTime = m[3]
			continue
		}
		if m := p.grammar.Comment.FindStringSubmatch(line); m != nil {
			comment = append(comment, m[1])
			inComment = true
			continue
		}
		if inComment {
			comment = append(comment, line)
		}
	}
	flush()

	return records
}
