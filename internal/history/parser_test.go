package history

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luc-dc/vss2git/internal/errors"
)

const sampleHistory = `History of $/MyProj ...

*****************  Version 14  *****************
Label: "MyProj_1.1.0.0"
User: Jdoe         Date: 12/03/21   Time: 14:05
Labeled
Label comment: JIRA-123 fix the frobnicator
rest of the comment

*****  main.c  *****
Version 13
User: Asmith       Date: 10/03/21   Time: 09:30
Checked in $/MyProj

*****************  Version 12  *****************
Label: "WIP-fix"
User: Asmith       Date: 02/03/21   Time: 16:45
Labeled

*****************  Version 10  *****************
Label: "MyProj_1.0.0.0"
User: Jdoe         Date: 01/02/21   Time: 08:15
Labeled
Label comment: initial release
`

func TestParser_ParsesLabelBlocks(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	records := parser.Parse(sampleHistory)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "MyProj_1.1.0.0", first.Name)
	assert.Equal(t, "Jdoe", first.Author)
	assert.Equal(t, time.Date(2021, time.March, 12, 14, 5, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "JIRA-123 fix the frobnicator\nrest of the comment", first.Comment)

	assert.Equal(t, "WIP-fix", records[1].Name)
	assert.Empty(t, records[1].Comment)

	assert.Equal(t, "MyProj_1.0.0.0", records[2].Name)
	assert.Equal(t, "initial release", records[2].Comment)
}

func TestParser_EmptyAndUnrecognizedInput(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	assert.Empty(t, parser.Parse(""))
	assert.Empty(t, parser.Parse("no label blocks in here\njust noise\n"))
}

func TestParser_SkipsMalformedTrailingBlock(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	// The final block is truncated before the attribution line
	text := sampleHistory + "*****************  Version 9  *****************\nLabel: \"MyProj_0.9.0.0\"\n"
	records := parser.Parse(text)
	require.Len(t, records, 3)
	assert.Equal(t, "MyProj_1.0.0.0", records[2].Name)
}

func TestParser_SkipsUnparsableDates(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	text := "*****\nLabel: \"MyProj_1.0\"\nUser: Jdoe  Date: 2021-99-99   Time: 14:05\n*****\n"
	assert.Empty(t, parser.Parse(text))
}

func TestParser_SuppressesConsecutiveDuplicateLabels(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	text := "*****\nLabel: \"MyProj_1.0\"\nUser: Jdoe  Date: 01/02/21   Time: 08:15\n" +
		"*****\nLabel: \"MyProj_1.0\"\nUser: Jdoe  Date: 01/02/21   Time: 08:15\n*****\n"
	records := parser.Parse(text)
	require.Len(t, records, 1)
}

func TestParser_CustomDateLayout(t *testing.T) {
	grammar := DefaultGrammar()
	grammar.DateLayout = "01/02/06 15:04" // US-style month first

	parser, err := NewParser(grammar)
	require.NoError(t, err)

	text := "*****\nLabel: \"MyProj_1.0\"\nUser: Jdoe  Date: 12/03/21   Time: 14:05\n*****\n"
	records := parser.Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, time.December, records[0].Timestamp.Month())
}

func TestNewParser_InvalidGrammar(t *testing.T) {
	grammar := DefaultGrammar()
	grammar.Label = nil
	_, err := NewParser(grammar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))

	grammar = DefaultGrammar()
	grammar.DateLayout = ""
	_, err = NewParser(grammar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestParser_Deterministic(t *testing.T) {
	parser, err := NewParser(DefaultGrammar())
	require.NoError(t, err)

	first := parser.Parse(sampleHistory)
	second := parser.Parse(sampleHistory)
	assert.Equal(t, first, second)
}

func TestGrammar_Validate(t *testing.T) {
	g := Grammar{
		BlockPrefix: "*****",
		Label:       regexp.MustCompile(`^Label:\s+(.+)$`),
		UserDate:    regexp.MustCompile(`^User:\s+(\S+)\s+Date:\s+(\S+)\s+Time:\s+(\S+)$`),
		Comment:     regexp.MustCompile(`^Comment:\s*(.*)$`),
		DateLayout:  "02/01/06 15:04",
	}
	assert.NoError(t, g.Validate())
}
