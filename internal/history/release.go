package history

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/luc-dc/vss2git/internal/errors"
)

// VersionKey is the ordered tuple of integers extracted from a release
// label. Keys are compared element-wise with implicit zero padding, so
// 1.2 sorts before 1.2.1 and equals 1.2.0.0.
type VersionKey []int

// Compare returns -1, 0 or 1 ordering k against other.
func (k VersionKey) Compare(other VersionKey) int {
	n := len(k)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(k) {
			a = k[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// String renders the key in dotted form ("1.2.3.4").
func (k VersionKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// Release is a LabelRecord recognized as a release point.
type Release struct {
	LabelRecord

	// Version is the ordered tuple extracted from the label name
	Version VersionKey

	// TagName is the git-safe form of the label name
	TagName string

	// IssueRef is the external tracker reference found in the comment,
	// normalized to KEY-123 form, or empty
	IssueRef string
}

// DefaultIssuePattern recognizes tracker references of the KEY-123 shape,
// tolerating the space/underscore variants seen in legacy comments.
const DefaultIssuePattern = `([A-Z][A-Z0-9]+)[\s_-]*([0-9]+)`

// Classifier decides which label records represent a release: the
// configured base name followed by underscore- or dot-separated numeric
// version components (Name_1_2_3_4 or Name.1.2.3.4).
type Classifier struct {
	versionRE *regexp.Regexp
	issueRE   *regexp.Regexp
}

// NewClassifier builds a Classifier for the given release base name and
// issue-reference pattern. The base name is matched case-sensitively; an
// empty issuePattern falls back to DefaultIssuePattern. Pattern errors
// are configuration errors and abort before any release is processed.
func NewClassifier(baseName, issuePattern string) (*Classifier, error) {
	if baseName == "" {
		return nil, errors.Wrap(errors.ErrParse, "release base name is empty")
	}

	versionRE, err := regexp.Compile(`^` + regexp.QuoteMeta(baseName) + `[._](\d+(?:[._]\d+)*)$`)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "bad release name pattern %q: %v", baseName, err)
	}

	if issuePattern == "" {
		issuePattern = DefaultIssuePattern
	}
	issueRE, err := regexp.Compile(issuePattern)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrParse, "bad issue reference pattern %q: %v", issuePattern, err)
	}
	if issueRE.NumSubexp() < 2 {
		return nil, errors.Wrapf(errors.ErrParse, "issue reference pattern %q must capture key and number", issuePattern)
	}

	return &Classifier{versionRE: versionRE, issueRE: issueRE}, nil
}

// Classify returns the Release for a label record, or nil when the record
// does not represent a release. Intermediate and working labels are the
// normal, majority case, so a non-match is not an error. Labels whose
// version text cannot be parsed are excluded, not defaulted.
func (c *Classifier) Classify(rec LabelRecord) *Release {
	m := c.versionRE.FindStringSubmatch(rec.Name)
	if m == nil {
		return nil
	}

	version, ok := parseVersion(m[1])
	if !ok {
		return nil
	}

	return &Release{
		LabelRecord: rec,
		Version:     version,
		TagName:     SanitizeTag(rec.Name),
		IssueRef:    c.issueRef(rec.Comment),
	}
}

// issueRef extracts a normalized tracker reference from a comment.
func (c *Classifier) issueRef(comment string) string {
	m := c.issueRE.FindStringSubmatch(comment)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s", m[1], m[2])
}

// parseVersion splits the captured numeric tail on dots and underscores.
func parseVersion(tail string) (VersionKey, bool) {
	parts := strings.FieldsFunc(tail, func(r rune) bool {
		return r == '.' || r == '_'
	})
	if len(parts) == 0 {
		return nil, false
	}

	key := make(VersionKey, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		key = append(key, v)
	}
	return key, true
}

// tagUnsafeRE matches every character git refuses in a ref name:
// spaces, ~ ^ : ? * [ \ and control characters.
var tagUnsafeRE = regexp.MustCompile(`[ ~^:?*\[\\[:cntrl:]]`)

// SanitizeTag rewrites a label name into a git-safe tag name. Disallowed
// characters become '-', leading and trailing dots and slashes become '-',
// and a trailing ".lock" becomes "-lock". Sanitization is total and
// stable: applying it twice yields the same result as applying it once.
func SanitizeTag(name string) string {
	tag := tagUnsafeRE.ReplaceAllString(name, "-")

	for len(tag) > 0 && (tag[0] == '.' || tag[0] == '/') {
		tag = "-" + tag[1:]
	}
	for len(tag) > 0 && (tag[len(tag)-1] == '.' || tag[len(tag)-1] == '/') {
		tag = tag[:len(tag)-1] + "-"
	}
	if strings.HasSuffix(tag, ".lock") {
		tag = tag[:len(tag)-len(".lock")] + "-lock"
	}
	return tag
}
