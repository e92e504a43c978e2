package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func release(name string, version VersionKey, ts time.Time) *Release {
	return &Release{
		LabelRecord: LabelRecord{Name: name, Author: "Jdoe", Timestamp: ts},
		Version:     version,
		TagName:     SanitizeTag(name),
	}
}

func day(d int) time.Time {
	return time.Date(2021, time.January, d, 12, 0, 0, 0, time.UTC)
}

func sampleReleases() []*Release {
	// Deliberately out of order: the selector must not rely on input order
	return []*Release{
		release("MyProj_2.0.0.0", VersionKey{2, 0, 0, 0}, day(20)),
		release("MyProj_1.0.0.0", VersionKey{1, 0, 0, 0}, day(1)),
		release("MyProj_1.2.0.0", VersionKey{1, 2, 0, 0}, day(10)),
	}
}

func TestSelect_CountMode(t *testing.T) {
	got := Select(sampleReleases(), Mode{Count: 2})

	require.Len(t, got, 2)
	assert.Equal(t, "MyProj_1.2.0.0", got[0].Name)
	assert.Equal(t, "MyProj_2.0.0.0", got[1].Name)
}

func TestSelect_CountLargerThanSet(t *testing.T) {
	got := Select(sampleReleases(), Mode{Count: 10})
	require.Len(t, got, 3)
	assert.Equal(t, "MyProj_1.0.0.0", got[0].Name)
}

func TestSelect_FromDateMode(t *testing.T) {
	got := Select(sampleReleases(), Mode{FromDate: day(10)})

	require.Len(t, got, 2)
	assert.Equal(t, "MyProj_1.2.0.0", got[0].Name)
	assert.Equal(t, "MyProj_2.0.0.0", got[1].Name)
}

func TestSelect_FromDateMatchesNothing(t *testing.T) {
	got := Select(sampleReleases(), Mode{FromDate: day(25)})
	assert.Empty(t, got)
}

func TestSelect_OldestFirstOrdering(t *testing.T) {
	got := Select(sampleReleases(), Mode{Count: 3})
	for i := 1; i < len(got); i++ {
		assert.Equal(t, -1, got[i-1].Version.Compare(got[i].Version),
			"version keys must be strictly increasing")
	}
}

func TestSelect_DedupesReappliedLabels(t *testing.T) {
	releases := []*Release{
		release("MyProj_1.0.0.0", VersionKey{1, 0, 0, 0}, day(5)), // re-applied later
		release("MyProj_1.0.0.0", VersionKey{1, 0, 0, 0}, day(1)), // the real release
		release("MyProj_1.1.0.0", VersionKey{1, 1, 0, 0}, day(8)),
	}

	got := Select(releases, Mode{Count: 10})
	require.Len(t, got, 2)
	assert.Equal(t, day(1), got[0].Timestamp, "earliest application of the label wins")
}

func TestOrder_DisambiguatesTagCollisions(t *testing.T) {
	// Two distinct versions that sanitize to the same tag name
	a := release("MyProj 1.0", VersionKey{1, 0}, day(1))
	b := release("MyProj-1.0", VersionKey{1, 1}, day(2))
	require.Equal(t, a.TagName, b.TagName)

	got := Order([]*Release{a, b})
	require.Len(t, got, 2)
	assert.Equal(t, "MyProj-1.0-1.0", got[0].TagName)
	assert.Equal(t, "MyProj-1.0-1.1", got[1].TagName)
	assert.NotEqual(t, got[0].TagName, got[1].TagName)
}

func TestSelect_Deterministic(t *testing.T) {
	first := Select(sampleReleases(), Mode{Count: 2})
	second := Select(sampleReleases(), Mode{Count: 2})
	assert.Equal(t, first, second)
}

func TestPredecessor(t *testing.T) {
	releases := sampleReleases()
	ordered := Order(releases)

	assert.Nil(t, Predecessor(releases, ordered[0]))

	pred := Predecessor(releases, ordered[2])
	require.NotNil(t, pred)
	assert.Equal(t, "MyProj_1.2.0.0", pred.Name)
}

func TestPredecessor_UnknownRelease(t *testing.T) {
	stranger := release("MyProj_9.9.9.9", VersionKey{9, 9, 9, 9}, day(9))
	assert.Nil(t, Predecessor(nil, stranger))
}
