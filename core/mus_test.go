package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtteranceMUS_Roundtrip(t *testing.T) {
	u := Utterance{
		Timestamp:        "071:07:00",
		TimestampSeconds: 71*3600 + 7*60,
		Speaker:          "Buzz Aldrin",
		SpeakerID:        "LMP",
		Text:             "Contact light.",
		Vector:           []float32{0.1, -0.5, 0.25},
	}

	bs := make([]byte, UtteranceMUS.Size(u))
	n := UtteranceMUS.Marshal(u, bs)
	require.Equal(t, len(bs), n)

	got, n, err := UtteranceMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, u, got)

	n, err = UtteranceMUS.Skip(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
}

func TestTOCEntryMUS_Roundtrip(t *testing.T) {
	e := TOCEntry{
		StartDate:    "102;45;00",
		StartSeconds: 102*3600 + 45*60,
		Title:        "The Eagle Has Landed",
		Description:  "Final descent and touchdown",
		Summary:      "The crew lands on the lunar surface.",
		Questions:    []string{"Who reported contact light?", "What was the fuel margin?"},
		GroupedText:  "LMP: Contact light.\nCDR: Shutdown.",
		Utterances: []Utterance{
			{Timestamp: "102:45:17", TimestampSeconds: 102*3600 + 45*60 + 17, Speaker: "Buzz Aldrin", SpeakerID: "LMP", Text: "Contact light."},
		},
	}

	bs := make([]byte, TOCEntryMUS.Size(e))
	n := TOCEntryMUS.Marshal(e, bs)
	require.Equal(t, len(bs), n)

	got, n, err := TOCEntryMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, e, got)
}

func TestTOCEntryMUS_ZeroValue(t *testing.T) {
	e := TOCEntry{StartDate: "000;00;00"}

	bs := make([]byte, TOCEntryMUS.Size(e))
	TOCEntryMUS.Marshal(e, bs)

	got, _, err := TOCEntryMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, e.StartDate, got.StartDate)
	assert.False(t, got.Grouped())
	assert.Empty(t, got.Questions)
}

func TestCacheEntryMUS_Roundtrip(t *testing.T) {
	c := CacheEntry{
		Id:       IDFromContent("what was the landing site"),
		Query:    "what was the landing site",
		Answer:   "The Sea of Tranquility.",
		Question: true,
		Vector:   []float32{0.7, 0.1},
	}

	bs := make([]byte, CacheEntryMUS.Size(c))
	n := CacheEntryMUS.Marshal(c, bs)
	require.Equal(t, len(bs), n)

	got, n, err := CacheEntryMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, c, got)
}

func TestPhotographMUS_Roundtrip(t *testing.T) {
	p := Photograph{
		Timestamp:         "109;24;15",
		Name:              "AS11-40-5903",
		ExternalURL:       "https://images.nasa.gov/AS11-40-5903",
		Description:       "Aldrin on the lunar surface",
		ImagePath:         "photos/AS11-40-5903.jpg",
		DescriptionVector: []float32{0.3},
		ImageVector:       []float32{0.9, -0.2},
	}

	bs := make([]byte, PhotographMUS.Size(p))
	n := PhotographMUS.Marshal(p, bs)
	require.Equal(t, len(bs), n)

	got, n, err := PhotographMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, p, got)
}

func TestUtteranceMUS_UnmarshalTruncated(t *testing.T) {
	u := Utterance{Timestamp: "071:07:00", Speaker: "CC", SpeakerID: "CC", Text: "Roger."}

	bs := make([]byte, UtteranceMUS.Size(u))
	UtteranceMUS.Marshal(u, bs)

	_, _, err := UtteranceMUS.Unmarshal(bs[:len(bs)/2])
	require.Error(t, err)
}
