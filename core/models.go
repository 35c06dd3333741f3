package core

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed records such as
// semantic-cache entries. Transcript records use their mission timecode
// strings as keys instead.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Utterance is a single spoken line of the mission transcript.
// The Timestamp string ("071:07:00", hours:minutes:seconds of mission
// elapsed time) is the primary key. Utterances are immutable once loaded
// except for embedding recomputation.
type Utterance struct {
	Timestamp        string
	TimestampSeconds int // Seconds since mission start, may be negative
	Speaker          string
	SpeakerID        string
	Text             string
	Vector           []float32 // Embedding of Text (populated by the store's embed hook)
}

// TOCEntry is a table-of-contents chapter marker. StartDate (the start
// timecode with ":" normalized to ";") is the primary key. GroupedText,
// Summary and Questions are filled in by the grouping and enrichment
// workflows; their zero values mean "not derived yet".
type TOCEntry struct {
	StartDate    string
	StartSeconds int
	Title        string
	Description  string
	Summary      string
	Questions    []string
	GroupedText  string
	Utterances   []Utterance
}

// Grouped reports whether the entry already has grouped utterance text.
func (e *TOCEntry) Grouped() bool {
	return e.GroupedText != ""
}

// Summary is the embedded, denormalized projection of a summarized TOC
// entry. Timestamp equals the owning entry's StartDate. Summaries are
// append-only outputs of the embedding stage.
type Summary struct {
	Timestamp   string
	GroupedText string
	Utterances  []Utterance
	Summary     string
	Vector      []float32
}

// Question is one generated question for a TOC entry. Timestamp is
// "{entry StartDate}-{question index}", so partial question lists can be
// embedded incrementally across runs.
type Question struct {
	Timestamp   string
	GroupedText string
	Utterances  []Utterance
	Question    string
	Vector      []float32
}

// QuestionID derives the record key for the question at position idx of
// the given TOC entry.
func QuestionID(entryID string, idx int) string {
	return entryID + "-" + strconv.Itoa(idx)
}

// Photograph is a mission photograph with both a description embedding and
// an image embedding, searchable by either.
type Photograph struct {
	Timestamp         string
	Name              string
	ExternalURL       string
	Description       string
	ImagePath         string
	DescriptionVector []float32
	ImageVector       []float32
}

// CacheEntry is a semantic-cache record: a previously answered query with
// the embedding of the query text. Entries for question search and summary
// search live in separate partitions selected by Question.
type CacheEntry struct {
	Id       ID
	Query    string
	Answer   string
	Question bool
	Vector   []float32
}
