package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/apollo/core"
)

// Key prefixes for different data types
const (
	utteranceRecordPrefix  = "uttrec"
	utteranceSecondsPrefix = "uttsec"
	tocRecordPrefix        = "tocrec"
	tocSecondsPrefix       = "tocsec"
	summaryRecordPrefix    = "sumrec"
	questionRecordPrefix   = "qstrec"
	photographRecordPrefix = "phorec"
	cacheQuestionPrefix    = "cacrecq"
	cacheSummaryPrefix     = "cacrecs"
	noiseCountPrefix       = "noicnt"
)

// secondsBias shifts mission-elapsed seconds into unsigned range so that
// pre-launch (negative) timecodes sort before launch in BigEndian keys.
const secondsBias = int64(1) << 31

// makeUtteranceKey generates a key for an utterance by timecode.
func makeUtteranceKey(timestamp string) []byte {
	return []byte(utteranceRecordPrefix + ":" + timestamp)
}

// makeUtteranceSecondsKey generates a composite key for the seconds index.
// Format: prefix:seconds:timestamp
func makeUtteranceSecondsKey(seconds int, timestamp string) []byte {
	prefix := utteranceSecondsPrefix + ":"
	buf := make([]byte, len(prefix)+8+len(timestamp))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(int64(seconds)+secondsBias))
	offset += 8
	copy(buf[offset:], timestamp)
	return buf
}

// makePartialUtteranceSecondsKey generates a partial key for range queries.
// Format: prefix:seconds
func makePartialUtteranceSecondsKey(seconds int) []byte {
	prefix := utteranceSecondsPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(int64(seconds)+secondsBias))
	return buf
}

// makeTOCKey generates a key for a TOC entry by normalized start timecode.
func makeTOCKey(startDate string) []byte {
	return []byte(tocRecordPrefix + ":" + startDate)
}

// makeTOCSecondsKey generates a composite key for the TOC seconds index.
// Format: prefix:seconds:startDate
func makeTOCSecondsKey(seconds int, startDate string) []byte {
	prefix := tocSecondsPrefix + ":"
	buf := make([]byte, len(prefix)+8+len(startDate))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(int64(seconds)+secondsBias))
	offset += 8
	copy(buf[offset:], startDate)
	return buf
}

// makeSummaryKey generates a key for a summary by timecode.
func makeSummaryKey(timestamp string) []byte {
	return []byte(summaryRecordPrefix + ":" + timestamp)
}

// makeQuestionKey generates a key for a question by record key.
func makeQuestionKey(timestamp string) []byte {
	return []byte(questionRecordPrefix + ":" + timestamp)
}

// makePhotographKey generates a key for a photograph by timecode.
func makePhotographKey(timestamp string) []byte {
	return []byte(photographRecordPrefix + ":" + timestamp)
}

// cachePartitionPrefix returns the key prefix of the question or summary
// cache partition.
func cachePartitionPrefix(question bool) string {
	if question {
		return cacheQuestionPrefix
	}
	return cacheSummaryPrefix
}

// makeCacheKey generates a key for a cache entry in the given partition.
func makeCacheKey(id core.ID, question bool) []byte {
	return []byte(fmt.Sprintf("%s:%d", cachePartitionPrefix(question), id))
}

// makeNoiseKey generates a key for an utterance text occurrence counter.
func makeNoiseKey(text string) []byte {
	return []byte(noiseCountPrefix + ":" + text)
}
