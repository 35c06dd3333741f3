package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored record types. The record set is small and
// stable, so these are written by hand rather than generated; field order
// is the struct declaration order and must not change without a data
// migration.

var (
	// IDMUS is the serializer for ID values.
	IDMUS = idMUS{}
	// UtteranceMUS is the serializer for Utterance records.
	UtteranceMUS = utteranceMUS{}
	// TOCEntryMUS is the serializer for TOCEntry records.
	TOCEntryMUS = tocEntryMUS{}
	// SummaryMUS is the serializer for Summary records.
	SummaryMUS = summaryMUS{}
	// QuestionMUS is the serializer for Question records.
	QuestionMUS = questionMUS{}
	// PhotographMUS is the serializer for Photograph records.
	PhotographMUS = photographMUS{}
	// CacheEntryMUS is the serializer for CacheEntry records.
	CacheEntryMUS = cacheEntryMUS{}

	vectorMUS     = ord.NewSliceSer[float32](varint.Float32)
	stringsMUS    = ord.NewSliceSer[string](ord.String)
	utterancesMUS = ord.NewSliceSer[Utterance](UtteranceMUS)
)

var (
	_ mus.Serializer[ID]         = IDMUS
	_ mus.Serializer[Utterance]  = UtteranceMUS
	_ mus.Serializer[TOCEntry]   = TOCEntryMUS
	_ mus.Serializer[Summary]    = SummaryMUS
	_ mus.Serializer[Question]   = QuestionMUS
	_ mus.Serializer[Photograph] = PhotographMUS
	_ mus.Serializer[CacheEntry] = CacheEntryMUS
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	raw, n, err := varint.Uint64.Unmarshal(bs)
	return ID(raw), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type utteranceMUS struct{}

func (s utteranceMUS) Marshal(v Utterance, bs []byte) (n int) {
	n = ord.String.Marshal(v.Timestamp, bs)
	n += varint.Int.Marshal(v.TimestampSeconds, bs[n:])
	n += ord.String.Marshal(v.Speaker, bs[n:])
	n += ord.String.Marshal(v.SpeakerID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s utteranceMUS) Unmarshal(bs []byte) (v Utterance, n int, err error) {
	var n1 int
	if v.Timestamp, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.TimestampSeconds, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Speaker, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SpeakerID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s utteranceMUS) Size(v Utterance) (size int) {
	size = ord.String.Size(v.Timestamp)
	size += varint.Int.Size(v.TimestampSeconds)
	size += ord.String.Size(v.Speaker)
	size += ord.String.Size(v.SpeakerID)
	size += ord.String.Size(v.Text)
	size += vectorMUS.Size(v.Vector)
	return size
}

func (s utteranceMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		varint.Int.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip, vectorMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type tocEntryMUS struct{}

func (s tocEntryMUS) Marshal(v TOCEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.StartDate, bs)
	n += varint.Int.Marshal(v.StartSeconds, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += stringsMUS.Marshal(v.Questions, bs[n:])
	n += ord.String.Marshal(v.GroupedText, bs[n:])
	n += utterancesMUS.Marshal(v.Utterances, bs[n:])
	return n
}

func (s tocEntryMUS) Unmarshal(bs []byte) (v TOCEntry, n int, err error) {
	var n1 int
	if v.StartDate, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.StartSeconds, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Questions, n1, err = stringsMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.GroupedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Utterances, n1, err = utterancesMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s tocEntryMUS) Size(v TOCEntry) (size int) {
	size = ord.String.Size(v.StartDate)
	size += varint.Int.Size(v.StartSeconds)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Summary)
	size += stringsMUS.Size(v.Questions)
	size += ord.String.Size(v.GroupedText)
	size += utterancesMUS.Size(v.Utterances)
	return size
}

func (s tocEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		varint.Int.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip,
		stringsMUS.Skip, ord.String.Skip, utterancesMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type summaryMUS struct{}

func (s summaryMUS) Marshal(v Summary, bs []byte) (n int) {
	n = ord.String.Marshal(v.Timestamp, bs)
	n += ord.String.Marshal(v.GroupedText, bs[n:])
	n += utterancesMUS.Marshal(v.Utterances, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s summaryMUS) Unmarshal(bs []byte) (v Summary, n int, err error) {
	var n1 int
	if v.Timestamp, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.GroupedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Utterances, n1, err = utterancesMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s summaryMUS) Size(v Summary) (size int) {
	size = ord.String.Size(v.Timestamp)
	size += ord.String.Size(v.GroupedText)
	size += utterancesMUS.Size(v.Utterances)
	size += ord.String.Size(v.Summary)
	size += vectorMUS.Size(v.Vector)
	return size
}

func (s summaryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip, utterancesMUS.Skip, ord.String.Skip, vectorMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type questionMUS struct{}

func (s questionMUS) Marshal(v Question, bs []byte) (n int) {
	n = ord.String.Marshal(v.Timestamp, bs)
	n += ord.String.Marshal(v.GroupedText, bs[n:])
	n += utterancesMUS.Marshal(v.Utterances, bs[n:])
	n += ord.String.Marshal(v.Question, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s questionMUS) Unmarshal(bs []byte) (v Question, n int, err error) {
	var n1 int
	if v.Timestamp, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.GroupedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Utterances, n1, err = utterancesMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Question, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s questionMUS) Size(v Question) (size int) {
	size = ord.String.Size(v.Timestamp)
	size += ord.String.Size(v.GroupedText)
	size += utterancesMUS.Size(v.Utterances)
	size += ord.String.Size(v.Question)
	size += vectorMUS.Size(v.Vector)
	return size
}

func (s questionMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip, utterancesMUS.Skip, ord.String.Skip, vectorMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type photographMUS struct{}

func (s photographMUS) Marshal(v Photograph, bs []byte) (n int) {
	n = ord.String.Marshal(v.Timestamp, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.ExternalURL, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.ImagePath, bs[n:])
	n += vectorMUS.Marshal(v.DescriptionVector, bs[n:])
	n += vectorMUS.Marshal(v.ImageVector, bs[n:])
	return n
}

func (s photographMUS) Unmarshal(bs []byte) (v Photograph, n int, err error) {
	var n1 int
	if v.Timestamp, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ExternalURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ImagePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DescriptionVector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ImageVector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s photographMUS) Size(v Photograph) (size int) {
	size = ord.String.Size(v.Timestamp)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.ExternalURL)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.ImagePath)
	size += vectorMUS.Size(v.DescriptionVector)
	size += vectorMUS.Size(v.ImageVector)
	return size
}

func (s photographMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip,
		vectorMUS.Skip, vectorMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type cacheEntryMUS struct{}

func (s cacheEntryMUS) Marshal(v CacheEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += ord.Bool.Marshal(v.Question, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s cacheEntryMUS) Unmarshal(bs []byte) (v CacheEntry, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Query, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Answer, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Question, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s cacheEntryMUS) Size(v CacheEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.Answer)
	size += ord.Bool.Size(v.Question)
	size += vectorMUS.Size(v.Vector)
	return size
}

func (s cacheEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip, ord.String.Skip, ord.Bool.Skip, vectorMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}
