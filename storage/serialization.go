// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/apollo/core"
)

// MarshalUtterance serializes an Utterance to bytes.
func MarshalUtterance(u *core.Utterance) []byte {
	buf := make([]byte, core.UtteranceMUS.Size(*u))
	core.UtteranceMUS.Marshal(*u, buf)
	return buf
}

// UnmarshalUtterance deserializes an Utterance from bytes.
func UnmarshalUtterance(data []byte) (*core.Utterance, error) {
	u, _, err := core.UtteranceMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarshalTOCEntry serializes a TOCEntry to bytes.
func MarshalTOCEntry(e *core.TOCEntry) []byte {
	buf := make([]byte, core.TOCEntryMUS.Size(*e))
	core.TOCEntryMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalTOCEntry deserializes a TOCEntry from bytes.
func UnmarshalTOCEntry(data []byte) (*core.TOCEntry, error) {
	e, _, err := core.TOCEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarshalSummary serializes a Summary to bytes.
func MarshalSummary(s *core.Summary) []byte {
	buf := make([]byte, core.SummaryMUS.Size(*s))
	core.SummaryMUS.Marshal(*s, buf)
	return buf
}

// UnmarshalSummary deserializes a Summary from bytes.
func UnmarshalSummary(data []byte) (*core.Summary, error) {
	s, _, err := core.SummaryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarshalQuestion serializes a Question to bytes.
func MarshalQuestion(q *core.Question) []byte {
	buf := make([]byte, core.QuestionMUS.Size(*q))
	core.QuestionMUS.Marshal(*q, buf)
	return buf
}

// UnmarshalQuestion deserializes a Question from bytes.
func UnmarshalQuestion(data []byte) (*core.Question, error) {
	q, _, err := core.QuestionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// MarshalPhotograph serializes a Photograph to bytes.
func MarshalPhotograph(p *core.Photograph) []byte {
	buf := make([]byte, core.PhotographMUS.Size(*p))
	core.PhotographMUS.Marshal(*p, buf)
	return buf
}

// UnmarshalPhotograph deserializes a Photograph from bytes.
func UnmarshalPhotograph(data []byte) (*core.Photograph, error) {
	p, _, err := core.PhotographMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalCacheEntry serializes a CacheEntry to bytes.
func MarshalCacheEntry(e *core.CacheEntry) []byte {
	buf := make([]byte, core.CacheEntryMUS.Size(*e))
	core.CacheEntryMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalCacheEntry deserializes a CacheEntry from bytes.
func UnmarshalCacheEntry(data []byte) (*core.CacheEntry, error) {
	e, _, err := core.CacheEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
