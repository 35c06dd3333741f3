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


package core

import (
	"fmt"
	"strings"
)

// placeholderText is the transcript marker for an inaudible line.
const placeholderText = "..."

// ValidateUtterance validates an Utterance according to domain rules.
//
// Validation rules:
//   - Speaker and SpeakerID must not be blank
//   - Text must not be blank and must not be the "..." placeholder
//
// NOT validated (populated later):
//   - Vector (empty until the store's embed hook runs)
//   - TimestampSeconds (derived from Timestamp by the loader)
func ValidateUtterance(u *Utterance) error {
	if u == nil {
		return fmt.Errorf("%w: utterance is nil", ErrInvalidUtterance)
	}

	if strings.TrimSpace(u.Speaker) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUtterance, ErrEmptySpeaker)
	}

	if strings.TrimSpace(u.SpeakerID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUtterance, ErrEmptySpeakerID)
	}

	if strings.TrimSpace(u.Text) == "" || u.Text == placeholderText {
		return fmt.Errorf("%w: %w", ErrInvalidUtterance, ErrEmptyText)
	}

	return nil
}
