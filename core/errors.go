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

import "errors"

// Domain validation errors
var (
	// ErrInvalidUtterance indicates an Utterance failed validation.
	ErrInvalidUtterance = errors.New("invalid utterance")

	// ErrInvalidTimecode indicates a mission timecode could not be parsed.
	ErrInvalidTimecode = errors.New("invalid timecode")

	// ErrEmptySpeaker indicates the Speaker field is empty.
	ErrEmptySpeaker = errors.New("speaker cannot be empty")

	// ErrEmptySpeakerID indicates the SpeakerID field is empty.
	ErrEmptySpeakerID = errors.New("speaker id cannot be empty")

	// ErrEmptyText indicates the Text field is empty or a placeholder.
	ErrEmptyText = errors.New("text cannot be empty or a placeholder")
)
