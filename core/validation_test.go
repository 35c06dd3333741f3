package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUtterance() *Utterance {
	return &Utterance{
		Timestamp:        "071:07:00",
		TimestampSeconds: 71*3600 + 7*60,
		Speaker:          "Neil Armstrong",
		SpeakerID:        "CDR",
		Text:             "Houston, Tranquility Base here.",
	}
}

func TestValidateUtterance(t *testing.T) {
	require.NoError(t, ValidateUtterance(validUtterance()))
}

func TestValidateUtterance_Nil(t *testing.T) {
	err := ValidateUtterance(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUtterance)
}

func TestValidateUtterance_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Utterance)
		wantErr error
	}{
		{"empty speaker", func(u *Utterance) { u.Speaker = "" }, ErrEmptySpeaker},
		{"whitespace speaker", func(u *Utterance) { u.Speaker = "   " }, ErrEmptySpeaker},
		{"empty speaker id", func(u *Utterance) { u.SpeakerID = "" }, ErrEmptySpeakerID},
		{"empty text", func(u *Utterance) { u.Text = "" }, ErrEmptyText},
		{"placeholder text", func(u *Utterance) { u.Text = "..." }, ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUtterance()
			tt.mutate(u)
			err := ValidateUtterance(u)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidUtterance)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("what happened during the landing")
	b := IDFromContent("what happened during the landing")
	c := IDFromContent("what happened during launch")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
