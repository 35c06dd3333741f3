package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimecode converts a "HHH:MM:SS" mission-elapsed timecode (an
// optional leading "-" marks pre-launch time) to total seconds. The
// separator may be ":" or ";" since TOC keys are stored with ";".
func ParseTimecode(timecode string) (int, error) {
	negative := strings.HasPrefix(timecode, "-")
	s := strings.TrimPrefix(timecode, "-")
	s = strings.ReplaceAll(s, ";", ":")

	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}

	total := hours*3600 + minutes*60 + seconds
	if negative {
		total = -total
	}
	return total, nil
}

// ParseCompactTimecode converts a "HHHMMSS" compact timecode (utterance
// file format, e.g. "0710700") to total seconds. An optional leading "-"
// marks pre-launch time.
func ParseCompactTimecode(timecode string) (int, error) {
	negative := strings.HasPrefix(timecode, "-")
	s := strings.TrimPrefix(timecode, "-")

	if len(s) != 7 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}

	hours, err := strconv.Atoi(s[0:3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}
	minutes, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}
	seconds, err := strconv.Atoi(s[5:7])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, timecode)
	}

	total := hours*3600 + minutes*60 + seconds
	if negative {
		total = -total
	}
	return total, nil
}

// NormalizeKey rewrites a "HHH:MM:SS" timecode into the key form used for
// TOC entries and their derived artifacts ("HHH;MM;SS").
func NormalizeKey(timecode string) string {
	return strings.ReplaceAll(timecode, ":", ";")
}
