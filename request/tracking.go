package request

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// TrackingPrefix is prepended to every generated tracking code.
var TrackingPrefix = "REQ-"

// TrackingAlphabet is the character set used for the random part of a code.
// Ambiguous glyphs (0/O, 1/I/l) are excluded.
var TrackingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TrackingLength is the number of random characters (excluding the prefix).
var TrackingLength = 10

// NewTrackingCode returns a new opaque tracking code.
func NewTrackingCode() (string, error) {
	id, err := nanoid.Generate(TrackingAlphabet, TrackingLength)
	if err != nil {
		return "", fmt.Errorf("request: tracking code: %w", err)
	}
	return TrackingPrefix + id, nil
}
