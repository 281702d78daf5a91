package service

import (
	"crypto/rand"
)

const trackingIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const trackingIDLength = 10

// NewTrackingID returns a short shareable id like TRK-7GK2M9XQ4D. Stateless,
// cheap enough to generate speculatively and discard.
func NewTrackingID() string {
	buf := make([]byte, trackingIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}

	for i, b := range buf {
		buf[i] = trackingIDAlphabet[int(b)%len(trackingIDAlphabet)]
	}

	return "TRK-" + string(buf)
}
