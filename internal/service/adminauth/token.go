package adminauth

import (
	"crypto/rand"
	"encoding/hex"
)

// newSessionToken mints an opaque 128-bit session token.
func newSessionToken() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
