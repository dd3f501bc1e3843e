// Package ids generates identifiers for elements, sessions and side-channel URLs.
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync/atomic"
)

// elemCounter is the source of process-unique element ids.
var elemCounter uint64

// Next returns a process-unique element id. Ids are never reused.
// The leading underscore keeps them valid as DOM ids and distinct from
// the reserved parents "body" and "head".
func Next() string {
	return "_" + strconv.FormatUint(atomic.AddUint64(&elemCounter, 1), 36)
}

// Random returns n random bytes hex-encoded.
func Random(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// SECURITY: weak ids would make shared URLs guessable
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// Session returns a new session id.
func Session() string {
	return Random(16)
}

// ValidSession reports whether id has the shape produced by Session.
func ValidSession(id string) bool {
	if len(id) != 32 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
