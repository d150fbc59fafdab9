// Package ids derives short deterministic identifiers from composite parts.
package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Composite returns a stable 16-hex-char identifier for the given parts.
// Equal part sequences always produce equal identifiers.
func Composite(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:8])
}
