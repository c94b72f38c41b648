package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Keyer maps graph fingerprints to backend keys.
type Keyer interface {
	LayoutKey(fingerprint uint64) string
}

// keyVersion must change whenever the stored snapshot format does.
const keyVersion = "v1"

// DefaultKeyer produces keys of the form layout:v1:<fingerprint in hex>.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(fingerprint uint64) string {
	return fmt.Sprintf("layout:%s:%016x", keyVersion, fingerprint)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
