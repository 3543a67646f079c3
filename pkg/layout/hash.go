package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns the SHA-256 of the canonical JSON encoding of l.
// Two layouts with equal content have equal fingerprints. A layout that
// cannot be encoded (a NaN field, say) fingerprints to "".
func Fingerprint(l Layout) string {
	data, err := json.Marshal(l)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
