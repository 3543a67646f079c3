package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey keys a rendered artifact of a layout.
	RenderKey(l layout.Layout, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the output bytes.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Detail bool   `json:"detail,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without prefix.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey returns "render:<hash>" over the layout fingerprint and opts.
func (DefaultKeyer) RenderKey(l layout.Layout, opts RenderKeyOpts) string {
	return hashKey("render", layout.Fingerprint(l), opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
