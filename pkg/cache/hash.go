package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
)

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

// Keyer builds cache keys.
type Keyer interface {
	// DistortionKey identifies a distortion service response.
	DistortionKey(endpoint string, form url.Values) string

	// LayoutKey identifies a settled pair of layouts.
	LayoutKey(opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists everything a settled layout depends on.
type LayoutKeyOpts struct {
	PrimaryHash   string `json:"p"`
	SecondaryHash string `json:"s"`
	Config        any    `json:"c"`
}

// DefaultKeyer hashes request contents.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DistortionKey hashes the endpoint and the encoded form. url.Values
// encodes with sorted keys, so equal forms give equal keys.
func (DefaultKeyer) DistortionKey(endpoint string, form url.Values) string {
	return hashKey("distortion", endpoint, form.Encode())
}

// LayoutKey hashes both graph hashes and the layout configuration.
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}
