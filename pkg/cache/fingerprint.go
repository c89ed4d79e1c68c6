package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/gowebpki/jcs"
	"golang.org/x/text/unicode/norm"
)

// Fingerprint derives the cache key for a prompt and its call options.
//
// The prompt is NFC-normalized, lowercased, and trimmed so trivially
// different spellings of the same request share an entry. Options are
// canonicalized with JCS so field order in the serialized form cannot
// split the key space. The two parts are joined with a NUL separator and
// hashed with SHA-256.
func Fingerprint(prompt string, options any) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(norm.NFC.String(prompt)))

	encoded, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(encoded)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
