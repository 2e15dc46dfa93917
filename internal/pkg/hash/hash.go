// Package hash provides hashing utilities.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// SHA256 computes the SHA256 hash of data and returns it as a hex string.
func SHA256(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SHA256String computes the SHA256 hash of a string.
func SHA256String(s string) string {
	return SHA256([]byte(s))
}

// SHA256Short returns the first n characters of a SHA256 hash.
func SHA256Short(data []byte, n int) string {
	h := SHA256(data)
	if n > len(h) {
		return h
	}
	return h[:n]
}

// EmbeddingKey derives a cache key for the embedding of text under model.
// Keys are content-addressed so a changed document can never read a stale
// vector from the cache.
func EmbeddingKey(model, text string) string {
	return SHA256String(model + ":" + text)
}

// Fingerprint computes a deterministic digest over a sequence of identifiers
// and their associated content lengths. Collections with the same IDs but
// different text produce different fingerprints.
func Fingerprint(ids []string, lengths []int) string {
	h := sha256.New()
	for i, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
		if i < len(lengths) {
			h.Write([]byte(strconv.Itoa(lengths[i])))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
