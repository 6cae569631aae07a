// Package auth provides the password digest function. Only the digest of a
// password is ever persisted or compared.
package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
)

// Digest hashes secret with the named algorithm and returns the hex digest.
// Supported algorithms are sha1, sha224, sha256, sha384 and sha512; any
// other name returns ok=false.
func Digest(algo, secret string) (string, bool) {
	var h hash.Hash
	switch algo {
	case "sha1":
		h = sha1.New()
	case "sha224":
		h = sha256.New224()
	case "sha256":
		h = sha256.New()
	case "sha384":
		h = sha512.New384()
	case "sha512":
		h = sha512.New()
	default:
		return "", false
	}
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil)), true
}
