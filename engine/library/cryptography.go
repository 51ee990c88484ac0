package library

import (
	"crypto/sha256"
	"fmt"
)

// Sha256Sum hashes strings and byte slices directly; anything else is hashed by its fmt representation.
func Sha256Sum(data interface{}) Sha256 {
	var b []byte
	switch d := data.(type) {
	case string:
		b = []byte(d)
	case []byte:
		b = d
	default:
		LogCLI("hashing non-string or non-[]byte by its printed form", 3)
		b = []byte(fmt.Sprint(d))
	}
	h := sha256.New()
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum(nil))
}
