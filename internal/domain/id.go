package domain

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID generates a 24-character hexadecimal record identifier.
func NewID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsValidID reports whether s has the 24-character hexadecimal id shape.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
