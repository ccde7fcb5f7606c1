// Package id mints identifiers for extraction runs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewRunID returns an identifier for one extraction run. The timestamp prefix
// keeps exported artifacts sortable; the random suffix keeps concurrent runs
// distinct.
func NewRunID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
