package id

import (
	"crypto/rand"
	"fmt"
	"io"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
const Len = 8

// Bytes at or above limit are discarded so every charset index is equally likely.
const limit = 256 - 256%len(charset)

var random io.Reader = rand.Reader

// New returns a fresh random smoothie id.
func New() (string, error) {
	out := make([]byte, 0, Len)
	buf := make([]byte, Len*2)
	for len(out) < Len {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", fmt.Errorf("generating id: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
			if len(out) == Len {
				break
			}
		}
	}
	return string(out), nil
}
