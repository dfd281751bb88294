package sample

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// NewSeededReader returns an endless deterministic stream of bytes derived from seed.
//
// A key is extracted from seed and info with HKDF-SHA256, and then expanded with
// the BLAKE3 extendable output. The same seed and info always give the same stream.
func NewSeededReader(seed []byte, info string) (io.Reader, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("sample: derive seed key: %w", err)
	}
	h, err := blake3.NewKeyed(key)
	if err != nil {
		return nil, fmt.Errorf("sample: seed stream: %w", err)
	}
	return h.Digest(), nil
}
