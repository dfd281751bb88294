package cipher

import (
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// NewVernamKey returns n bytes of key material read from rand.
func NewVernamKey(rand io.Reader, n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(rand, key); err != nil {
		return nil, fmt.Errorf("cipher: vernam key: %w", err)
	}
	return key, nil
}

// Vernam writes src XOR key to dst. The same call decrypts.
//
// The key must be at least as long as the message.
func Vernam(key []byte, src io.Reader, dst io.Writer) error {
	msg, err := io.ReadAll(src)
	if err != nil {
		return protocol.Resource("read", err)
	}
	if len(key) < len(msg) {
		return protocol.Violation("vernam", "", "key of %d bytes is shorter than the %d byte message", len(key), len(msg))
	}
	out := make([]byte, len(msg))
	for i := range msg {
		out[i] = msg[i] ^ key[i]
	}
	if _, err = dst.Write(out); err != nil {
		return protocol.Resource("write", err)
	}
	return nil
}
