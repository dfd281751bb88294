// Package signature signs byte streams in place.
//
// Signing hashes the whole stream with SHA-256, and appends a signature of every
// character of the hex digest as int64 records. Verifying splits the trailer off,
// hashes the rest, and checks every record.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// DigestLength is the number of signed characters.
const DigestLength = 2 * sha256.Size

// TrailerSize returns the size in bytes of a signature made of n records per character.
func TrailerSize(n int) int64 {
	return int64(DigestLength * n * 8)
}

func hexDigest(r io.Reader) ([]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return nil, protocol.Resource("hash", err)
	}
	out := make([]byte, DigestLength)
	hex.Encode(out, h.Sum(nil))
	return out, nil
}

// sign hashes ch from its start and appends the records returned by f for every digest character.
func sign(ch io.ReadWriteSeeker, f func(h int64) ([]int64, error)) error {
	if err := channel.Rewind(ch); err != nil {
		return protocol.Resource("sign", err)
	}
	digest, err := hexDigest(ch)
	if err != nil {
		return err
	}
	if _, err = ch.Seek(0, io.SeekEnd); err != nil {
		return protocol.Resource("sign", err)
	}
	for _, h := range digest {
		rs, err := f(int64(h))
		if err != nil {
			return err
		}
		for _, r := range rs {
			if err = channel.WriteInt64(ch, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// verify splits the trailer of n records per character off ch, and calls f on
// every digest character with its records.
func verify(ch io.ReadSeeker, n int, f func(h int64, rs []int64) bool) (bool, error) {
	const phase = "verify"
	size, err := channel.Size(ch)
	if err != nil {
		return false, protocol.Resource(phase, err)
	}
	body := size - TrailerSize(n)
	if body < 0 {
		return false, protocol.Violation(phase, "", "stream of %d bytes is shorter than a signature", size)
	}
	if err = channel.Rewind(ch); err != nil {
		return false, protocol.Resource(phase, err)
	}
	digest, err := hexDigest(io.LimitReader(ch, body))
	if err != nil {
		return false, err
	}
	if _, err = ch.Seek(body, io.SeekStart); err != nil {
		return false, protocol.Resource(phase, err)
	}

	rs := make([]int64, n)
	ok := true
	for _, h := range digest {
		for i := range rs {
			if rs[i], err = channel.ReadInt64(ch); err != nil {
				return false, err
			}
		}
		if !f(int64(h), rs) {
			ok = false
		}
	}
	return ok, nil
}
