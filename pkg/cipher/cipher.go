// Package cipher encrypts byte streams one byte at a time with the classical
// number-theoretic ciphers. Every byte becomes one or two int64 records.
package cipher

import (
	"bufio"
	"errors"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// eachByte calls f for every byte of src.
func eachByte(src io.Reader, f func(b byte) error) error {
	r := bufio.NewReader(src)
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return protocol.Resource("read", err)
		}
		if err = f(b); err != nil {
			return err
		}
	}
}

// eachRecord reads groups of n int64 records from src until a clean end of stream.
func eachRecord(src io.Reader, n int, f func(rs []int64) error) error {
	r := bufio.NewReader(src)
	rs := make([]int64, n)
	for {
		for i := range rs {
			v, err := channel.ReadInt64(r)
			if errors.Is(err, io.EOF) {
				if i == 0 {
					return nil
				}
				return protocol.Violation("decrypt", "", "ciphertext ends inside a group of %d records", n)
			}
			if err != nil {
				return err
			}
			rs[i] = v
		}
		if err := f(rs); err != nil {
			return err
		}
	}
}

// writeByte writes v, which must be the value of a byte.
func writeByte(w *bufio.Writer, v int64) error {
	if v < 0 || v > 0xff {
		return protocol.Violation("decrypt", "", "record decrypts to %d, not a byte", v)
	}
	if err := w.WriteByte(byte(v)); err != nil {
		return protocol.Resource("write", err)
	}
	return nil
}

func flush(w *bufio.Writer) error {
	if err := w.Flush(); err != nil {
		return protocol.Resource("write", err)
	}
	return nil
}
