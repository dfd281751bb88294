package channel

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// Records are written in host byte order, one fixed-width integer after another.
var order = binary.NativeEndian

// readRecord fills buf. A clean end of stream is reported as io.EOF,
// a stream ending inside a record as a protocol violation.
func readRecord(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return protocol.Violation("read", "", "partial %d-byte record: %w", len(buf), err)
	default:
		return protocol.Resource("read", err)
	}
}

func writeRecord(w io.Writer, buf []byte) error {
	if _, err := w.Write(buf); err != nil {
		return protocol.Resource("write", err)
	}
	return nil
}

func WriteInt32(w io.Writer, v int32) error {
	var buf [4]byte
	order.PutUint32(buf[:], uint32(v))
	return writeRecord(w, buf[:])
}

func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if err := readRecord(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(order.Uint32(buf[:])), nil
}

func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	return writeRecord(w, buf[:])
}

func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readRecord(r, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint64(buf[:]), nil
}

// MaxStringLength bounds the length prefix accepted by ReadString.
const MaxStringLength = 1 << 12

// WriteString writes s as a uint64 length followed by its bytes.
func WriteString(w io.Writer, s string) error {
	if err := WriteUint64(w, uint64(len(s))); err != nil {
		return err
	}
	return writeRecord(w, []byte(s))
}

// ReadString reads a string written by WriteString. io.EOF is only returned
// if the stream ends before the length prefix.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return "", err
	}
	if n > MaxStringLength {
		return "", protocol.Violation("read", "", "string of %d bytes exceeds %d", n, MaxStringLength)
	}
	buf := make([]byte, n)
	if err = readRecord(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return "", protocol.Violation("read", "", "string of %d bytes truncated", n)
		}
		return "", err
	}
	return string(buf), nil
}
