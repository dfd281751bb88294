package voting

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strconv"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// HashLength is the number of hex characters of a SHA-256 digest, and therefore
// the number of records in a blinded hash or a signature.
const HashLength = 2 * sha256.Size

// Unassigned is the id of an elector that never registered.
const Unassigned = ^uint64(0)

// voteHash returns the hex SHA-256 digest of the decimal representation of vote.
func voteHash(vote uint64) []byte {
	sum := sha256.Sum256([]byte(strconv.FormatUint(vote, 10)))
	out := make([]byte, HashLength)
	hex.Encode(out, sum[:])
	return out
}

// RegisterRequest is what an elector presents when opening a connection.
type RegisterRequest struct {
	ID uint64
}

func (m RegisterRequest) Encode(w io.Writer) error {
	return channel.WriteUint64(w, m.ID)
}

func (m *RegisterRequest) Decode(r io.Reader) error {
	id, err := channel.ReadUint64(r)
	if err != nil {
		return short("register", err)
	}
	m.ID = id
	return nil
}

// Registration is the server's answer to a RegisterRequest.
type Registration struct {
	ID uint64
	// Channel names the secure channel opened for this elector.
	Channel string
}

func (m Registration) Encode(w io.Writer) error {
	if err := channel.WriteUint64(w, m.ID); err != nil {
		return err
	}
	return channel.WriteString(w, m.Channel)
}

func (m *Registration) Decode(r io.Reader) error {
	id, err := channel.ReadUint64(r)
	if err != nil {
		return short("register", err)
	}
	name, err := channel.ReadString(r)
	if err != nil {
		return short("register", err)
	}
	m.ID, m.Channel = id, name
	return nil
}

// BlindedHash is sent by the elector on the secure channel.
type BlindedHash struct {
	Parts [HashLength]int32
}

func (m *BlindedHash) Encode(w io.Writer) error {
	return writeParts(w, m.Parts[:])
}

func (m *BlindedHash) Decode(r io.Reader) error {
	return readParts("blind", r, m.Parts[:])
}

// BlindSignature is written back by the server, over the BlindedHash it signed.
type BlindSignature struct {
	Parts [HashLength]int32
}

func (m *BlindSignature) Encode(w io.Writer) error {
	return writeParts(w, m.Parts[:])
}

func (m *BlindSignature) Decode(r io.Reader) error {
	return readParts("sign", r, m.Parts[:])
}

// Bulletin is published anonymously: a vote and the unblinded signature of its hash.
type Bulletin struct {
	Vote      uint64
	Signature [HashLength]int32
}

// Answer returns the answer carried in the low byte of the vote.
func (b *Bulletin) Answer() uint8 {
	return uint8(b.Vote)
}

func (b *Bulletin) Encode(w io.Writer) error {
	if err := channel.WriteUint64(w, b.Vote); err != nil {
		return err
	}
	return writeParts(w, b.Signature[:])
}

// Decode reads a bulletin. io.EOF is returned as is if the stream ends before the bulletin starts.
func (b *Bulletin) Decode(r io.Reader) error {
	vote, err := channel.ReadUint64(r)
	if err != nil {
		return err
	}
	b.Vote = vote
	return readParts("bulletin", r, b.Signature[:])
}

func writeParts(w io.Writer, parts []int32) error {
	for _, p := range parts {
		if err := channel.WriteInt32(w, p); err != nil {
			return err
		}
	}
	return nil
}

func readParts(phase string, r io.Reader, parts []int32) error {
	for i := range parts {
		p, err := channel.ReadInt32(r)
		if err != nil {
			return short(phase, err)
		}
		parts[i] = p
	}
	return nil
}

// short turns a clean end of stream inside a message into a protocol violation.
func short(phase string, err error) error {
	if errors.Is(err, io.EOF) {
		return protocol.Violation(phase, "", "message truncated")
	}
	return err
}
