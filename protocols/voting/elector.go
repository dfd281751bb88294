package voting

import (
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

type state uint8

const (
	unregistered state = iota
	registered
	hashSent
	signed
	submitted
)

func (s state) String() string {
	switch s {
	case unregistered:
		return "unregistered"
	case registered:
		return "registered"
	case hashSent:
		return "hash sent"
	case signed:
		return "signed"
	case submitted:
		return "bulletin submitted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Elector holds a secret vote, and gets it signed by the server without revealing it.
type Elector struct {
	rand  io.Reader
	state state

	vote uint64
	id   uint64

	blindFactor        int64
	inverseBlindFactor int64
	signature          [HashLength]int32
}

// NewElector creates an elector voting for answer.
//
// The vote is (r << 32) + answer, with r uniform in [2³¹, 2³²-1], so that two
// electors giving the same answer publish different votes.
func NewElector(rand io.Reader, answer uint8) (*Elector, error) {
	r, err := sample.Interval(rand, params.VoteEntropyMin, params.VoteEntropyMax)
	if err != nil {
		return nil, fmt.Errorf("voting: elector: %w", err)
	}
	return &Elector{
		rand:               rand,
		vote:               uint64(r)<<params.VoteEntropyShift + uint64(answer),
		id:                 Unassigned,
		blindFactor:        -1,
		inverseBlindFactor: -1,
	}, nil
}

// ID returns the id assigned by the server, or Unassigned.
func (e *Elector) ID() uint64 {
	return e.id
}

// Answer returns the answer the elector votes for.
func (e *Elector) Answer() uint8 {
	return uint8(e.vote)
}

// Request returns the message presented to the server when connecting.
func (e *Elector) Request() RegisterRequest {
	return RegisterRequest{ID: e.id}
}

// SendRequest writes the elector's RegisterRequest to w.
func (e *Elector) SendRequest(w io.Writer) error {
	return e.Request().Encode(w)
}

// ReceiveRegistration reads the server's Registration from r and records the assigned id.
func (e *Elector) ReceiveRegistration(r io.Reader) (Registration, error) {
	var msg Registration
	if err := msg.Decode(r); err != nil {
		return Registration{}, err
	}
	return msg, e.Register(msg)
}

func (e *Elector) expect(phase string, s state) error {
	if e.state != s {
		return protocol.Violation(phase, e.party(), "elector is %s, expected %s", e.state, s)
	}
	return nil
}

func (e *Elector) party() string {
	if e.id == Unassigned {
		return ""
	}
	return fmt.Sprintf("elector %d", e.id)
}

// Register records the id assigned by the server.
func (e *Elector) Register(msg Registration) error {
	if err := e.expect("register", unregistered); err != nil {
		return err
	}
	if msg.ID == Unassigned {
		return protocol.Violation("register", "", "server assigned the reserved id")
	}
	e.id = msg.ID
	e.state = registered
	return nil
}

// SendBlindedHash draws a fresh blind factor r and writes, for every hex
// character h of the vote's hash, the record h⋅rᵉ (mod N).
func (e *Elector) SendBlindedHash(pub keys.RSAPublic, secure io.Writer) error {
	const phase = "blind"
	if err := e.expect(phase, registered); err != nil {
		return err
	}

	r, rInv, err := sample.Unit(e.rand, 2, pub.N-1, pub.N)
	if err != nil {
		return fmt.Errorf("voting: blind factor: %w", err)
	}
	e.blindFactor, e.inverseBlindFactor = r, rInv

	blinding := arith.PowMod(r, pub.E, pub.N)
	var msg BlindedHash
	for i, h := range voteHash(e.vote) {
		msg.Parts[i] = int32(arith.Mod(int64(h)*blinding, pub.N))
	}
	if err = msg.Encode(secure); err != nil {
		return err
	}
	e.state = hashSent
	return nil
}

// SendBulletin reads the blind signature from the secure channel, removes the
// blind factor, checks the resulting signature, and appends the bulletin to the
// anonymous channel.
func (e *Elector) SendBulletin(pub keys.RSAPublic, secure io.Reader, anonymous io.Writer) error {
	const phase = "bulletin"
	if err := e.expect(phase, hashSent); err != nil {
		return err
	}

	var msg BlindSignature
	if err := msg.Decode(secure); err != nil {
		return err
	}
	hash := voteHash(e.vote)
	for i, part := range msg.Parts {
		s := arith.Mod(int64(part)*e.inverseBlindFactor, pub.N)
		if arith.PowMod(s, pub.E, pub.N) != int64(hash[i]) {
			return protocol.Violation(phase, "server", "invalid blind signature at position %d", i)
		}
		e.signature[i] = int32(s)
	}
	e.state = signed

	bulletin := Bulletin{Vote: e.vote, Signature: e.signature}
	if err := bulletin.Encode(anonymous); err != nil {
		return err
	}
	e.state = submitted
	return nil
}
