package voting

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// Server registers electors, blindly signs their hashes, and checks bulletins.
//
// A Server value is one voting round: its set of registered ids only grows.
type Server struct {
	Log zerolog.Logger

	key        *keys.RSA
	session    uuid.UUID
	registered map[uint64]struct{}
	opener     channel.Opener
}

// NewServer creates a server signing with key, and opening secure channels with opener.
func NewServer(key *keys.RSA, opener channel.Opener) *Server {
	return &Server{
		Log:        zerolog.Nop(),
		key:        key,
		session:    uuid.New(),
		registered: make(map[uint64]struct{}),
		opener:     opener,
	}
}

// Public returns the verification key electors blind their hashes with.
func (s *Server) Public() keys.RSAPublic {
	return s.key.Public()
}

// Session identifies this voting round.
func (s *Server) Session() uuid.UUID {
	return s.session
}

// Registered returns the number of electors registered so far.
func (s *Server) Registered() int {
	return len(s.registered)
}

// channelName names a channel of this session; suffix is an elector id or "register".
func (s *Server) channelName(suffix any) string {
	return fmt.Sprintf("%s-%v", s.session, suffix)
}

// AcceptConnection registers e under the next sequential id, and returns a
// fresh secure channel between the server and e.
//
// The elector's RegisterRequest and the server's Registration are exchanged on
// the server's registration channel. An elector presenting an id that is already
// registered, or an id assigned by another server, is refused before any secure
// channel is opened.
func (s *Server) AcceptConnection(e *Elector) (channel.Channel, error) {
	const phase = "register"
	hello, err := s.opener.Open(s.channelName("register"))
	if err != nil {
		return nil, err
	}
	defer hello.Close()

	if err = e.SendRequest(hello); err != nil {
		return nil, err
	}
	if err = channel.Rewind(hello); err != nil {
		return nil, protocol.Resource(phase, err)
	}
	var req RegisterRequest
	if err = req.Decode(hello); err != nil {
		return nil, err
	}
	if _, ok := s.registered[req.ID]; ok {
		s.Log.Warn().Uint64("id", req.ID).Msg("elector tried to vote twice")
		return nil, protocol.Violation(phase, fmt.Sprintf("elector %d", req.ID), "can't vote twice")
	}
	if req.ID != Unassigned {
		s.Log.Warn().Uint64("id", req.ID).Msg("elector registered with another server")
		return nil, protocol.Violation(phase, fmt.Sprintf("elector %d", req.ID), "id was not assigned by this server")
	}

	id := uint64(len(s.registered))
	msg := Registration{ID: id, Channel: s.channelName(id)}
	off, err := channel.Offset(hello)
	if err != nil {
		return nil, protocol.Resource(phase, err)
	}
	if err = msg.Encode(hello); err != nil {
		return nil, err
	}
	if _, err = hello.Seek(off, io.SeekStart); err != nil {
		return nil, protocol.Resource(phase, err)
	}

	ch, err := s.opener.Open(msg.Channel)
	if err != nil {
		return nil, err
	}
	if _, err = e.ReceiveRegistration(hello); err != nil {
		_ = ch.Close()
		return nil, err
	}
	s.registered[id] = struct{}{}

	s.Log.Debug().Uint64("id", id).Str("channel", msg.Channel).Msg("elector registered")
	return ch, nil
}

// SignBlinded reads the blinded hash at the start of secure, and overwrites it
// in place with its signature. The channel is left at its start.
func (s *Server) SignBlinded(secure channel.Channel) error {
	const phase = "sign"
	if err := channel.Rewind(secure); err != nil {
		return protocol.Resource(phase, err)
	}
	var blinded BlindedHash
	if err := blinded.Decode(secure); err != nil {
		return err
	}

	var sig BlindSignature
	for i, part := range blinded.Parts {
		if part < 0 || int64(part) >= s.key.N {
			return protocol.Violation(phase, "", "blinded record %d of %s out of range", i, secure.Name())
		}
		sig.Parts[i] = int32(arith.PowMod(int64(part), s.key.D, s.key.N))
	}

	if err := channel.Rewind(secure); err != nil {
		return protocol.Resource(phase, err)
	}
	if err := sig.Encode(secure); err != nil {
		return err
	}
	if err := channel.Rewind(secure); err != nil {
		return protocol.Resource(phase, err)
	}
	s.Log.Debug().Str("channel", secure.Name()).Msg("blinded hash signed")
	return nil
}

// CheckBulletin verifies the bulletin at the current offset of ch, and leaves the offset unchanged.
func (s *Server) CheckBulletin(ch io.ReadSeeker) (bool, error) {
	return VerifyBulletin(s.Public(), ch)
}

// VerifyBulletin reads one bulletin at the current offset of ch and checks its
// signature against pub. The offset of ch is restored, so that repeated calls
// give the same answer.
func VerifyBulletin(pub keys.RSAPublic, ch io.ReadSeeker) (ok bool, err error) {
	const phase = "check"
	off, err := channel.Offset(ch)
	if err != nil {
		return false, protocol.Resource(phase, err)
	}
	defer func() {
		if _, seekErr := ch.Seek(off, io.SeekStart); seekErr != nil && err == nil {
			ok, err = false, protocol.Resource(phase, seekErr)
		}
	}()

	var b Bulletin
	if err = b.Decode(ch); err != nil {
		if errors.Is(err, io.EOF) {
			return false, protocol.Violation(phase, "", "no bulletin at offset %d", off)
		}
		return false, err
	}
	return verify(pub, &b), nil
}

func verify(pub keys.RSAPublic, b *Bulletin) bool {
	for i, h := range voteHash(b.Vote) {
		if arith.PowMod(int64(b.Signature[i]), pub.E, pub.N) != int64(h) {
			return false
		}
	}
	return true
}
