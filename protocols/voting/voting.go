// Package voting implements anonymous voting with blind RSA signatures.
//
// An elector registers with the server over a secure channel, gets the hash of
// its vote signed while blinded, and publishes the vote with the unblinded
// signature on an anonymous channel. The server can check every bulletin
// without being able to link it to a registration.
package voting

import (
	"errors"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// Cast runs the full exchange for one elector, appending its bulletin to anonymous.
func Cast(s *Server, e *Elector, anonymous io.Writer) error {
	secure, err := s.AcceptConnection(e)
	if err != nil {
		return err
	}
	defer secure.Close()

	if err = e.SendBlindedHash(s.Public(), secure); err != nil {
		return err
	}
	if err = s.SignBlinded(secure); err != nil {
		return err
	}
	return e.SendBulletin(s.Public(), secure, anonymous)
}

// Tally is the result of counting an anonymous channel.
type Tally struct {
	// Counts holds the number of valid bulletins per answer.
	Counts map[uint8]int
	// Rejected is the number of bulletins with an invalid signature.
	Rejected int
	// Replays is the number of valid bulletins repeating a vote already counted.
	Replays int
}

// Valid returns the number of counted votes.
func (t Tally) Valid() int {
	n := 0
	for _, c := range t.Counts {
		n += c
	}
	return n
}

// Tally reads every bulletin of ch from its start.
func (s *Server) Tally(ch io.ReadSeeker) (Tally, error) {
	t := Tally{Counts: make(map[uint8]int)}
	if err := channel.Rewind(ch); err != nil {
		return t, protocol.Resource("tally", err)
	}

	seen := make(map[uint64]struct{})
	pub := s.Public()
	for {
		var b Bulletin
		err := b.Decode(ch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return t, err
		}
		switch _, replay := seen[b.Vote]; {
		case !verify(pub, &b):
			t.Rejected++
		case replay:
			t.Replays++
		default:
			seen[b.Vote] = struct{}{}
			t.Counts[b.Answer()]++
		}
	}
	s.Log.Info().Int("valid", t.Valid()).Int("rejected", t.Rejected).Int("replays", t.Replays).Msg("tally")
	return t, nil
}
