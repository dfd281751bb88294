package voting

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/libcrypt/internal/test"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

type setup struct {
	rand      io.Reader
	server    *Server
	opener    *channel.FS
	anonymous channel.Channel
}

func newSetup(t *testing.T) *setup {
	rand := test.Rand(t, "voting")
	key, err := keys.GenerateVoting(rand)
	require.NoError(t, err)
	opener := channel.NewMemoryOpener()
	anonymous, err := opener.Open("anonymous")
	require.NoError(t, err)
	return &setup{
		rand:      rand,
		server:    NewServer(key, opener),
		opener:    opener,
		anonymous: anonymous,
	}
}

func (s *setup) elector(t *testing.T, answer uint8) *Elector {
	e, err := NewElector(s.rand, answer)
	require.NoError(t, err)
	return e
}

func TestVote(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 42)
	assert.Equal(t, Unassigned, e.ID())
	assert.Equal(t, uint8(42), e.Answer())
	assert.GreaterOrEqual(t, e.vote>>32, uint64(1<<31))

	secure, err := s.server.AcceptConnection(e)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), e.ID())
	assert.Contains(t, secure.Name(), s.server.Session().String()+"-0")

	require.NoError(t, e.SendBlindedHash(s.server.Public(), secure))
	require.NoError(t, channel.Rewind(secure))
	require.NoError(t, s.server.SignBlinded(secure))
	require.NoError(t, e.SendBulletin(s.server.Public(), secure, s.anonymous))

	require.NoError(t, channel.Rewind(s.anonymous))
	ok, err := s.server.CheckBulletin(s.anonymous)
	require.NoError(t, err)
	assert.True(t, ok)

	// checking does not move the channel
	ok, err = s.server.CheckBulletin(s.anonymous)
	require.NoError(t, err)
	assert.True(t, ok)
	off, err := channel.Offset(s.anonymous)
	require.NoError(t, err)
	assert.Zero(t, off)
}

func TestBlindedHashHidesHash(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 1)
	secure, err := s.server.AcceptConnection(e)
	require.NoError(t, err)
	require.NoError(t, e.SendBlindedHash(s.server.Public(), secure))
	require.NoError(t, channel.Rewind(secure))

	var msg BlindedHash
	require.NoError(t, msg.Decode(secure))
	hash := voteHash(e.vote)
	differ := 0
	for i := range hash {
		if msg.Parts[i] != int32(hash[i]) {
			differ++
		}
	}
	assert.Positive(t, differ)
}

func TestCannotVoteTwice(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 3)
	require.NoError(t, Cast(s.server, e, s.anonymous))

	_, err := s.server.AcceptConnection(e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
	var perr protocol.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "elector 0", perr.Party)
	assert.Equal(t, 1, s.server.Registered())
}

func TestRegistrationMessages(t *testing.T) {
	ch, err := channel.NewMemoryOpener().Open("register")
	require.NoError(t, err)

	sent := Registration{ID: 3, Channel: "3f2504e0-4f89-11d3-9a0c-0305e82c3301-3"}
	require.NoError(t, RegisterRequest{ID: Unassigned}.Encode(ch))
	require.NoError(t, sent.Encode(ch))
	require.NoError(t, channel.Rewind(ch))

	var req RegisterRequest
	require.NoError(t, req.Decode(ch))
	assert.Equal(t, Unassigned, req.ID)
	var got Registration
	require.NoError(t, got.Decode(ch))
	assert.Equal(t, sent, got)

	// a registration cut inside its channel name
	truncated, err := channel.NewMemoryOpener().Open("truncated")
	require.NoError(t, err)
	require.NoError(t, channel.WriteUint64(truncated, 3))
	require.NoError(t, channel.WriteUint64(truncated, 10))
	require.NoError(t, channel.Rewind(truncated))
	err = got.Decode(truncated)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
}

func TestRegisteredWithAnotherServer(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 4)
	require.NoError(t, Cast(s.server, e, s.anonymous))

	fs := afero.NewMemMapFs()
	other := NewServer(s.server.key, channel.NewFSOpener(fs))
	_, err := other.AcceptConnection(e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
	assert.Zero(t, other.Registered())

	exists, err := afero.Exists(fs, other.channelName(e.ID()))
	require.NoError(t, err)
	assert.False(t, exists, "no secure channel is opened for a refused elector")
}

func TestBlindedRecordOutOfRange(t *testing.T) {
	s := newSetup(t)
	secure, err := s.server.AcceptConnection(s.elector(t, 6))
	require.NoError(t, err)
	for i := 0; i < HashLength; i++ {
		require.NoError(t, channel.WriteInt32(secure, int32(s.server.Public().N)))
	}

	err = s.server.SignBlinded(secure)
	require.True(t, errors.Is(err, protocol.ErrProtocolViolation))
	var perr protocol.Error
	require.True(t, errors.As(err, &perr))
	assert.Empty(t, perr.Party)
}

func TestSequentialIDs(t *testing.T) {
	s := newSetup(t)
	for i := 0; i < 5; i++ {
		e := s.elector(t, uint8(i))
		require.NoError(t, Cast(s.server, e, s.anonymous))
		assert.Equal(t, uint64(i), e.ID())
	}
	assert.Equal(t, 5, s.server.Registered())
}

func TestOutOfOrder(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 9)
	pub := s.server.Public()

	scratch, err := s.opener.Open("scratch")
	require.NoError(t, err)

	err = e.SendBlindedHash(pub, scratch)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
	err = e.SendBulletin(pub, scratch, s.anonymous)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))

	secure, err := s.server.AcceptConnection(e)
	require.NoError(t, err)
	err = e.SendBulletin(pub, secure, s.anonymous)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))

	require.NoError(t, e.SendBlindedHash(pub, secure))
	err = e.SendBlindedHash(pub, secure)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))

	assert.True(t, errors.Is(e.Register(Registration{ID: 7}), protocol.ErrProtocolViolation))
}

func TestTamperedBulletin(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, Cast(s.server, s.elector(t, 5), s.anonymous))

	// a bulletin only verifies under the key of the server that signed it
	otherKey, err := keys.GenerateVoting(s.rand)
	require.NoError(t, err)
	require.NoError(t, channel.Rewind(s.anonymous))
	ok, err := VerifyBulletin(otherKey.Public(), s.anonymous)
	require.NoError(t, err)
	assert.False(t, ok)

	// flip the answer byte of the vote
	require.NoError(t, channel.Rewind(s.anonymous))
	var b Bulletin
	require.NoError(t, b.Decode(s.anonymous))
	b.Vote ^= 1
	require.NoError(t, channel.Rewind(s.anonymous))
	require.NoError(t, b.Encode(s.anonymous))

	require.NoError(t, channel.Rewind(s.anonymous))
	ok, err = s.server.CheckBulletin(s.anonymous)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShortBulletin(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, channel.WriteUint64(s.anonymous, 12345))
	require.NoError(t, channel.WriteInt32(s.anonymous, 1))
	require.NoError(t, channel.Rewind(s.anonymous))

	_, err := s.server.CheckBulletin(s.anonymous)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))

	empty, err := s.opener.Open("empty")
	require.NoError(t, err)
	_, err = s.server.CheckBulletin(empty)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
}

func TestShortBlindedHash(t *testing.T) {
	s := newSetup(t)
	e := s.elector(t, 0)
	secure, err := s.server.AcceptConnection(e)
	require.NoError(t, err)
	require.NoError(t, channel.WriteInt32(secure, 5))

	err = s.server.SignBlinded(secure)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
}

func TestTally(t *testing.T) {
	s := newSetup(t)
	answers := []uint8{1, 2, 2, 3, 2, 1}
	for _, a := range answers {
		require.NoError(t, Cast(s.server, s.elector(t, a), s.anonymous))
	}

	// replay the first bulletin
	require.NoError(t, channel.Rewind(s.anonymous))
	var first Bulletin
	require.NoError(t, first.Decode(s.anonymous))
	_, err := s.anonymous.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	require.NoError(t, first.Encode(s.anonymous))

	// and forge one
	forged := first
	forged.Vote++
	require.NoError(t, forged.Encode(s.anonymous))

	tally, err := s.server.Tally(s.anonymous)
	require.NoError(t, err)
	assert.Equal(t, map[uint8]int{1: 2, 2: 3, 3: 1}, tally.Counts)
	assert.Equal(t, len(answers), tally.Valid())
	assert.Equal(t, 1, tally.Replays)
	assert.Equal(t, 1, tally.Rejected)
}
