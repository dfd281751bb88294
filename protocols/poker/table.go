// Package poker implements mental poker with the commutative SRA cipher.
//
// Every player encrypts and shuffles the deck in turn, so that no single player
// knows where a card lies. A dealt card is revealed to its owner once every
// other player has removed its layer, the owner removing its own last.
package poker

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/pool"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

const (
	// HandSize is the number of cards dealt to each player in a game of hold'em.
	HandSize = 2
	// BoardSize is the number of community cards.
	BoardSize = 5
)

// Table runs a game between 2 to 10 players sharing a prime modulus.
type Table struct {
	Log zerolog.Logger

	rand    io.Reader
	pool    *pool.Pool
	modulus int64
	players []*Player
	deck    *Deck
	board   []int64

	// passes[0] is the plain deck, passes[i+1] the deck after player i encrypted it.
	passes [][]int64
}

// NewTable seats n players, each with a fresh key pair over modulus.
func NewTable(rand io.Reader, modulus int64, n int) (*Table, error) {
	if n < params.MinPlayers || n > params.MaxPlayers {
		return nil, protocol.Violation("seat", "", "number of players must be in range %d<=X<=%d, got %d",
			params.MinPlayers, params.MaxPlayers, n)
	}
	t := &Table{
		Log:     zerolog.Nop(),
		rand:    rand,
		modulus: modulus,
		players: make([]*Player, n),
	}
	for i := range t.players {
		p, err := NewPlayer(rand, modulus)
		if err != nil {
			return nil, err
		}
		p.name = fmt.Sprintf("player %d", i)
		t.players[i] = p
	}
	return t, nil
}

// WithPool sets the pool used to audit players concurrently.
func (t *Table) WithPool(pl *pool.Pool) *Table {
	t.pool = pl
	return t
}

// Players returns the seated players, in turn order.
func (t *Table) Players() []*Player {
	return t.players
}

// Deck returns the current deck, nil before Encrypt.
func (t *Table) Deck() *Deck {
	return t.deck
}

// Encrypt passes a fresh deck to every player in turn, each one encrypting and shuffling it.
func (t *Table) Encrypt() error {
	if t.deck != nil {
		return protocol.Violation("encrypt", "", "deck already encrypted")
	}
	deck := NewDeck()
	t.passes = [][]int64{deck.Cards()}
	for _, p := range t.players {
		next, err := p.EncryptDeck(t.rand, deck)
		if err != nil {
			return err
		}
		t.passes = append(t.passes, next.Cards())
		deck = next
	}
	t.deck = deck
	t.Log.Debug().Int("players", len(t.players)).Msg("deck encrypted")
	return nil
}

// Deal gives handSize cards from the top of the deck to each player in turn.
func (t *Table) Deal(handSize int) error {
	if t.deck == nil {
		return protocol.Violation("deal", "", "deck not encrypted")
	}
	if handSize*len(t.players) > t.deck.Len() {
		return protocol.Violation("deal", "", "cannot deal %d cards to %d players from %d", handSize, len(t.players), t.deck.Len())
	}
	for _, p := range t.players {
		cards, err := t.deck.Draw(handSize)
		if err != nil {
			return err
		}
		p.hand = cards
		p.revealed = false
	}
	return nil
}

// DecryptHand reveals the hand of owner. The players listed in order remove their
// layer first, and owner removes its own last. order must list every other player once.
func (t *Table) DecryptHand(owner int, order []int) ([]int64, error) {
	const phase = "decrypt"
	if owner < 0 || owner >= len(t.players) {
		return nil, protocol.Violation(phase, "", "no player %d", owner)
	}
	if err := t.checkOrder(owner, order); err != nil {
		return nil, err
	}
	o := t.players[owner]
	if len(o.hand) == 0 {
		return nil, protocol.Violation(phase, o.name, "no cards dealt")
	}
	if o.revealed {
		return nil, protocol.Violation(phase, "", "hand of %s already revealed", o.name)
	}

	cards := o.hand
	for _, i := range order {
		cards = t.players[i].Decrypt(cards)
	}
	cards = o.Decrypt(cards)
	for _, c := range cards {
		if !IsCard(c) {
			return nil, protocol.Violation(phase, o.name, "hand decrypts to %d, not a card", c)
		}
	}
	o.hand = cards
	o.revealed = true
	t.Log.Debug().Str("owner", o.name).Ints64("hand", cards).Msg("hand revealed")
	return o.Hand(), nil
}

func (t *Table) checkOrder(owner int, order []int) error {
	if len(order) != len(t.players)-1 {
		return protocol.Violation("decrypt", "", "order lists %d players, expected %d", len(order), len(t.players)-1)
	}
	seen := make([]bool, len(t.players))
	for _, i := range order {
		if i < 0 || i >= len(t.players) || i == owner || seen[i] {
			return protocol.Violation("decrypt", "", "invalid decryption order %v for player %d", order, owner)
		}
		seen[i] = true
	}
	return nil
}

// othersOf returns every player but owner, in turn order.
func (t *Table) othersOf(owner int) []int {
	out := make([]int, 0, len(t.players)-1)
	for i := range t.players {
		if i != owner {
			out = append(out, i)
		}
	}
	return out
}

// Board draws n community cards and has every player decrypt them.
func (t *Table) Board(n int) ([]int64, error) {
	if t.deck == nil {
		return nil, protocol.Violation("board", "", "deck not encrypted")
	}
	cards, err := t.deck.Draw(n)
	if err != nil {
		return nil, err
	}
	for _, p := range t.players {
		cards = p.Decrypt(cards)
	}
	for _, c := range cards {
		if !IsCard(c) {
			return nil, protocol.Violation("board", "", "board decrypts to %d, not a card", c)
		}
	}
	t.board = cards
	return append([]int64(nil), cards...), nil
}

// Play runs a whole game: encryption, dealing, revealing every hand, then the board.
func (t *Table) Play(handSize, boardSize int) error {
	if err := t.Encrypt(); err != nil {
		return err
	}
	if err := t.Deal(handSize); err != nil {
		return err
	}
	for i := range t.players {
		if _, err := t.DecryptHand(i, t.othersOf(i)); err != nil {
			return err
		}
	}
	board, err := t.Board(boardSize)
	if err != nil {
		return err
	}
	t.Log.Info().Ints64("board", board).Msg("game played")
	return nil
}

// Audit checks, once the players revealed their keys, that every commitment opens,
// that every key pair is consistent, and that every recorded pass is the previous
// deck raised to that player's KeyC, in some order.
func (t *Table) Audit() error {
	if t.passes == nil {
		return protocol.Violation("audit", "", "nothing to audit")
	}
	errs := pool.Parallelize(t.pool, len(t.players), func(i int) error {
		return t.auditPlayer(i)
	})
	return errors.Join(errs...)
}

func (t *Table) auditPlayer(i int) error {
	const phase = "audit"
	p := t.players[i]
	r := p.Reveal()
	if !commitmentHash(t.modulus).Decommit(p.Commitment(), r.Decommitment, r.KeyC, r.KeyD) {
		return protocol.Violation(phase, p.name, "revealed keys do not match commitment")
	}
	if arith.Mod(r.KeyC*r.KeyD, t.modulus-1) != 1 {
		return protocol.Violation(phase, p.name, "keys are not inverse modulo %d", t.modulus-1)
	}

	expected := make([]int64, len(t.passes[i]))
	for j, c := range t.passes[i] {
		expected[j] = arith.PowMod(c, r.KeyC, t.modulus)
	}
	got := append([]int64(nil), t.passes[i+1]...)
	sort.Slice(expected, func(a, b int) bool { return expected[a] < expected[b] })
	sort.Slice(got, func(a, b int) bool { return got[a] < got[b] })
	if len(expected) != len(got) {
		return protocol.Violation(phase, p.name, "pass has %d cards, expected %d", len(got), len(expected))
	}
	for j := range got {
		if got[j] != expected[j] {
			return protocol.Violation(phase, p.name, "pass is not a permutation of the encrypted deck")
		}
	}
	return nil
}
