package poker

import (
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/internal/hash"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

const commitmentDomain = "libcrypt/poker/keys"

// Player holds a commutative key pair over a prime modulus m:
// KeyC⋅KeyD ≡ 1 (mod m - 1), so that (cᴷᵉʸᶜ)ᴷᵉʸᴰ ≡ c (mod m).
type Player struct {
	name    string
	modulus int64
	keyC    int64
	keyD    int64
	hand    []int64
	// revealed is set once every layer of hand has been removed.
	revealed bool

	commitment   hash.Commitment
	decommitment hash.Decommitment
}

// Reveal is what a player discloses after the game so that it can be audited.
type Reveal struct {
	KeyC, KeyD   int64
	Decommitment hash.Decommitment
}

// NewPlayer draws KeyC ∈ [2, m-2] invertible modulo m - 1, and commits to the key pair.
func NewPlayer(rand io.Reader, modulus int64) (*Player, error) {
	if modulus < 5 || !arith.IsPrime(modulus) {
		return nil, fmt.Errorf("poker: modulus %d is not a usable prime", modulus)
	}
	c, d, err := sample.Unit(rand, 2, modulus-2, modulus-1)
	if err != nil {
		return nil, fmt.Errorf("poker: player key: %w", err)
	}
	p := &Player{modulus: modulus, keyC: c, keyD: d}
	p.commitment, p.decommitment, err = commitmentHash(modulus).Commit(rand, c, d)
	if err != nil {
		return nil, fmt.Errorf("poker: player key: %w", err)
	}
	return p, nil
}

func commitmentHash(modulus int64) *hash.Hash {
	h := hash.New(commitmentDomain)
	_ = h.WriteAny(modulus)
	return h
}

// Name returns the name used in logs and errors.
func (p *Player) Name() string {
	return p.name
}

// Commitment binds the player to its key pair before any card is dealt.
func (p *Player) Commitment() hash.Commitment {
	return p.commitment
}

// Hand returns a copy of the cards dealt to the player.
func (p *Player) Hand() []int64 {
	return append([]int64(nil), p.hand...)
}

// Reveal opens the commitment.
func (p *Player) Reveal() Reveal {
	return Reveal{KeyC: p.keyC, KeyD: p.keyD, Decommitment: p.decommitment}
}

// EncryptDeck raises every card of deck to KeyC, shuffles the result, and returns
// it as a new Deck. deck is spent.
func (p *Player) EncryptDeck(rand io.Reader, deck *Deck) (*Deck, error) {
	cards, err := deck.take("encrypt", p.name)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = arith.PowMod(c, p.keyC, p.modulus)
	}
	if err = sample.Shuffle(rand, out); err != nil {
		return nil, fmt.Errorf("poker: %s: shuffle: %w", p.name, err)
	}
	return &Deck{cards: out}, nil
}

// Decrypt removes this player's layer from cards.
func (p *Player) Decrypt(cards []int64) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = arith.PowMod(c, p.keyD, p.modulus)
	}
	return out
}
