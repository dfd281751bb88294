package poker

import (
	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// Deck is an ordered pile of cards, plain or encrypted.
//
// A Deck handed to a stage that transforms it is spent: the stage returns a new
// Deck, and the old one can no longer be used.
type Deck struct {
	cards []int64
	spent bool
}

// NewDeck returns the plain deck params.FirstCard, ..., params.FirstCard + params.DeckSize - 1.
func NewDeck() *Deck {
	cards := make([]int64, params.DeckSize)
	for i := range cards {
		cards[i] = int64(params.FirstCard + i)
	}
	return &Deck{cards: cards}
}

// IsCard reports whether c is the plain value of a card.
func IsCard(c int64) bool {
	return c >= params.FirstCard && c < params.FirstCard+params.DeckSize
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the cards, top first.
func (d *Deck) Cards() []int64 {
	return append([]int64(nil), d.cards...)
}

// Spent reports whether the deck was handed over to another stage.
func (d *Deck) Spent() bool {
	return d.spent
}

// Draw removes the top n cards and returns them.
func (d *Deck) Draw(n int) ([]int64, error) {
	const phase = "draw"
	if d.spent {
		return nil, protocol.Violation(phase, "", "deck already spent")
	}
	if n < 0 || n > len(d.cards) {
		return nil, protocol.Violation(phase, "", "cannot draw %d cards from %d", n, len(d.cards))
	}
	out := append([]int64(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out, nil
}

// take hands the cards over and spends the deck.
func (d *Deck) take(phase, party string) ([]int64, error) {
	if d.spent {
		return nil, protocol.Violation(phase, party, "deck already spent")
	}
	d.spent = true
	cards := d.cards
	d.cards = nil
	return cards, nil
}
