package model

// CardType is one of the three playable card types
type CardType string

const (
	CardRock     CardType = "rock"
	CardPaper    CardType = "paper"
	CardScissors CardType = "scissors"
)

// CardTypes lists all card types in a stable order
var CardTypes = []CardType{CardRock, CardPaper, CardScissors}

// IsValid returns true if t is a known card type
func (t CardType) IsValid() bool {
	switch t {
	case CardRock, CardPaper, CardScissors:
		return true
	}
	return false
}

// Beats returns true if t dominates other under the three-type cycle
func (t CardType) Beats(other CardType) bool {
	switch t {
	case CardRock:
		return other == CardScissors
	case CardPaper:
		return other == CardRock
	case CardScissors:
		return other == CardPaper
	}
	return false
}

// Card is an immutable (type, power) value. Power is in [PowerMin, PowerMax].
type Card struct {
	Type  CardType `json:"type"`
	Power int      `json:"power"`
}

// Distribution holds per-type card counts for deck selection
type Distribution map[CardType]int

// Total returns the number of cards the distribution describes
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Validate checks that the distribution uses only known types, has no
// negative counts, and sums to deckSize
func (d Distribution) Validate(deckSize int) error {
	for t, n := range d {
		if !t.IsValid() {
			return ErrInvalidDistribution
		}
		if n < 0 {
			return ErrInvalidDistribution
		}
	}
	if d.Total() != deckSize {
		return ErrInvalidDistribution
	}
	return nil
}
