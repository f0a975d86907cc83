package deck

import (
	"context"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/random"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/catalog"
)

// Service is the deck/hand allocator. It turns a card-type distribution into
// a concrete shuffled deck via the catalog and deals starting hands.
type Service struct {
	catalog *catalog.Service
	random  random.Random
}

// New creates a new allocator
func New(catalog *catalog.Service, random random.Random) *Service {
	return &Service{
		catalog: catalog,
		random:  random,
	}
}

// BuildDeck allocates a shuffled deck matching the distribution. The counts
// must be non-negative and sum to deckSize; power values are drawn from the
// catalog per card, repeats allowed. The slice order is the draw order.
func (s *Service) BuildDeck(ctx context.Context, dist model.Distribution, deckSize int) ([]model.Card, error) {
	if err := dist.Validate(deckSize); err != nil {
		return nil, err
	}

	cards := make([]model.Card, 0, deckSize)
	for _, t := range model.CardTypes {
		for i := 0; i < dist[t]; i++ {
			card, err := s.catalog.Draw(ctx, t)
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}

	s.shuffle(cards)
	return cards, nil
}

// RandomDeck allocates a deck with type counts also chosen at random
// (non-negative, summing to deckSize)
func (s *Service) RandomDeck(ctx context.Context, deckSize int) ([]model.Card, error) {
	dist := model.Distribution{}
	remaining := deckSize
	for i, t := range model.CardTypes {
		if i == len(model.CardTypes)-1 {
			dist[t] = remaining
			break
		}
		n := s.random.Intn(remaining + 1)
		dist[t] = n
		remaining -= n
	}

	return s.BuildDeck(ctx, dist, deckSize)
}

// DealInitialHand removes the first handSize cards from the deck's draw
// order and returns them as the starting hand alongside the remaining deck
func (s *Service) DealInitialHand(deck []model.Card, handSize int) (hand, remaining []model.Card) {
	if handSize > len(deck) {
		handSize = len(deck)
	}
	hand = append([]model.Card(nil), deck[:handSize]...)
	remaining = append([]model.Card(nil), deck[handSize:]...)
	return hand, remaining
}

// shuffle performs a Fisher-Yates shuffle in place using the injected random
func (s *Service) shuffle(cards []model.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
