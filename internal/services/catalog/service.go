package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/random"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/storage"
)

// Service is the card catalog provider: the source of valid (type, power)
// pairs that decks are drawn from
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new catalog service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// LoadDefaults seeds the catalog with the reference power range for every
// card type. Types already present in storage are left untouched.
func (s *Service) LoadDefaults(ctx context.Context, cfg model.RulesConfig) error {
	powers := make([]int, 0, cfg.PowerMax-cfg.PowerMin+1)
	for p := cfg.PowerMin; p <= cfg.PowerMax; p++ {
		powers = append(powers, p)
	}

	for _, t := range model.CardTypes {
		_, err := s.storage.GetCatalogPowers(ctx, t)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrCatalogNotLoaded) {
			return err
		}
		if err := s.storage.SaveCatalogPowers(ctx, t, powers); err != nil {
			return err
		}
	}

	s.logger.Info("card catalog loaded",
		slog.Int("power_min", cfg.PowerMin),
		slog.Int("power_max", cfg.PowerMax),
	)
	return nil
}

// Powers returns the valid power values for a card type
func (s *Service) Powers(ctx context.Context, cardType model.CardType) ([]int, error) {
	return s.storage.GetCatalogPowers(ctx, cardType)
}

// Draw produces one concrete card of the requested type with a power chosen
// uniformly at random from the catalog. Repeats across draws are allowed.
func (s *Service) Draw(ctx context.Context, cardType model.CardType) (model.Card, error) {
	powers, err := s.storage.GetCatalogPowers(ctx, cardType)
	if err != nil {
		return model.Card{}, err
	}

	return model.Card{
		Type:  cardType,
		Power: powers[s.random.Intn(len(powers))],
	}, nil
}
