package storage

import (
	"context"

	"github.com/rpsduel/rpsduel-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Match records carry a Version marker. UpdateMatch writes conditionally:
// it fails with model.ErrVersionConflict if the stored version no longer
// matches the one the caller read, and bumps the version (both stored and on
// the passed match) on success. DeleteMatch is conditional the same way, so
// a removal decided against a stale read never lands. Implementations must
// hand out copies so two callers never share mutable match state.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Match operations
	CreateMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	UpdateMatch(ctx context.Context, match *model.Match) error
	DeleteMatch(ctx context.Context, id model.MatchID, version int64) error
	GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error)

	// Catalog operations
	GetCatalogPowers(ctx context.Context, cardType model.CardType) ([]int, error)
	SaveCatalogPowers(ctx context.Context, cardType model.CardType, powers []int) error

	// Archive operations
	SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error
	GetMatchSummariesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.MatchSummary, error)
	IncrementWins(ctx context.Context, playerID model.PlayerID) error
	TopWinners(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
