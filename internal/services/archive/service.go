package archive

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/clock"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/storage"
)

// Service archives finalized matches and maintains the wins leaderboard.
// The engine treats it as a fire-and-forget sink: archival failure never
// affects a match's completed status.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new archive service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Record stores a summary of a completed match and credits the winner on the
// leaderboard. Errors are logged, not returned.
func (s *Service) Record(ctx context.Context, match *model.Match) {
	if match.Status != model.MatchStatusCompleted {
		return
	}

	summary := &model.MatchSummary{
		ID:      uuid.NewString(),
		MatchID: match.ID,
		Players: map[model.PlayerID]string{
			match.Creator().PlayerID:  match.Creator().DisplayName,
			match.Opponent().PlayerID: match.Opponent().DisplayName,
		},
		FinalScores: map[model.PlayerID]int{
			match.Creator().PlayerID:  match.Creator().Score,
			match.Opponent().PlayerID: match.Opponent().Score,
		},
		Winner:      match.Winner,
		Rounds:      append([]model.RoundRecord(nil), match.History...),
		CompletedAt: s.clock.Now(),
	}

	if err := s.storage.SaveMatchSummary(ctx, summary); err != nil {
		s.logger.Error("failed to archive match",
			slog.String("match_id", string(match.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	if match.Winner != "" {
		if err := s.storage.IncrementWins(ctx, match.Winner); err != nil {
			s.logger.Error("failed to update leaderboard",
				slog.String("match_id", string(match.ID)),
				slog.String("winner", string(match.Winner)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// HistoryForPlayer returns a player's archived match summaries, newest first
func (s *Service) HistoryForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.MatchSummary, error) {
	return s.storage.GetMatchSummariesForPlayer(ctx, playerID)
}

// Leaderboard returns the top winners
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.storage.TopWinners(ctx, limit)
}
