package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/mocks"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/storage/memory"
	"github.com/rpsduel/rpsduel-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func completedMatch(id model.MatchID, winner model.PlayerID) *model.Match {
	return &model.Match{
		ID:     id,
		Status: model.MatchStatusCompleted,
		Config: model.DefaultRulesConfig(),
		Slots: [2]model.PlayerSlot{
			{PlayerID: "p_alice", DisplayName: "Alice", Score: 4},
			{PlayerID: "p_bob", DisplayName: "Bob", Score: 3},
		},
		Winner: winner,
		History: []model.RoundRecord{
			{Turn: 1, Winner: "p_alice", Scores: map[model.PlayerID]int{"p_alice": 1, "p_bob": 0}},
		},
	}
}

func (s *ServiceSuite) TestRecordStoresSummaryForBothPlayers() {
	s.service.Record(s.ctx, completedMatch("MATCH1", "p_alice"))

	for _, pid := range []model.PlayerID{"p_alice", "p_bob"} {
		summaries, err := s.storage.GetMatchSummariesForPlayer(s.ctx, pid)
		s.Require().NoError(err)
		s.Require().Len(summaries, 1)

		summary := summaries[0]
		s.NotEmpty(summary.ID)
		s.Equal(model.MatchID("MATCH1"), summary.MatchID)
		s.Equal(model.PlayerID("p_alice"), summary.Winner)
		s.Equal("Alice", summary.Players["p_alice"])
		s.Equal("Bob", summary.Players["p_bob"])
		s.Equal(4, summary.FinalScores["p_alice"])
		s.Equal(3, summary.FinalScores["p_bob"])
		s.Len(summary.Rounds, 1)
		s.Equal(s.clock.Now(), summary.CompletedAt)
	}
}

func (s *ServiceSuite) TestRecordCreditsWinner() {
	s.service.Record(s.ctx, completedMatch("MATCH1", "p_alice"))

	entries, err := s.storage.TopWinners(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.PlayerID("p_alice"), entries[0].PlayerID)
	s.Equal(1, entries[0].Wins)
}

func (s *ServiceSuite) TestRecordSkipsLeaderboardOnTie() {
	s.service.Record(s.ctx, completedMatch("MATCH1", ""))

	summaries, _ := s.storage.GetMatchSummariesForPlayer(s.ctx, "p_alice")
	s.Len(summaries, 1)

	entries, err := s.storage.TopWinners(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ServiceSuite) TestRecordIgnoresUnfinishedMatch() {
	match := completedMatch("MATCH1", "p_alice")
	match.Status = model.MatchStatusActive

	s.service.Record(s.ctx, match)

	summaries, _ := s.storage.GetMatchSummariesForPlayer(s.ctx, "p_alice")
	s.Empty(summaries)
}

func (s *ServiceSuite) TestRecordIgnoresAbandonedMatch() {
	match := completedMatch("MATCH1", "p_alice")
	match.Status = model.MatchStatusAbandoned

	s.service.Record(s.ctx, match)

	summaries, _ := s.storage.GetMatchSummariesForPlayer(s.ctx, "p_alice")
	s.Empty(summaries)
}

func (s *ServiceSuite) TestHistoryForPlayerNewestFirst() {
	s.service.Record(s.ctx, completedMatch("MATCH1", "p_alice"))
	s.clock.Advance(time.Hour)
	s.service.Record(s.ctx, completedMatch("MATCH2", "p_bob"))

	summaries, err := s.service.HistoryForPlayer(s.ctx, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.MatchID("MATCH2"), summaries[0].MatchID)
	s.Equal(model.MatchID("MATCH1"), summaries[1].MatchID)
}

func (s *ServiceSuite) TestLeaderboardRanksByWins() {
	s.service.Record(s.ctx, completedMatch("MATCH1", "p_alice"))
	s.service.Record(s.ctx, completedMatch("MATCH2", "p_alice"))
	s.service.Record(s.ctx, completedMatch("MATCH3", "p_bob"))

	entries, err := s.service.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.PlayerID("p_alice"), entries[0].PlayerID)
	s.Equal(2, entries[0].Wins)
}
