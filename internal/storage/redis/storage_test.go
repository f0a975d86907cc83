package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/rpsduel/rpsduel-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.MatchTTL = 2 * time.Hour
	cfg.SummaryTTL = 3 * time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func newTestMatch(id model.MatchID) *model.Match {
	return &model.Match{
		ID:     id,
		Status: model.MatchStatusPending,
		Config: model.DefaultRulesConfig(),
		Slots: [2]model.PlayerSlot{
			{PlayerID: "p_alice", DisplayName: "Alice"},
			{PlayerID: "p_bob", DisplayName: "Bob"},
		},
		History:   []model.RoundRecord{},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "p_1", DisplayName: "Alice", IsGuest: true}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.True(got.IsGuest)
}

func (s *StorageSuite) TestGuestPlayerHasTTL() {
	player := &model.Player{ID: "p_1", DisplayName: "Alice", IsGuest: true}
	_ = s.storage.SavePlayer(s.ctx, player)

	s.Equal(time.Hour, s.mini.TTL(playerKey("p_1")))
}

func (s *StorageSuite) TestNonGuestPlayerHasNoTTL() {
	player := &model.Player{ID: "p_1", DisplayName: "Alice", IsGuest: false}
	_ = s.storage.SavePlayer(s.ctx, player)

	s.Equal(time.Duration(0), s.mini.TTL(playerKey("p_1")))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "p_1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "p_1"))

	_, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{PlayerID: "p_1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.storage.GetRegisteredPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("hash", got.PasswordHash)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "p_1", Username: "alice"}
	_ = s.storage.SaveRegisteredPlayer(s.ctx, rp)

	got, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), got.PlayerID)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Match tests

func (s *StorageSuite) TestCreateMatchSetsInitialVersion() {
	match := newTestMatch("MATCH1")
	s.Require().NoError(s.storage.CreateMatch(s.ctx, match))
	s.Equal(int64(1), match.Version)

	got, err := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(int64(1), got.Version)
	s.Equal(model.MatchStatusPending, got.Status)
}

func (s *StorageSuite) TestCreateMatchAppliesTTL() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))

	s.Equal(2*time.Hour, s.mini.TTL(matchKey("MATCH1")))
	s.Equal(2*time.Hour, s.mini.TTL(matchesForPlayerIndexKey("p_alice")))
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "missing")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestUpdateMatchBumpsVersion() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))

	got, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	got.Status = model.MatchStatusDeckSelection
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, got))
	s.Equal(int64(2), got.Version)

	stored, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Equal(int64(2), stored.Version)
	s.Equal(model.MatchStatusDeckSelection, stored.Status)
}

func (s *StorageSuite) TestUpdateMatchFailsOnStaleVersion() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))

	first, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	second, _ := s.storage.GetMatch(s.ctx, "MATCH1")

	first.Status = model.MatchStatusDeckSelection
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, first))

	second.Status = model.MatchStatusIgnored
	err := s.storage.UpdateMatch(s.ctx, second)
	s.ErrorIs(err, model.ErrVersionConflict)

	stored, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Equal(model.MatchStatusDeckSelection, stored.Status)
}

func (s *StorageSuite) TestUpdateMatchFailsWhenDeleted() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))
	got, _ := s.storage.GetMatch(s.ctx, "MATCH1")

	_ = s.storage.DeleteMatch(s.ctx, "MATCH1", got.Version)

	err := s.storage.UpdateMatch(s.ctx, got)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestUpdateMatchRefreshesTTL() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))
	s.mini.FastForward(time.Hour)

	got, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, got))

	s.Equal(2*time.Hour, s.mini.TTL(matchKey("MATCH1")))
}

func (s *StorageSuite) TestDeleteMatchRemovesPlayerIndex() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH2"))

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "MATCH1", 1))

	matches, err := s.storage.GetMatchesForPlayer(s.ctx, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchID("MATCH2"), matches[0].ID)
}

func (s *StorageSuite) TestDeleteMatchFailsOnStaleVersion() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))

	got, _ := s.storage.GetMatch(s.ctx, "MATCH1")
	got.Status = model.MatchStatusDeckSelection
	s.Require().NoError(s.storage.UpdateMatch(s.ctx, got))

	err := s.storage.DeleteMatch(s.ctx, "MATCH1", 1)
	s.ErrorIs(err, model.ErrVersionConflict)

	stored, err := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusDeckSelection, stored.Status)
}

func (s *StorageSuite) TestDeleteMatchIsNoopWhenAbsent() {
	s.NoError(s.storage.DeleteMatch(s.ctx, "missing", 1))
}

func (s *StorageSuite) TestGetMatchesForPlayerEmptyWithoutMatches() {
	matches, err := s.storage.GetMatchesForPlayer(s.ctx, "p_nobody")
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *StorageSuite) TestGetMatchesForPlayerSkipsExpired() {
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH1"))
	_ = s.storage.CreateMatch(s.ctx, newTestMatch("MATCH2"))

	// Expire one match record while its index entry lingers
	s.mini.Del(matchKey("MATCH1"))

	matches, err := s.storage.GetMatchesForPlayer(s.ctx, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchID("MATCH2"), matches[0].ID)
}

// Catalog tests

func (s *StorageSuite) TestSaveAndGetCatalogPowers() {
	s.Require().NoError(s.storage.SaveCatalogPowers(s.ctx, model.CardRock, []int{1, 2, 3}))

	powers, err := s.storage.GetCatalogPowers(s.ctx, model.CardRock)
	s.Require().NoError(err)
	s.ElementsMatch([]int{1, 2, 3}, powers)
}

func (s *StorageSuite) TestGetCatalogPowersFailsWhenNotLoaded() {
	_, err := s.storage.GetCatalogPowers(s.ctx, model.CardRock)
	s.ErrorIs(err, model.ErrCatalogNotLoaded)
}

func (s *StorageSuite) TestSaveCatalogPowersReplacesExisting() {
	_ = s.storage.SaveCatalogPowers(s.ctx, model.CardRock, []int{1, 2, 3})
	_ = s.storage.SaveCatalogPowers(s.ctx, model.CardRock, []int{7, 8})

	powers, err := s.storage.GetCatalogPowers(s.ctx, model.CardRock)
	s.Require().NoError(err)
	s.ElementsMatch([]int{7, 8}, powers)
}

// Archive tests

func (s *StorageSuite) TestSaveMatchSummaryIndexesBothPlayers() {
	summary := &model.MatchSummary{
		ID:      "rec_1",
		MatchID: "MATCH1",
		Players: map[model.PlayerID]string{"p_alice": "Alice", "p_bob": "Bob"},
		Winner:  "p_alice",
	}
	s.Require().NoError(s.storage.SaveMatchSummary(s.ctx, summary))

	for _, pid := range []model.PlayerID{"p_alice", "p_bob"} {
		summaries, err := s.storage.GetMatchSummariesForPlayer(s.ctx, pid)
		s.Require().NoError(err)
		s.Require().Len(summaries, 1)
		s.Equal(model.MatchID("MATCH1"), summaries[0].MatchID)
	}
}

func (s *StorageSuite) TestMatchSummariesAreNewestFirst() {
	for _, id := range []model.MatchID{"MATCH1", "MATCH2", "MATCH3"} {
		_ = s.storage.SaveMatchSummary(s.ctx, &model.MatchSummary{
			ID:      "rec_" + string(id),
			MatchID: id,
			Players: map[model.PlayerID]string{"p_alice": "Alice"},
		})
	}

	summaries, err := s.storage.GetMatchSummariesForPlayer(s.ctx, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(summaries, 3)
	s.Equal(model.MatchID("MATCH3"), summaries[0].MatchID)
	s.Equal(model.MatchID("MATCH1"), summaries[2].MatchID)
}

func (s *StorageSuite) TestMatchSummariesHaveTTL() {
	_ = s.storage.SaveMatchSummary(s.ctx, &model.MatchSummary{
		ID:      "rec_1",
		MatchID: "MATCH1",
		Players: map[model.PlayerID]string{"p_alice": "Alice"},
	})

	s.Equal(3*time.Hour, s.mini.TTL(summariesForPlayerKey("p_alice")))
}

// Leaderboard tests

func (s *StorageSuite) TestTopWinnersOrdering() {
	for i := 0; i < 3; i++ {
		_ = s.storage.IncrementWins(s.ctx, "p_carol")
	}
	_ = s.storage.IncrementWins(s.ctx, "p_alice")

	entries, err := s.storage.TopWinners(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal(model.PlayerID("p_carol"), entries[0].PlayerID)
	s.Equal(3, entries[0].Wins)
	s.Equal(model.PlayerID("p_alice"), entries[1].PlayerID)
	s.Equal(1, entries[1].Wins)
}

func (s *StorageSuite) TestTopWinnersAppliesLimit() {
	_ = s.storage.IncrementWins(s.ctx, "p_alice")
	_ = s.storage.IncrementWins(s.ctx, "p_bob")

	entries, err := s.storage.TopWinners(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *StorageSuite) TestTopWinnersEmptyLeaderboard() {
	entries, err := s.storage.TopWinners(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
