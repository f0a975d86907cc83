package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	matches           map[model.MatchID]*model.Match
	playerMatches     map[model.PlayerID][]model.MatchID
	catalog           map[model.CardType][]int
	summaries         map[model.PlayerID][]*model.MatchSummary
	wins              map[model.PlayerID]int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		matches:           make(map[model.MatchID]*model.Match),
		playerMatches:     make(map[model.PlayerID][]model.MatchID),
		catalog:           make(map[model.CardType][]int),
		summaries:         make(map[model.PlayerID][]*model.MatchSummary),
		wins:              make(map[model.PlayerID]int),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match.Version = 1
	s.matches[match.ID] = match.Clone()
	for i := range match.Slots {
		pid := match.Slots[i].PlayerID
		s.playerMatches[pid] = append(s.playerMatches[pid], match.ID)
	}
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) UpdateMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.matches[match.ID]
	if !ok {
		return model.ErrMatchNotFound
	}
	if current.Version != match.Version {
		return model.ErrVersionConflict
	}

	match.Version++
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[id]
	if !ok {
		return nil
	}
	if match.Version != version {
		return model.ErrVersionConflict
	}
	for i := range match.Slots {
		pid := match.Slots[i].PlayerID
		ids := s.playerMatches[pid]
		for j, mid := range ids {
			if mid == id {
				s.playerMatches[pid] = append(ids[:j], ids[j+1:]...)
				break
			}
		}
	}
	delete(s.matches, id)
	return nil
}

func (s *Storage) GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.playerMatches[playerID]
	matches := make([]*model.Match, 0, len(ids))
	for _, id := range ids {
		if match, ok := s.matches[id]; ok {
			matches = append(matches, match.Clone())
		}
	}
	return matches, nil
}

// Catalog operations

func (s *Storage) GetCatalogPowers(ctx context.Context, cardType model.CardType) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	powers, ok := s.catalog[cardType]
	if !ok || len(powers) == 0 {
		return nil, model.ErrCatalogNotLoaded
	}
	result := make([]int, len(powers))
	copy(result, powers)
	return result, nil
}

func (s *Storage) SaveCatalogPowers(ctx context.Context, cardType model.CardType, powers []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]int, len(powers))
	copy(stored, powers)
	s.catalog[cardType] = stored
	return nil
}

// Archive operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pid := range summary.Players {
		s.summaries[pid] = append([]*model.MatchSummary{summary}, s.summaries[pid]...)
	}
	return nil
}

func (s *Storage) GetMatchSummariesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.MatchSummary, len(s.summaries[playerID]))
	copy(result, s.summaries[playerID])
	return result, nil
}

func (s *Storage) IncrementWins(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wins[playerID]++
	return nil
}

func (s *Storage) TopWinners(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.LeaderboardEntry, 0, len(s.wins))
	for pid, wins := range s.wins {
		entries = append(entries, model.LeaderboardEntry{PlayerID: pid, Wins: wins})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
