package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	match.Version = 1

	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchKey(match.ID)

	// Use pipeline for atomic save + per-player index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	for i := range match.Slots {
		indexKey := matchesForPlayerIndexKey(match.Slots[i].PlayerID)
		pipe.SAdd(ctx, indexKey, key)
		pipe.Expire(ctx, indexKey, s.cfg.MatchTTL) // Keep index TTL in sync
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateMatch performs an optimistic-concurrency write. It WATCHes the match
// key, re-reads the stored version, and commits inside a transaction; a
// concurrent writer aborts the transaction and the caller gets
// model.ErrVersionConflict.
func (s *Storage) UpdateMatch(ctx context.Context, match *model.Match) error {
	key := matchKey(match.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrMatchNotFound
			}
			return err
		}

		var current model.Match
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != match.Version {
			return model.ErrVersionConflict
		}

		match.Version++
		updated, err := json.Marshal(match)
		if err != nil {
			match.Version--
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.MatchTTL)
			return nil
		})
		if err != nil {
			match.Version--
		}
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	return err
}

// DeleteMatch removes a match and its index entries, conditional on the
// version the caller read. Like UpdateMatch it WATCHes the match key, so a
// concurrent writer aborts the removal with model.ErrVersionConflict. An
// absent match deletes cleanly.
func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID, version int64) error {
	key := matchKey(id)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}

		var current model.Match
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != version {
			return model.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i := range current.Slots {
				pipe.SRem(ctx, matchesForPlayerIndexKey(current.Slots[i].PlayerID), key)
			}
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	return err
}

func (s *Storage) GetMatchesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	indexKey := matchesForPlayerIndexKey(playerID)

	matchKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(matchKeys) == 0 {
		return []*model.Match{}, nil
	}

	values, err := s.client.MGet(ctx, matchKeys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Match may have expired
		}
		var match model.Match
		if err := json.Unmarshal([]byte(val.(string)), &match); err != nil {
			continue // Skip invalid data
		}
		matches = append(matches, &match)
	}

	return matches, nil
}

// Catalog operations

func (s *Storage) GetCatalogPowers(ctx context.Context, cardType model.CardType) ([]int, error) {
	key := catalogKey(cardType)

	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, model.ErrCatalogNotLoaded
	}

	powers := make([]int, 0, len(members))
	for _, m := range members {
		power, err := strconv.Atoi(m)
		if err != nil {
			continue // Skip invalid data
		}
		powers = append(powers, power)
	}
	return powers, nil
}

func (s *Storage) SaveCatalogPowers(ctx context.Context, cardType model.CardType, powers []int) error {
	key := catalogKey(cardType)

	// Replace the existing power set atomically
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)

	if len(powers) > 0 {
		members := make([]interface{}, len(powers))
		for i, p := range powers {
			members[i] = strconv.Itoa(p)
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Archive operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for pid := range summary.Players {
		key := summariesForPlayerKey(pid)
		pipe.LPush(ctx, key, data)
		pipe.Expire(ctx, key, s.cfg.SummaryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchSummariesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.MatchSummary, error) {
	values, err := s.client.LRange(ctx, summariesForPlayerKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.MatchSummary, 0, len(values))
	for _, val := range values {
		var summary model.MatchSummary
		if err := json.Unmarshal([]byte(val), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

func (s *Storage) IncrementWins(ctx context.Context, playerID model.PlayerID) error {
	return s.client.ZIncrBy(ctx, leaderboardKey(), 1, string(playerID)).Err()
}

func (s *Storage) TopWinners(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			PlayerID: model.PlayerID(member),
			Wins:     int(z.Score),
		})
	}
	return entries, nil
}
