package redis

import (
	"fmt"

	"github.com/rpsduel/rpsduel-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "rpsduel"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesForPlayerIndexKey returns the Redis key for the SET of a player's matches
func matchesForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:matches_for_player:%s", keyPrefix, playerID)
}

// catalogKey returns the Redis key for the power set of one card type
func catalogKey(cardType model.CardType) string {
	return fmt.Sprintf("%s:catalog:%s", keyPrefix, cardType)
}

// summariesForPlayerKey returns the Redis key for a player's match history list
func summariesForPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:summaries:%s", keyPrefix, playerID)
}

// leaderboardKey returns the Redis key for the wins leaderboard sorted set
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
