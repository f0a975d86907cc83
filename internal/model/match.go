package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchStatus represents the current phase of a match's lifecycle
type MatchStatus string

const (
	MatchStatusPending       MatchStatus = "pending"        // Invitation sent, not yet answered
	MatchStatusDeckSelection MatchStatus = "deck_selection" // Accepted, players picking decks
	MatchStatusActive        MatchStatus = "active"         // Rounds being played
	MatchStatusCompleted     MatchStatus = "completed"      // Finished with a result
	MatchStatusAbandoned     MatchStatus = "abandoned"      // Quit before completion
	MatchStatusIgnored       MatchStatus = "ignored"        // Invitation declined
)

// IsTerminal returns true for statuses that admit no further mutation
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusAbandoned || s == MatchStatusIgnored
}

// RulesConfig holds the rules policy a match is played under.
// It is snapshotted onto the match at creation time.
type RulesConfig struct {
	DeckSize        int
	InitialHandSize int
	MaxHandSize     int
	TurnCap         int
	PointsPerWin    int
	PowerMin        int
	PowerMax        int
}

// DefaultRulesConfig returns the reference rules
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		DeckSize:        22,
		InitialHandSize: 5,
		MaxHandSize:     6,
		TurnCap:         7,
		PointsPerWin:    1,
		PowerMin:        1,
		PowerMax:        13,
	}
}

// Slot indices into Match.Slots
const (
	SlotCreator  = 0
	SlotOpponent = 1
)

// PlayerSlot holds one participant's side of a match
type PlayerSlot struct {
	PlayerID    PlayerID
	DisplayName string // snapshot at match creation

	Deck   []Card // undrawn cards in draw order
	Hand   []Card
	Played *Card // card played this turn, cleared on resolution
	Score  int

	HasDrawn      bool
	HasPlayed     bool
	DeckConfirmed bool
	TiebreakVote  *bool // nil until the player decides
}

// RoundRecord is one resolved round. Records are append-only.
type RoundRecord struct {
	Turn     int
	Cards    map[PlayerID]Card
	Winner   PlayerID // empty for a tied round
	Scores   map[PlayerID]int
	Tiebreak bool
}

// Match is the aggregate root for a single game session
type Match struct {
	ID     MatchID
	Status MatchStatus
	Config RulesConfig

	// Slots[SlotCreator] is the inviting player, Slots[SlotOpponent] the invited one
	Slots [2]PlayerSlot

	// Turn starts at 1 when the match becomes active
	Turn             int
	History          []RoundRecord
	AwaitingTiebreak bool

	// Winner is set when the match ends with a winner: the higher scorer on
	// completion, or the remaining participant of an abandoned active match.
	// Empty on a completed match means it tied.
	Winner PlayerID

	// Version is the optimistic-concurrency marker maintained by storage
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsParticipant returns true if the player occupies one of the two slots
func (m *Match) IsParticipant(playerID PlayerID) bool {
	return m.Slots[SlotCreator].PlayerID == playerID || m.Slots[SlotOpponent].PlayerID == playerID
}

// Slot returns the slot belonging to the player, or nil if not a participant
func (m *Match) Slot(playerID PlayerID) *PlayerSlot {
	for i := range m.Slots {
		if m.Slots[i].PlayerID == playerID {
			return &m.Slots[i]
		}
	}
	return nil
}

// OpponentSlot returns the other participant's slot, or nil if playerID
// is not a participant
func (m *Match) OpponentSlot(playerID PlayerID) *PlayerSlot {
	for i := range m.Slots {
		if m.Slots[i].PlayerID == playerID {
			return &m.Slots[1-i]
		}
	}
	return nil
}

// Creator returns the inviting player's slot
func (m *Match) Creator() *PlayerSlot {
	return &m.Slots[SlotCreator]
}

// Opponent returns the invited player's slot
func (m *Match) Opponent() *PlayerSlot {
	return &m.Slots[SlotOpponent]
}

// BothConfirmed returns true once both players have confirmed a deck
func (m *Match) BothConfirmed() bool {
	return m.Slots[SlotCreator].DeckConfirmed && m.Slots[SlotOpponent].DeckConfirmed
}

// BothPlayed returns true once both players have played this turn
func (m *Match) BothPlayed() bool {
	return m.Slots[SlotCreator].HasPlayed && m.Slots[SlotOpponent].HasPlayed
}

// Clone returns a deep copy of the match. Storage implementations hand out
// clones so concurrent callers never share mutable state.
func (m *Match) Clone() *Match {
	clone := *m
	for i := range m.Slots {
		clone.Slots[i] = m.Slots[i].clone()
	}
	if m.History != nil {
		clone.History = make([]RoundRecord, len(m.History))
		for i, r := range m.History {
			clone.History[i] = r.clone()
		}
	}
	return &clone
}

func (s PlayerSlot) clone() PlayerSlot {
	clone := s
	clone.Deck = append([]Card(nil), s.Deck...)
	clone.Hand = append([]Card(nil), s.Hand...)
	if s.Played != nil {
		played := *s.Played
		clone.Played = &played
	}
	if s.TiebreakVote != nil {
		vote := *s.TiebreakVote
		clone.TiebreakVote = &vote
	}
	return clone
}

func (r RoundRecord) clone() RoundRecord {
	clone := r
	clone.Cards = make(map[PlayerID]Card, len(r.Cards))
	for pid, c := range r.Cards {
		clone.Cards[pid] = c
	}
	clone.Scores = make(map[PlayerID]int, len(r.Scores))
	for pid, s := range r.Scores {
		clone.Scores[pid] = s
	}
	return clone
}

// MatchSummary is the finalized record emitted to the archive when a match
// completes
type MatchSummary struct {
	ID          string // archive record id
	MatchID     MatchID
	Players     map[PlayerID]string // id -> display name
	FinalScores map[PlayerID]int
	Winner      PlayerID // empty for a tie
	Rounds      []RoundRecord
	CompletedAt time.Time
}

// LeaderboardEntry is one row of the wins leaderboard
type LeaderboardEntry struct {
	PlayerID PlayerID
	Wins     int
}
