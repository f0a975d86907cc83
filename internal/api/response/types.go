package response

import (
	"time"

	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Card represents a card in API responses
type Card struct {
	Type  string `json:"type"`
	Power int    `json:"power"`
}

// CardFromModel converts a model.Card
func CardFromModel(c model.Card) Card {
	return Card{Type: string(c.Type), Power: c.Power}
}

// RulesConfig represents the rules a match is played under
type RulesConfig struct {
	DeckSize        int `json:"deck_size"`
	InitialHandSize int `json:"initial_hand_size"`
	MaxHandSize     int `json:"max_hand_size"`
	TurnCap         int `json:"turn_cap"`
	PointsPerWin    int `json:"points_per_win"`
	PowerMin        int `json:"power_min"`
	PowerMax        int `json:"power_max"`
}

// RulesConfigFromModel converts model.RulesConfig
func RulesConfigFromModel(c model.RulesConfig) RulesConfig {
	return RulesConfig{
		DeckSize:        c.DeckSize,
		InitialHandSize: c.InitialHandSize,
		MaxHandSize:     c.MaxHandSize,
		TurnCap:         c.TurnCap,
		PointsPerWin:    c.PointsPerWin,
		PowerMin:        c.PowerMin,
		PowerMax:        c.PowerMax,
	}
}

// RoundRecord represents one resolved round
type RoundRecord struct {
	Turn     int             `json:"turn"`
	Cards    map[string]Card `json:"cards"`
	Winner   *string         `json:"winner"`
	Scores   map[string]int  `json:"scores"`
	Tiebreak bool            `json:"tiebreak,omitempty"`
}

// RoundRecordFromModel converts model.RoundRecord
func RoundRecordFromModel(r model.RoundRecord) RoundRecord {
	cards := make(map[string]Card, len(r.Cards))
	for pid, c := range r.Cards {
		cards[string(pid)] = CardFromModel(c)
	}
	scores := make(map[string]int, len(r.Scores))
	for pid, s := range r.Scores {
		scores[string(pid)] = s
	}
	var winner *string
	if r.Winner != "" {
		w := string(r.Winner)
		winner = &w
	}
	return RoundRecord{
		Turn:     r.Turn,
		Cards:    cards,
		Winner:   winner,
		Scores:   scores,
		Tiebreak: r.Tiebreak,
	}
}

// ParticipantView is one player's side of a match as seen by the viewer.
// The viewer's own side carries the hand and played card; the opponent's
// side only exposes counts, and the played card once both sides have played.
type ParticipantView struct {
	PlayerID      string `json:"player_id"`
	DisplayName   string `json:"display_name"`
	Score         int    `json:"score"`
	DeckConfirmed bool   `json:"deck_confirmed"`
	HasDrawn      bool   `json:"has_drawn"`
	HasPlayed     bool   `json:"has_played"`
	DeckSize      int    `json:"deck_size"`
	HandSize      int    `json:"hand_size"`
	Hand          []Card `json:"hand,omitempty"`
	Played        *Card  `json:"played,omitempty"`
	TiebreakVoted bool   `json:"tiebreak_voted,omitempty"`
}

// MatchState is a match projected for one viewer
type MatchState struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Config           RulesConfig     `json:"config"`
	Turn             int             `json:"turn"`
	You              ParticipantView `json:"you"`
	Opponent         ParticipantView `json:"opponent"`
	AwaitingTiebreak bool            `json:"awaiting_tiebreak"`
	History          []RoundRecord   `json:"history"`
	Winner           *string         `json:"winner,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MatchStateFromModel projects a match for the given viewer, redacting the
// opponent's hidden information
func MatchStateFromModel(m *model.Match, viewer model.PlayerID) MatchState {
	you := participantView(m.Slot(viewer), true, false)
	opponent := participantView(m.OpponentSlot(viewer), false, m.BothPlayed())

	history := make([]RoundRecord, len(m.History))
	for i, r := range m.History {
		history[i] = RoundRecordFromModel(r)
	}

	var winner *string
	if m.Winner != "" {
		w := string(m.Winner)
		winner = &w
	}

	return MatchState{
		ID:               string(m.ID),
		Status:           string(m.Status),
		Config:           RulesConfigFromModel(m.Config),
		Turn:             m.Turn,
		You:              you,
		Opponent:         opponent,
		AwaitingTiebreak: m.AwaitingTiebreak,
		History:          history,
		Winner:           winner,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func participantView(slot *model.PlayerSlot, self, revealPlayed bool) ParticipantView {
	view := ParticipantView{
		PlayerID:      string(slot.PlayerID),
		DisplayName:   slot.DisplayName,
		Score:         slot.Score,
		DeckConfirmed: slot.DeckConfirmed,
		HasDrawn:      slot.HasDrawn,
		HasPlayed:     slot.HasPlayed,
		DeckSize:      len(slot.Deck),
		HandSize:      len(slot.Hand),
		TiebreakVoted: slot.TiebreakVote != nil,
	}

	if self {
		view.Hand = make([]Card, len(slot.Hand))
		for i, c := range slot.Hand {
			view.Hand[i] = CardFromModel(c)
		}
	}
	if slot.Played != nil && (self || revealPlayed) {
		played := CardFromModel(*slot.Played)
		view.Played = &played
	}

	return view
}

// MatchList is the response for listing a player's matches
type MatchList struct {
	Matches []MatchState `json:"matches"`
}

// MatchListFromModel projects each match for the viewer
func MatchListFromModel(matches []*model.Match, viewer model.PlayerID) MatchList {
	out := MatchList{Matches: make([]MatchState, len(matches))}
	for i, m := range matches {
		out.Matches[i] = MatchStateFromModel(m, viewer)
	}
	return out
}

// MatchSummary represents an archived match
type MatchSummary struct {
	ID          string            `json:"id"`
	MatchID     string            `json:"match_id"`
	Players     map[string]string `json:"players"`
	FinalScores map[string]int    `json:"final_scores"`
	Winner      *string           `json:"winner"`
	Rounds      []RoundRecord     `json:"rounds"`
	CompletedAt time.Time         `json:"completed_at"`
}

// MatchSummaryFromModel converts model.MatchSummary
func MatchSummaryFromModel(s *model.MatchSummary) MatchSummary {
	players := make(map[string]string, len(s.Players))
	for pid, name := range s.Players {
		players[string(pid)] = name
	}
	scores := make(map[string]int, len(s.FinalScores))
	for pid, score := range s.FinalScores {
		scores[string(pid)] = score
	}
	rounds := make([]RoundRecord, len(s.Rounds))
	for i, r := range s.Rounds {
		rounds[i] = RoundRecordFromModel(r)
	}
	var winner *string
	if s.Winner != "" {
		w := string(s.Winner)
		winner = &w
	}
	return MatchSummary{
		ID:          s.ID,
		MatchID:     string(s.MatchID),
		Players:     players,
		FinalScores: scores,
		Winner:      winner,
		Rounds:      rounds,
		CompletedAt: s.CompletedAt,
	}
}

// HistoryResponse is the response for a player's match history
type HistoryResponse struct {
	Matches []MatchSummary `json:"matches"`
}

// LeaderboardEntry is one row of the leaderboard response
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts leaderboard entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) LeaderboardResponse {
	out := LeaderboardResponse{Entries: make([]LeaderboardEntry, len(entries))}
	for i, e := range entries {
		out.Entries[i] = LeaderboardEntry{
			PlayerID: string(e.PlayerID),
			Wins:     e.Wins,
		}
	}
	return out
}
