package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case MatchState:
		o.printMatchState(v)
	case MatchList:
		o.printMatchList(v)
	case HistoryResult:
		o.printHistory(v)
	case LeaderboardResult:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Card response type
type Card struct {
	Type  string `json:"type"`
	Power int    `json:"power"`
}

// ParticipantView response type
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

// RoundRecord response type
type RoundRecord struct {
	Turn     int             `json:"turn"`
	Cards    map[string]Card `json:"cards"`
	Winner   *string         `json:"winner"`
	Scores   map[string]int  `json:"scores"`
	Tiebreak bool            `json:"tiebreak,omitempty"`
}

// MatchState response type
type MatchState struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Turn             int             `json:"turn"`
	You              ParticipantView `json:"you"`
	Opponent         ParticipantView `json:"opponent"`
	AwaitingTiebreak bool            `json:"awaiting_tiebreak"`
	History          []RoundRecord   `json:"history"`
	Winner           *string         `json:"winner,omitempty"`
}

// MatchList response type
type MatchList struct {
	Matches []MatchState `json:"matches"`
}

// MatchSummary response type
type MatchSummary struct {
	ID          string            `json:"id"`
	MatchID     string            `json:"match_id"`
	Players     map[string]string `json:"players"`
	FinalScores map[string]int    `json:"final_scores"`
	Winner      *string           `json:"winner"`
	CompletedAt time.Time         `json:"completed_at"`
}

// HistoryResult response type
type HistoryResult struct {
	Matches []MatchSummary `json:"matches"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
}

// LeaderboardResult response type
type LeaderboardResult struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printMatchState(m MatchState) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Status: %s\n", m.Status)
	if m.Turn > 0 {
		fmt.Printf("Turn: %d\n", m.Turn)
	}
	fmt.Printf("Score: you %d - %d %s\n", m.You.Score, m.Opponent.Score, m.Opponent.DisplayName)

	if len(m.You.Hand) > 0 {
		fmt.Println("\nYour hand:")
		for i, c := range m.You.Hand {
			fmt.Printf("  [%d] %s %d\n", i, c.Type, c.Power)
		}
	}
	fmt.Printf("Your deck: %d cards left\n", m.You.DeckSize)

	if m.You.Played != nil {
		fmt.Printf("You played: %s %d\n", m.You.Played.Type, m.You.Played.Power)
	}
	if m.Opponent.Played != nil {
		fmt.Printf("Opponent played: %s %d\n", m.Opponent.Played.Type, m.Opponent.Played.Power)
	} else if m.Opponent.HasPlayed {
		fmt.Println("Opponent has played (hidden until you play)")
	}

	if m.AwaitingTiebreak {
		fmt.Println("\nScores are level, waiting on tiebreak decisions")
	}

	if len(m.History) > 0 {
		fmt.Println("\nRounds:")
		for _, r := range m.History {
			label := "tie"
			if r.Winner != nil {
				label = "won by " + *r.Winner
			}
			suffix := ""
			if r.Tiebreak {
				suffix = " (tiebreak)"
			}
			fmt.Printf("  turn %d: %s%s\n", r.Turn, label, suffix)
		}
	}

	if m.Winner != nil {
		fmt.Printf("\nWinner: %s\n", *m.Winner)
	}
}

func (o *Output) printMatchList(l MatchList) {
	if len(l.Matches) == 0 {
		fmt.Println("No matches")
		return
	}
	fmt.Printf("Matches (%d):\n", len(l.Matches))
	for _, m := range l.Matches {
		fmt.Printf("  %s  %-14s  vs %s  (%d-%d)\n",
			m.ID, m.Status, m.Opponent.DisplayName, m.You.Score, m.Opponent.Score)
	}
}

func (o *Output) printHistory(h HistoryResult) {
	if len(h.Matches) == 0 {
		fmt.Println("No archived matches")
		return
	}
	fmt.Printf("Archived matches (%d):\n", len(h.Matches))
	for _, s := range h.Matches {
		result := "tie"
		if s.Winner != nil {
			result = "won by " + *s.Winner
		}
		fmt.Printf("  %s  %s  %s\n", s.MatchID, s.CompletedAt.Format(time.RFC3339), result)
	}
}

func (o *Output) printLeaderboard(l LeaderboardResult) {
	if len(l.Entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	fmt.Println("Leaderboard:")
	for i, e := range l.Entries {
		fmt.Printf("  %2d. %s - %d wins\n", i+1, e.PlayerID, e.Wins)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
