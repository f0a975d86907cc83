package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventInvitationSent     EventType = "invitation_sent"
	EventInvitationAccepted EventType = "invitation_accepted"
	EventInvitationDeclined EventType = "invitation_declined"
	EventDeckSelected       EventType = "deck_selected"
	EventMatchStarted       EventType = "match_started"
	EventRoundResolved      EventType = "round_resolved"
	EventTiebreakRequested  EventType = "tiebreak_requested"
	EventMatchCompleted     EventType = "match_completed"
	EventMatchAbandoned     EventType = "match_abandoned"
	EventMatchCancelled     EventType = "match_cancelled"
)

// Event is the base structure for all audit events
type Event struct {
	Type      EventType
	Timestamp time.Time
	MatchID   MatchID
	PlayerID  PlayerID // the player who triggered the event, if any
	Payload   any      // type-specific data
}

// InvitationSentPayload contains data for invitation sent events
type InvitationSentPayload struct {
	CreatorID  PlayerID
	OpponentID PlayerID
}

// DeckSelectedPayload contains data for deck selected events
type DeckSelectedPayload struct {
	PlayerID PlayerID
	Random   bool
}

// RoundResolvedPayload contains data for round resolved events
type RoundResolvedPayload struct {
	Turn     int
	Winner   PlayerID // empty for a tie
	Tiebreak bool
}

// MatchCompletedPayload contains data for match completed events
type MatchCompletedPayload struct {
	Winner      PlayerID // empty for a tie
	FinalScores map[PlayerID]int
	Turns       int
}

// MatchAbandonedPayload contains data for match abandoned events
type MatchAbandonedPayload struct {
	QuitterID PlayerID
	WinnerID  PlayerID // empty if the match never became active
}
