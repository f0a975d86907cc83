package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateMatchRequest is the request body for creating a match.
// The opponent is addressed by registered username.
type CreateMatchRequest struct {
	OpponentUsername string `json:"opponent_username"`
}

// RespondRequest is the request body for answering an invitation
type RespondRequest struct {
	Accept bool `json:"accept"`
}

// SelectDeckRequest is the request body for deck selection.
// A nil or empty distribution requests a random deck.
type SelectDeckRequest struct {
	Distribution map[string]int `json:"distribution,omitempty"`
}

// PlayCardRequest is the request body for playing a card from hand
type PlayCardRequest struct {
	HandIndex int `json:"hand_index"`
}

// TiebreakRequest is the request body for a tiebreak decision
type TiebreakRequest struct {
	Accept bool `json:"accept"`
}
