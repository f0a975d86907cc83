package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeMatchNotFound       = "MATCH_NOT_FOUND"
	CodeNotParticipant      = "NOT_PARTICIPANT"
	CodeNotInvitee          = "NOT_INVITEE"
	CodeNotCreator          = "NOT_CREATOR"
	CodeInvalidState        = "INVALID_STATE"
	CodeDeckConfirmed       = "DECK_CONFIRMED"
	CodeAlreadyDrawn        = "ALREADY_DRAWN"
	CodeNotDrawnYet         = "NOT_DRAWN_YET"
	CodeAlreadyPlayed       = "ALREADY_PLAYED"
	CodeTiebreakPending     = "TIEBREAK_PENDING"
	CodeNoTiebreakPending   = "NO_TIEBREAK_PENDING"
	CodeTiebreakVoted       = "TIEBREAK_VOTED"
	CodeInvalidDistribution = "INVALID_DISTRIBUTION"
	CodeHandFull            = "HAND_FULL"
	CodeDeckEmpty           = "DECK_EMPTY"
	CodeCardNotInHand       = "CARD_NOT_IN_HAND"
	CodeOpponentIsSelf      = "OPPONENT_IS_SELF"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}

	// Forbidden
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "You are not a participant in this match"}}
	case errors.Is(err, model.ErrNotInvitee):
		return &httpError{http.StatusForbidden, APIError{CodeNotInvitee, "Only the invited player can respond"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Only the match creator can do this"}}

	// Invalid state
	case errors.Is(err, model.ErrMatchNotPending):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Match is not awaiting an invitation response"}}
	case errors.Is(err, model.ErrMatchNotSelecting):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Match is not in deck selection"}}
	case errors.Is(err, model.ErrMatchNotActive):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Match is not active"}}
	case errors.Is(err, model.ErrMatchFinished):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Match has already finished"}}
	case errors.Is(err, model.ErrDeckAlreadyConfirmed):
		return &httpError{http.StatusConflict, APIError{CodeDeckConfirmed, "Deck already confirmed"}}
	case errors.Is(err, model.ErrAlreadyDrawn):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyDrawn, "Already drawn this turn"}}
	case errors.Is(err, model.ErrNotDrawnYet):
		return &httpError{http.StatusConflict, APIError{CodeNotDrawnYet, "Draw a card before playing"}}
	case errors.Is(err, model.ErrAlreadyPlayed):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyPlayed, "Already played this turn"}}
	case errors.Is(err, model.ErrTiebreakPending):
		return &httpError{http.StatusConflict, APIError{CodeTiebreakPending, "Waiting on tiebreak decisions"}}
	case errors.Is(err, model.ErrNoTiebreakPending):
		return &httpError{http.StatusConflict, APIError{CodeNoTiebreakPending, "No tiebreak decision is pending"}}
	case errors.Is(err, model.ErrTiebreakAlreadyVoted):
		return &httpError{http.StatusConflict, APIError{CodeTiebreakVoted, "Tiebreak decision already submitted"}}

	// Invalid input
	case errors.Is(err, model.ErrInvalidDistribution):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDistribution, "Distribution does not describe a valid deck"}}
	case errors.Is(err, model.ErrHandFull):
		return &httpError{http.StatusBadRequest, APIError{CodeHandFull, "Hand is full"}}
	case errors.Is(err, model.ErrDeckEmpty):
		return &httpError{http.StatusBadRequest, APIError{CodeDeckEmpty, "Deck is empty"}}
	case errors.Is(err, model.ErrCardNotInHand):
		return &httpError{http.StatusBadRequest, APIError{CodeCardNotInHand, "Card reference is not in hand"}}
	case errors.Is(err, model.ErrOpponentIsSelf):
		return &httpError{http.StatusBadRequest, APIError{CodeOpponentIsSelf, "Cannot invite yourself"}}

	// Concurrency
	case errors.Is(err, model.ErrConcurrentUpdate), errors.Is(err, model.ErrVersionConflict):
		return &httpError{http.StatusConflict, APIError{CodeConcurrentUpdate, "Match was modified concurrently, retry the request"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
