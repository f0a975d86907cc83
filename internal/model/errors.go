package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match lookup / access errors
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("player is not a participant in this match")
	ErrNotInvitee     = errors.New("only the invited player may respond")
	ErrNotCreator     = errors.New("only the match creator may do this")

	// Match state errors
	ErrMatchNotPending      = errors.New("match is not awaiting an invitation response")
	ErrMatchNotSelecting    = errors.New("match is not in deck selection")
	ErrMatchNotActive       = errors.New("match is not active")
	ErrMatchFinished        = errors.New("match has already finished")
	ErrDeckAlreadyConfirmed = errors.New("deck already confirmed")
	ErrAlreadyDrawn         = errors.New("already drawn this turn")
	ErrNotDrawnYet          = errors.New("must draw before playing")
	ErrAlreadyPlayed        = errors.New("already played this turn")
	ErrNoTiebreakPending    = errors.New("no tiebreak decision is pending")
	ErrTiebreakPending      = errors.New("awaiting tiebreak decisions")
	ErrTiebreakAlreadyVoted = errors.New("tiebreak decision already submitted")

	// Input errors
	ErrInvalidDistribution = errors.New("distribution does not describe a valid deck")
	ErrHandFull            = errors.New("hand is full")
	ErrDeckEmpty           = errors.New("deck is empty")
	ErrCardNotInHand       = errors.New("card reference is not in hand")
	ErrOpponentIsSelf      = errors.New("cannot invite yourself")

	// Concurrency errors
	ErrVersionConflict  = errors.New("match was modified concurrently")
	ErrConcurrentUpdate = errors.New("concurrent update retry budget exhausted")

	// Catalog errors
	ErrCatalogNotLoaded = errors.New("card catalog not loaded")
)
