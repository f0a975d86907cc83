package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/clock"
	"github.com/rpsduel/rpsduel-go/internal/dependencies/random"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/archive"
	"github.com/rpsduel/rpsduel-go/internal/services/audit"
	"github.com/rpsduel/rpsduel-go/internal/services/deck"
	"github.com/rpsduel/rpsduel-go/internal/services/rules"
	"github.com/rpsduel/rpsduel-go/internal/storage"
)

const (
	// MatchIDLength is the length of generated match ids
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match ids (avoid confusing chars)
	MatchIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// maxUpdateAttempts bounds the optimistic-concurrency retry loop
	maxUpdateAttempts = 5
)

// errNoChange signals that a mutation callback decided nothing needs writing.
// The update loop treats it as success with the state it already read.
var errNoChange = errors.New("no change")

// Controller owns the match state machine: every lifecycle transition runs
// through it as a guarded read-compute-write cycle against storage.
type Controller struct {
	storage   storage.Storage
	allocator *deck.Service
	archive   *archive.Service
	audit     audit.Sink
	clock     clock.Clock
	random    random.Random
	cfg       model.RulesConfig
	logger    *slog.Logger
}

// NewController creates a new match controller
func NewController(
	storage storage.Storage,
	allocator *deck.Service,
	archiveService *archive.Service,
	auditSink audit.Sink,
	clock clock.Clock,
	random random.Random,
	cfg model.RulesConfig,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		allocator: allocator,
		archive:   archiveService,
		audit:     auditSink,
		clock:     clock,
		random:    random,
		cfg:       cfg,
		logger:    logger,
	}
}

// Create starts a new match in pending status, inviting the registered
// player with the given username
func (c *Controller) Create(ctx context.Context, creator *model.Player, opponentUsername string) (*model.Match, error) {
	rp, err := c.storage.GetRegisteredPlayerByUsername(ctx, opponentUsername)
	if err != nil {
		return nil, err
	}
	if rp.PlayerID == creator.ID {
		return nil, model.ErrOpponentIsSelf
	}

	opponent, err := c.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique match id
	var id model.MatchID
	for {
		id = model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet))
		_, err := c.storage.GetMatch(ctx, id)
		if errors.Is(err, model.ErrMatchNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	match := &model.Match{
		ID:     id,
		Status: model.MatchStatusPending,
		Config: c.cfg,
		Slots: [2]model.PlayerSlot{
			{PlayerID: creator.ID, DisplayName: creator.DisplayName},
			{PlayerID: opponent.ID, DisplayName: opponent.DisplayName},
		},
		History:   []model.RoundRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.CreateMatch(ctx, match); err != nil {
		c.logger.Error("failed to create match",
			slog.String("match_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(id)),
		slog.String("creator", string(creator.ID)),
		slog.String("opponent", string(opponent.ID)),
	)

	c.emit(ctx, model.EventInvitationSent, id, creator.ID, model.InvitationSentPayload{
		CreatorID:  creator.ID,
		OpponentID: opponent.ID,
	})

	return match, nil
}

// Respond records the invited player's answer to a pending invitation.
// Accepting moves the match to deck selection; declining moves it to ignored.
func (c *Controller) Respond(ctx context.Context, id model.MatchID, responder model.PlayerID, accept bool) (*model.Match, error) {
	match, err := c.update(ctx, id, func(m *model.Match) error {
		if !m.IsParticipant(responder) {
			return model.ErrNotParticipant
		}
		if m.Opponent().PlayerID != responder {
			return model.ErrNotInvitee
		}
		if m.Status.IsTerminal() {
			return model.ErrMatchFinished
		}
		if m.Status != model.MatchStatusPending {
			return model.ErrMatchNotPending
		}

		if accept {
			m.Status = model.MatchStatusDeckSelection
		} else {
			m.Status = model.MatchStatusIgnored
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if accept {
		c.emit(ctx, model.EventInvitationAccepted, id, responder, nil)
	} else {
		c.emit(ctx, model.EventInvitationDeclined, id, responder, nil)
	}
	return match, nil
}

// SelectDeck allocates the player's deck and deals the initial hand. A nil
// distribution requests a random deck. When the second player confirms, the
// match becomes active at turn 1.
func (c *Controller) SelectDeck(ctx context.Context, id model.MatchID, playerID model.PlayerID, dist model.Distribution) (*model.Match, error) {
	started := false

	match, err := c.update(ctx, id, func(m *model.Match) error {
		started = false

		slot := m.Slot(playerID)
		if slot == nil {
			return model.ErrNotParticipant
		}
		if m.Status.IsTerminal() {
			return model.ErrMatchFinished
		}
		if m.Status != model.MatchStatusDeckSelection {
			return model.ErrMatchNotSelecting
		}
		if slot.DeckConfirmed {
			return model.ErrDeckAlreadyConfirmed
		}

		var (
			cards []model.Card
			err   error
		)
		if dist == nil {
			cards, err = c.allocator.RandomDeck(ctx, m.Config.DeckSize)
		} else {
			cards, err = c.allocator.BuildDeck(ctx, dist, m.Config.DeckSize)
		}
		if err != nil {
			return err
		}

		slot.Hand, slot.Deck = c.allocator.DealInitialHand(cards, m.Config.InitialHandSize)
		slot.DeckConfirmed = true

		if m.BothConfirmed() {
			m.Status = model.MatchStatusActive
			m.Turn = 1
			for i := range m.Slots {
				m.Slots[i].HasDrawn = false
				m.Slots[i].HasPlayed = false
			}
			started = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.emit(ctx, model.EventDeckSelected, id, playerID, model.DeckSelectedPayload{
		PlayerID: playerID,
		Random:   dist == nil,
	})
	if started {
		c.logger.Info("match started", slog.String("match_id", string(id)))
		c.emit(ctx, model.EventMatchStarted, id, playerID, nil)
	}
	return match, nil
}

// Draw moves the top card of the player's deck into their hand. At most one
// draw per player per turn.
func (c *Controller) Draw(ctx context.Context, id model.MatchID, playerID model.PlayerID) (*model.Match, error) {
	return c.update(ctx, id, func(m *model.Match) error {
		slot := m.Slot(playerID)
		if slot == nil {
			return model.ErrNotParticipant
		}
		if err := activeGuard(m); err != nil {
			return err
		}
		if slot.HasDrawn {
			return model.ErrAlreadyDrawn
		}
		if len(slot.Hand) >= m.Config.MaxHandSize {
			return model.ErrHandFull
		}
		if len(slot.Deck) == 0 {
			return model.ErrDeckEmpty
		}

		slot.Hand = append(slot.Hand, slot.Deck[0])
		slot.Deck = slot.Deck[1:]
		slot.HasDrawn = true
		return nil
	})
}

// PlayCard moves the referenced hand card into the player's played slot.
// When the play completes the pair, the round resolves in the same write.
func (c *Controller) PlayCard(ctx context.Context, id model.MatchID, playerID model.PlayerID, handIndex int) (*model.Match, error) {
	var result roundResult

	match, err := c.update(ctx, id, func(m *model.Match) error {
		result = roundResult{}

		slot := m.Slot(playerID)
		if slot == nil {
			return model.ErrNotParticipant
		}
		if err := activeGuard(m); err != nil {
			return err
		}
		if !slot.HasDrawn {
			return model.ErrNotDrawnYet
		}
		if slot.HasPlayed {
			return model.ErrAlreadyPlayed
		}
		if handIndex < 0 || handIndex >= len(slot.Hand) {
			return model.ErrCardNotInHand
		}

		card := slot.Hand[handIndex]
		slot.Hand = append(slot.Hand[:handIndex], slot.Hand[handIndex+1:]...)
		slot.Played = &card
		slot.HasPlayed = true

		if m.BothPlayed() {
			result = c.resolveRound(m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterResolution(ctx, match, playerID, result)
	return match, nil
}

// ResolveRound resolves the current round once both players have played.
// Within a live match it is idempotent: with nothing pending it is a no-op
// returning current state, so duplicate client polls are harmless. A
// finished match fails fast like every other mutation.
func (c *Controller) ResolveRound(ctx context.Context, id model.MatchID, requester model.PlayerID) (*model.Match, error) {
	var result roundResult

	match, err := c.update(ctx, id, func(m *model.Match) error {
		result = roundResult{}

		if !m.IsParticipant(requester) {
			return model.ErrNotParticipant
		}
		if m.Status.IsTerminal() {
			return model.ErrMatchFinished
		}
		if m.Status != model.MatchStatusActive || m.AwaitingTiebreak || !m.BothPlayed() {
			return errNoChange
		}

		result = c.resolveRound(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterResolution(ctx, match, requester, result)
	return match, nil
}

// SubmitTiebreak records a player's tiebreak decision. Once both are in:
// two yeses deal one forced deciding round from the decks; any no completes
// the match as a tie.
func (c *Controller) SubmitTiebreak(ctx context.Context, id model.MatchID, playerID model.PlayerID, accept bool) (*model.Match, error) {
	var result roundResult

	match, err := c.update(ctx, id, func(m *model.Match) error {
		result = roundResult{}

		slot := m.Slot(playerID)
		if slot == nil {
			return model.ErrNotParticipant
		}
		if m.Status.IsTerminal() {
			return model.ErrMatchFinished
		}
		if !m.AwaitingTiebreak {
			return model.ErrNoTiebreakPending
		}
		if slot.TiebreakVote != nil {
			return model.ErrTiebreakAlreadyVoted
		}

		vote := accept
		slot.TiebreakVote = &vote

		creatorVote := m.Creator().TiebreakVote
		opponentVote := m.Opponent().TiebreakVote
		if creatorVote == nil || opponentVote == nil {
			return nil
		}

		if *creatorVote && *opponentVote {
			result = c.resolveTiebreakRound(m)
		} else {
			m.AwaitingTiebreak = false
			c.complete(m, "")
			result.completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterResolution(ctx, match, playerID, result)
	return match, nil
}

// End terminates the match. The creator cancelling a pending invitation
// removes the record; any other non-terminal case becomes abandoned, with
// the non-requesting participant the implicit winner of an active match.
func (c *Controller) End(ctx context.Context, id model.MatchID, requester model.PlayerID) (*model.Match, error) {
	cancelled, err := c.cancelPending(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if cancelled {
		c.logger.Info("match cancelled", slog.String("match_id", string(id)))
		c.emit(ctx, model.EventMatchCancelled, id, requester, nil)
		return nil, nil
	}

	var winner model.PlayerID
	match, err := c.update(ctx, id, func(m *model.Match) error {
		winner = ""
		if m.Status.IsTerminal() {
			return model.ErrMatchFinished
		}
		if m.Status == model.MatchStatusActive {
			winner = m.OpponentSlot(requester).PlayerID
		}
		m.Status = model.MatchStatusAbandoned
		m.Winner = winner
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("match abandoned",
		slog.String("match_id", string(id)),
		slog.String("quitter", string(requester)),
	)
	c.emit(ctx, model.EventMatchAbandoned, id, requester, model.MatchAbandonedPayload{
		QuitterID: requester,
		WinnerID:  winner,
	})
	return match, nil
}

// cancelPending removes a pending invitation when the requester created it.
// The delete is conditional on the version read, so an invitee's accept
// racing the cancel forces a re-read instead of removing a match that
// already moved on.
func (c *Controller) cancelPending(ctx context.Context, id model.MatchID, requester model.PlayerID) (bool, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := c.storage.GetMatch(ctx, id)
		if err != nil {
			return false, err
		}
		if !current.IsParticipant(requester) {
			return false, model.ErrNotParticipant
		}
		if current.Status != model.MatchStatusPending || current.Creator().PlayerID != requester {
			return false, nil
		}

		err = c.storage.DeleteMatch(ctx, id, current.Version)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return false, err
		}
	}

	c.logger.Warn("match cancel retry budget exhausted", slog.String("match_id", string(id)))
	return false, model.ErrConcurrentUpdate
}

// GetState returns a snapshot of the match for a participant. The caller is
// responsible for projecting away the opponent's hidden information.
func (c *Controller) GetState(ctx context.Context, id model.MatchID, requester model.PlayerID) (*model.Match, error) {
	match, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(requester) {
		return nil, model.ErrNotParticipant
	}
	return match, nil
}

// List returns all matches the player participates in
func (c *Controller) List(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	return c.storage.GetMatchesForPlayer(ctx, playerID)
}

// roundResult captures what a mutation callback resolved, for post-write
// side effects. Reset at the top of every retry attempt.
type roundResult struct {
	resolved  bool
	turn      int
	winner    model.PlayerID
	tiebreak  bool
	completed bool
}

// resolveRound applies the round resolver to the pair of played cards,
// updates scores, appends the history record, resets the per-turn state and
// advances the turn counter. Past the turn cap it either completes the match
// or raises the tiebreak question.
func (c *Controller) resolveRound(m *model.Match) roundResult {
	creator := m.Creator()
	opponent := m.Opponent()

	outcome := rules.Resolve(*creator.Played, *opponent.Played)

	var winner model.PlayerID
	switch outcome {
	case rules.OutcomeFirstWins:
		creator.Score += m.Config.PointsPerWin
		winner = creator.PlayerID
	case rules.OutcomeSecondWins:
		opponent.Score += m.Config.PointsPerWin
		winner = opponent.PlayerID
	}

	m.History = append(m.History, model.RoundRecord{
		Turn: m.Turn,
		Cards: map[model.PlayerID]model.Card{
			creator.PlayerID:  *creator.Played,
			opponent.PlayerID: *opponent.Played,
		},
		Winner: winner,
		Scores: map[model.PlayerID]int{
			creator.PlayerID:  creator.Score,
			opponent.PlayerID: opponent.Score,
		},
	})

	result := roundResult{resolved: true, turn: m.Turn, winner: winner}

	for i := range m.Slots {
		m.Slots[i].Played = nil
		m.Slots[i].HasDrawn = false
		m.Slots[i].HasPlayed = false
	}
	m.Turn++

	if m.Turn > m.Config.TurnCap {
		if creator.Score != opponent.Score {
			matchWinner := creator.PlayerID
			if opponent.Score > creator.Score {
				matchWinner = opponent.PlayerID
			}
			c.complete(m, matchWinner)
			result.completed = true
		} else {
			m.AwaitingTiebreak = true
		}
	}

	return result
}

// resolveTiebreakRound deals one forced deciding round from each player's
// next deck card, bypassing the normal draw/play flow, and completes the
// match. A tied deciding round leaves the match a tie, as does an empty
// deck that makes the forced deal impossible.
func (c *Controller) resolveTiebreakRound(m *model.Match) roundResult {
	m.AwaitingTiebreak = false

	creator := m.Creator()
	opponent := m.Opponent()

	if len(creator.Deck) == 0 || len(opponent.Deck) == 0 {
		c.complete(m, "")
		return roundResult{completed: true, tiebreak: true}
	}

	for i := range m.Slots {
		slot := &m.Slots[i]
		card := slot.Deck[0]
		slot.Deck = slot.Deck[1:]
		slot.Played = &card
		slot.HasPlayed = true
	}

	result := c.resolveRound(m)
	result.tiebreak = true

	// resolveRound saw equal pre-round scores and raised the tiebreak
	// question again if the deciding round also tied; a tiebreak tie is
	// final instead.
	if !result.completed {
		m.AwaitingTiebreak = false
		c.complete(m, "")
		result.completed = true
	}

	if i := len(m.History) - 1; i >= 0 {
		m.History[i].Tiebreak = true
	}
	return result
}

// complete moves the match to its terminal completed status. An empty
// winner marks a tie.
func (c *Controller) complete(m *model.Match, winner model.PlayerID) {
	m.Status = model.MatchStatusCompleted
	m.Winner = winner
}

// afterResolution performs the post-write side effects of a resolved round:
// audit events and, on completion, the fire-and-forget archive emission.
func (c *Controller) afterResolution(ctx context.Context, m *model.Match, actor model.PlayerID, result roundResult) {
	if result.resolved {
		c.emit(ctx, model.EventRoundResolved, m.ID, actor, model.RoundResolvedPayload{
			Turn:     result.turn,
			Winner:   result.winner,
			Tiebreak: result.tiebreak,
		})
	}
	if m.AwaitingTiebreak && result.resolved {
		c.emit(ctx, model.EventTiebreakRequested, m.ID, actor, nil)
	}
	if result.completed {
		c.logger.Info("match completed",
			slog.String("match_id", string(m.ID)),
			slog.String("winner", string(m.Winner)),
			slog.Int("turns", len(m.History)),
		)
		c.emit(ctx, model.EventMatchCompleted, m.ID, actor, model.MatchCompletedPayload{
			Winner: m.Winner,
			FinalScores: map[model.PlayerID]int{
				m.Creator().PlayerID:  m.Creator().Score,
				m.Opponent().PlayerID: m.Opponent().Score,
			},
			Turns: len(m.History),
		})
		c.archive.Record(ctx, m)
	}
}

// update runs one mutating operation as a bounded optimistic-concurrency
// cycle: read, mutate in memory, conditionally write, retry on conflict.
// fn must be safe to re-run against freshly read state.
func (c *Controller) update(ctx context.Context, id model.MatchID, fn func(*model.Match) error) (*model.Match, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		m, err := c.storage.GetMatch(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(m); err != nil {
			if errors.Is(err, errNoChange) {
				return m, nil
			}
			return nil, err
		}

		m.UpdatedAt = c.clock.Now()
		err = c.storage.UpdateMatch(ctx, m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
	}

	c.logger.Warn("match update retry budget exhausted", slog.String("match_id", string(id)))
	return nil, model.ErrConcurrentUpdate
}

// activeGuard checks that turn actions (draw/play) are currently legal
func activeGuard(m *model.Match) error {
	if m.Status.IsTerminal() {
		return model.ErrMatchFinished
	}
	if m.Status != model.MatchStatusActive {
		return model.ErrMatchNotActive
	}
	if m.AwaitingTiebreak {
		return model.ErrTiebreakPending
	}
	return nil
}

func (c *Controller) emit(ctx context.Context, eventType model.EventType, id model.MatchID, playerID model.PlayerID, payload any) {
	c.audit.Emit(ctx, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		MatchID:   id,
		PlayerID:  playerID,
		Payload:   payload,
	})
}
