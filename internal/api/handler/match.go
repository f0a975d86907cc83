package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rpsduel/rpsduel-go/internal/api/middleware"
	"github.com/rpsduel/rpsduel-go/internal/api/request"
	"github.com/rpsduel/rpsduel-go/internal/api/response"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/match"
)

// MatchHandler handles match-related endpoints
type MatchHandler struct {
	controller *match.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *match.Controller) *MatchHandler {
	return &MatchHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.OpponentUsername == "" {
		WriteError(w, NewInvalidRequestError("opponent_username is required"))
		return
	}

	m, err := h.controller.Create(r.Context(), player, req.OpponentUsername)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchStateFromModel(m, player.ID))
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	matches, err := h.controller.List(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchListFromModel(matches, player.ID))
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.GetState(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// Respond handles POST /api/v1/matches/{id}/respond
func (h *MatchHandler) Respond(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	var req request.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.controller.Respond(r.Context(), id, player.ID, req.Accept)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// SelectDeck handles POST /api/v1/matches/{id}/deck
func (h *MatchHandler) SelectDeck(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	var req request.SelectDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var dist model.Distribution
	if len(req.Distribution) > 0 {
		dist = make(model.Distribution, len(req.Distribution))
		for t, n := range req.Distribution {
			dist[model.CardType(t)] = n
		}
	}

	m, err := h.controller.SelectDeck(r.Context(), id, player.ID, dist)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// Draw handles POST /api/v1/matches/{id}/draw
func (h *MatchHandler) Draw(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.Draw(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// Play handles POST /api/v1/matches/{id}/play
func (h *MatchHandler) Play(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	var req request.PlayCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.HandIndex < 0 {
		WriteError(w, NewInvalidRequestError("hand_index must not be negative"))
		return
	}

	m, err := h.controller.PlayCard(r.Context(), id, player.ID, req.HandIndex)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// Resolve handles POST /api/v1/matches/{id}/resolve
func (h *MatchHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.ResolveRound(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// Tiebreak handles POST /api/v1/matches/{id}/tiebreak
func (h *MatchHandler) Tiebreak(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	var req request.TiebreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.controller.SubmitTiebreak(r.Context(), id, player.ID, req.Accept)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}

// End handles DELETE /api/v1/matches/{id}
// Cancels a pending invitation or forfeits a running match.
func (h *MatchHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.End(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Cancelled invitations are deleted outright
	if m == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStateFromModel(m, player.ID))
}
