package handler

import (
	"net/http"
	"strconv"

	"github.com/rpsduel/rpsduel-go/internal/api/response"
	"github.com/rpsduel/rpsduel-go/internal/services/archive"
)

// LeaderboardHandler handles the wins leaderboard endpoint
type LeaderboardHandler struct {
	archiveService *archive.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(archiveService *archive.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		archiveService: archiveService,
	}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.archiveService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}
