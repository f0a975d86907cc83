package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
)

func writeAndDecode(t *testing.T, err error) (int, APIError) {
	t.Helper()

	rec := httptest.NewRecorder()
	WriteError(rec, err)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body.Error
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"player not found", model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"match not found", model.ErrMatchNotFound, http.StatusNotFound, CodeMatchNotFound},
		{"not participant", model.ErrNotParticipant, http.StatusForbidden, CodeNotParticipant},
		{"match not active", model.ErrMatchNotActive, http.StatusConflict, CodeInvalidState},
		{"already drawn", model.ErrAlreadyDrawn, http.StatusConflict, CodeAlreadyDrawn},
		{"invalid distribution", model.ErrInvalidDistribution, http.StatusBadRequest, CodeInvalidDistribution},
		{"hand full", model.ErrHandFull, http.StatusBadRequest, CodeHandFull},
		{"deck empty", model.ErrDeckEmpty, http.StatusBadRequest, CodeDeckEmpty},
		{"card not in hand", model.ErrCardNotInHand, http.StatusBadRequest, CodeCardNotInHand},
		{"opponent is self", model.ErrOpponentIsSelf, http.StatusBadRequest, CodeOpponentIsSelf},
		{"concurrent update", model.ErrConcurrentUpdate, http.StatusConflict, CodeConcurrentUpdate},
		{"version conflict", model.ErrVersionConflict, http.StatusConflict, CodeConcurrentUpdate},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := writeAndDecode(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestWriteErrorUnwrapsSentinels(t *testing.T) {
	status, apiErr := writeAndDecode(t, fmt.Errorf("draw: %w", model.ErrHandFull))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeHandFull, apiErr.Code)
}

func TestWriteErrorSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.ErrMatchNotFound)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
