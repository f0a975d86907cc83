package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsduel/rpsduel-go/internal/model"
)

func TestNewWithMemoryStorage(t *testing.T) {
	app, err := New(Config{StorageType: StorageTypeMemory})
	require.NoError(t, err)

	assert.NotNil(t, app.Storage)
	assert.NotNil(t, app.CatalogService)
	assert.NotNil(t, app.DeckService)
	assert.NotNil(t, app.ArchiveService)
	assert.NotNil(t, app.AuditSink)
	assert.NotNil(t, app.MatchController)
	assert.NotNil(t, app.AuthService)
}

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, app.Storage)
}

func TestNewRejectsRedisWithoutConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.Error(t, err)
}

// TestFullMatchThroughWiredApp plays a complete match against the factory
// wiring to catch drift between the factory and the services it assembles.
func TestFullMatchThroughWiredApp(t *testing.T) {
	ctx := context.Background()
	app := NewTestApp()
	require.NoError(t, app.SeedCatalog())

	aliceSession, err := app.AuthService.RegisterPlayer(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)
	_, err = app.AuthService.RegisterPlayer(ctx, "bob", "password123", "Bob")
	require.NoError(t, err)

	bobRegistered, err := app.Storage.GetRegisteredPlayerByUsername(ctx, "bob")
	require.NoError(t, err)
	bobID := bobRegistered.PlayerID

	app.MockRandom.QueueString("MATCHFACTORY1")
	m, err := app.MatchController.Create(ctx, &aliceSession.Player, "bob")
	require.NoError(t, err)

	_, err = app.MatchController.Respond(ctx, m.ID, bobID, true)
	require.NoError(t, err)

	_, err = app.MatchController.SelectDeck(ctx, m.ID, aliceSession.PlayerID,
		model.Distribution{model.CardRock: 22})
	require.NoError(t, err)
	m, err = app.MatchController.SelectDeck(ctx, m.ID, bobID,
		model.Distribution{model.CardScissors: 22})
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusActive, m.Status)

	for turn := 0; turn < 7; turn++ {
		_, err = app.MatchController.Draw(ctx, m.ID, aliceSession.PlayerID)
		require.NoError(t, err)
		_, err = app.MatchController.Draw(ctx, m.ID, bobID)
		require.NoError(t, err)
		_, err = app.MatchController.PlayCard(ctx, m.ID, aliceSession.PlayerID, 0)
		require.NoError(t, err)
		m, err = app.MatchController.PlayCard(ctx, m.ID, bobID, 0)
		require.NoError(t, err)
	}

	assert.Equal(t, model.MatchStatusCompleted, m.Status)
	assert.Equal(t, aliceSession.PlayerID, m.Winner)

	// Completion flowed through to the archive
	summaries, err := app.ArchiveService.HistoryForPlayer(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, m.ID, summaries[0].MatchID)

	board, err := app.ArchiveService.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, aliceSession.PlayerID, board[0].PlayerID)
}
