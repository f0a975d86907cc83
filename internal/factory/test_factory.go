package factory

import (
	"context"
	"time"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/mocks"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
	"github.com/rpsduel/rpsduel-go/internal/storage/memory"
	"github.com/rpsduel/rpsduel-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom,
		model.DefaultRulesConfig(), auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SeedCatalog loads the default card power catalog
func (t *TestApp) SeedCatalog() error {
	return t.CatalogService.LoadDefaults(context.Background(), model.DefaultRulesConfig())
}
