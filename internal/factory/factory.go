package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/rpsduel/rpsduel-go/internal/dependencies/clock"
	"github.com/rpsduel/rpsduel-go/internal/dependencies/random"
	"github.com/rpsduel/rpsduel-go/internal/model"
	"github.com/rpsduel/rpsduel-go/internal/services/archive"
	"github.com/rpsduel/rpsduel-go/internal/services/audit"
	"github.com/rpsduel/rpsduel-go/internal/services/auth"
	"github.com/rpsduel/rpsduel-go/internal/services/catalog"
	"github.com/rpsduel/rpsduel-go/internal/services/deck"
	"github.com/rpsduel/rpsduel-go/internal/services/match"
	"github.com/rpsduel/rpsduel-go/internal/storage"
	"github.com/rpsduel/rpsduel-go/internal/storage/memory"
	redisstorage "github.com/rpsduel/rpsduel-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CatalogService  *catalog.Service
	DeckService     *deck.Service
	ArchiveService  *archive.Service
	AuditSink       audit.Sink
	MatchController *match.Controller
	AuthService     *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Rules holds the rules matches are created with (optional)
	// If zero value, defaults to model.DefaultRulesConfig()
	Rules model.RulesConfig
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	rulesCfg := cfg.Rules
	if rulesCfg == (model.RulesConfig{}) {
		rulesCfg = model.DefaultRulesConfig()
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, rulesCfg, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	rulesCfg model.RulesConfig,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	catalogService := catalog.New(store, rnd, logger)
	deckService := deck.New(catalogService, rnd)
	archiveService := archive.New(store, clk, logger)
	auditSink := audit.NewLogSink(logger)
	matchController := match.NewController(store, deckService, archiveService, auditSink, clk, rnd, rulesCfg, logger)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		CatalogService:  catalogService,
		DeckService:     deckService,
		ArchiveService:  archiveService,
		AuditSink:       auditSink,
		MatchController: matchController,
		AuthService:     authService,
	}
}
