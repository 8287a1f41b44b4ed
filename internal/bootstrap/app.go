package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/assistant"
	"lighthouse-backend/internal/evidence"
	"lighthouse-backend/internal/llm"
	gemini "lighthouse-backend/internal/llm/gemini"
	openai "lighthouse-backend/internal/llm/openai"
	"lighthouse-backend/internal/shared/config"
	"lighthouse-backend/internal/shared/server"
	"lighthouse-backend/internal/shared/storage/db"
	"lighthouse-backend/internal/shared/storage/kv"
	localstore "lighthouse-backend/internal/shared/storage/object/local"
	"lighthouse-backend/internal/strategy"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	KV               *badger.DB
	StrategyRepo     strategy.Repo
	EvidenceRepo     evidence.EvidenceRepo
	Loader           *strategy.Loader
	Sessions         *strategy.Sessions
	LLM              llm.Client
	AssistantService *assistant.Service
	EvidenceService  *evidence.Service
	StrategyHandler  *strategy.Handler
	AssistantHandler *assistant.Handler
	EvidenceHandler  *evidence.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.StrategyStore) == "" {
		cfg.StrategyStore = "badger"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	if err := buildStrategyRepo(ctx, app); err != nil {
		return nil, err
	}

	var source strategy.Source = strategy.FixtureSource{}
	if cfg.FixtureBaseURL != "" {
		source = &strategy.HTTPSource{BaseURL: cfg.FixtureBaseURL}
	}

	app.Loader = &strategy.Loader{Repo: app.StrategyRepo, Source: source}
	app.Sessions = strategy.NewSessions(app.StrategyRepo)

	app.LLM = buildLLM(cfg)

	app.EvidenceRepo = evidence.NewMemoryRepo()
	app.EvidenceService = &evidence.Service{
		Store: localstore.New(cfg.LocalStoreDir),
		Repo:  app.EvidenceRepo,
	}

	app.AssistantService = &assistant.Service{
		LLM:  app.LLM,
		Repo: app.StrategyRepo,
	}

	app.StrategyHandler = strategy.NewHandler(app.Sessions, app.Loader, app.StrategyRepo)
	app.AssistantHandler = assistant.NewHandler(app.AssistantService)
	app.EvidenceHandler = evidence.NewHandler(app.EvidenceService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		StrategyHandler:  app.StrategyHandler,
		AssistantHandler: app.AssistantHandler,
		EvidenceHandler:  app.EvidenceHandler,
	})

	return app, nil
}

// Close releases the storage handles held by the app.
func (a *App) Close() error {
	var firstErr error
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildStrategyRepo(ctx context.Context, app *App) error {
	cfg := app.Config

	switch cfg.StrategyStore {
	case "postgres":
		sqlDB, err := connectPostgres(ctx, cfg)
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: %v; using in-memory strategy store", err)
				app.StrategyRepo = strategy.NewMemoryRepo()
				return nil
			}
			return err
		}
		app.DB = sqlDB
		app.StrategyRepo = &strategy.PGRepo{DB: sqlDB}
		return nil
	case "memory":
		app.StrategyRepo = strategy.NewMemoryRepo()
		return nil
	default:
		kvDB, err := kv.Open(cfg.BadgerDir)
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: badger open failed; using in-memory strategy store: %v", err)
				app.StrategyRepo = strategy.NewMemoryRepo()
				return nil
			}
			return err
		}
		app.KV = kvDB
		app.StrategyRepo = &strategy.BadgerRepo{DB: kvDB}
		return nil
	}
}

func connectPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return sqlDB, nil
}

func buildLLM(cfg config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("bootstrap: gemini client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("bootstrap: openai client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	default:
		return llm.PlaceholderClient{}
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
