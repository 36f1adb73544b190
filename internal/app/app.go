// Package app wires configuration, storage, clients, and services into
// a single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tejaspatil1175/finora/internal/clients/alphavantage"
	"github.com/Tejaspatil1175/finora/internal/clients/duckduckgo"
	"github.com/Tejaspatil1175/finora/internal/clients/gemini"
	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/services/analysis"
	"github.com/Tejaspatil1175/finora/internal/services/chat"
	"github.com/Tejaspatil1175/finora/internal/services/company"
	"github.com/Tejaspatil1175/finora/internal/services/document"
	"github.com/Tejaspatil1175/finora/internal/services/market"
	"github.com/Tejaspatil1175/finora/internal/services/portfolio"
	"github.com/Tejaspatil1175/finora/internal/services/user"
	"github.com/Tejaspatil1175/finora/internal/storage"
)

// sessionReapInterval is how often idle chat sessions are swept.
const sessionReapInterval = time.Hour

// App holds all initialized clients and services. It is the shared core
// used by cmd/finora-server and the HTTP handlers.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	MarketDataClient interfaces.MarketDataClient
	LLMClient        interfaces.LLMClient
	SearchClient     interfaces.WebSearchClient

	CompanyService   interfaces.CompanyService
	AnalysisService  interfaces.AnalysisService
	ChatService      interfaces.ChatService
	DocumentService  interfaces.DocumentService
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	UserService      interfaces.UserService

	StartupTime time.Time

	documents    *document.Service
	reaperCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Check provided path, FINORA_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FINORA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finora.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finora.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Documents.UploadDir != "" && !filepath.IsAbs(config.Documents.UploadDir) {
		config.Documents.UploadDir = filepath.Join(binDir, config.Documents.UploadDir)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	// Resolve API keys
	alphaKey, err := common.ResolveAPIKey("alphavantage_api_key", config.Clients.AlphaVantage.APIKey)
	if err != nil {
		logger.Warn().Msg("Alpha Vantage API key not configured - market data will be unavailable")
	}

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will be unavailable")
	}

	// Initialize API clients
	var marketDataClient interfaces.MarketDataClient
	if alphaKey != "" {
		marketDataClient = alphavantage.NewClient(alphaKey,
			alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
			alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
			alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
			alphavantage.WithLogger(logger),
		)
	}

	var llmClient interfaces.LLMClient
	if geminiKey != "" {
		geminiClient, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithTemperature(float32(config.Clients.Gemini.Temperature)),
			gemini.WithMaxTokens(int32(config.Clients.Gemini.MaxTokens)),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			llmClient = geminiClient
		}
	}

	searchClient := duckduckgo.NewClient(
		duckduckgo.WithBaseURL(config.Clients.Search.BaseURL),
		duckduckgo.WithTimeout(config.Clients.Search.GetTimeout()),
		duckduckgo.WithLogger(logger),
	)

	// Initialize services
	companyService := company.NewService(storageManager, marketDataClient, config.Cache.CompanyTTL(), logger)
	analysisService := analysis.NewService(storageManager, companyService, llmClient, config.Cache.AnalysisTTL(), logger)
	marketService := market.NewService(storageManager, marketDataClient, config.Cache.MoversTTL(), logger)
	portfolioService := portfolio.NewService(storageManager, logger)
	chatService := chat.NewService(storageManager, portfolioService, llmClient, searchClient, logger)
	documentService := document.NewService(storageManager, llmClient, config.Documents.UploadDir, config.Documents.GetWorkers(), logger)
	userService := user.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketDataClient: marketDataClient,
		LLMClient:        llmClient,
		SearchClient:     searchClient,
		CompanyService:   companyService,
		AnalysisService:  analysisService,
		ChatService:      chatService,
		DocumentService:  documentService,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		UserService:      userService,
		StartupTime:      startupStart,
		documents:        documentService,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartDocumentPipeline launches the background document workers and
// recovers documents orphaned in-flight by a previous shutdown.
func (a *App) StartDocumentPipeline(ctx context.Context) error {
	return a.documents.Start(ctx)
}

// StartSessionReaper launches the background goroutine that deletes chat
// sessions idle past the session expiry window.
func (a *App) StartSessionReaper() {
	ctx, cancel := context.WithCancel(context.Background())
	a.reaperCancel = cancel
	go a.runSessionReaper(ctx)
}

func (a *App) runSessionReaper(ctx context.Context) {
	ticker := time.NewTicker(sessionReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-common.SessionExpiry)
			deleted, err := a.Storage.Chats().DeleteIdleBefore(ctx, cutoff)
			if err != nil {
				a.Logger.Warn().Err(err).Msg("Session reaper sweep failed")
				continue
			}
			if deleted > 0 {
				a.Logger.Info().Int("deleted", deleted).Msg("Reaped idle chat sessions")
			}
		}
	}
}

// Close releases all resources held by the App. Shutdown order: stop the
// reaper, drain the document workers, close storage.
func (a *App) Close() {
	if a.reaperCancel != nil {
		a.reaperCancel()
		a.reaperCancel = nil
	}
	if a.documents != nil {
		a.documents.Stop()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
