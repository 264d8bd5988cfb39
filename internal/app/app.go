// Package app wires configuration, clients, storage, and services into one
// application instance for the CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/sanketp/holdwatch/internal/clients/gemini"
	"github.com/sanketp/holdwatch/internal/clients/kite"
	"github.com/sanketp/holdwatch/internal/clients/whatsapp"
	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/companies"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/services/analysis"
	"github.com/sanketp/holdwatch/internal/services/holdings"
	"github.com/sanketp/holdwatch/internal/storage"
)

// App holds the wired application.
type App struct {
	Config   *common.Config
	Logger   *common.Logger
	Storage  *storage.Manager
	Holdings interfaces.HoldingsService
	Analysis interfaces.AnalysisService

	// Kite is the first account's client, used by the login command.
	Kite *kite.Client
}

// New loads configuration and wires every component. configPath may be empty,
// in which case HOLDWATCH_CONFIG and then ./holdwatch.toml are tried.
func New(ctx context.Context, configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("HOLDWATCH_CONFIG")
	}

	cfg, err := common.LoadConfig(configPath, "holdwatch.toml")
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	var catalog *companies.Catalog
	if path := cfg.Companies.CatalogPath; path != "" {
		catalog, err = companies.Load(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("company catalog unavailable, names will not be enriched")
			catalog = nil
		} else {
			logger.Debug().Int("companies", catalog.Size()).Msg("loaded company catalog")
		}
	}

	store, err := storage.NewManager(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	brokers, firstKite, err := buildKiteClients(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	var llm interfaces.LLMClient
	if cfg.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.Clients.Gemini.APIKey,
			gemini.WithModel(cfg.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		llm = client
	}

	var notifier interfaces.Notifier
	if wa := cfg.Clients.WhatsApp; wa.Token != "" && wa.PhoneID != "" {
		client, err := whatsapp.NewClient(wa.Token, wa.PhoneID, wa.Recipient,
			whatsapp.WithBaseURL(wa.BaseURL),
			whatsapp.WithTemplate(wa.UseTemplate, wa.TemplateName, wa.LanguageCode),
			whatsapp.WithLogger(logger),
		)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize WhatsApp client: %w", err)
		}
		notifier = client
	}

	holdingsSvc := holdings.NewService(brokers, catalog, store, logger)
	analysisSvc := analysis.NewService(holdingsSvc, llm, notifier, cfg.Thresholds.Policy(), logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  store,
		Holdings: holdingsSvc,
		Analysis: analysisSvc,
		Kite:     firstKite,
	}, nil
}

func buildKiteClients(cfg *common.Config, logger *common.Logger) ([]interfaces.BrokerClient, *kite.Client, error) {
	kc := cfg.Clients.Kite
	if kc.APIKeys == "" {
		return nil, nil, nil
	}

	creds, err := kite.SplitCredentials(kc.APIKeys, kc.AccessTokens)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid Kite credentials: %w", err)
	}

	var brokers []interfaces.BrokerClient
	var first *kite.Client
	for i, cred := range creds {
		client := kite.NewClient(cred[0], cred[1],
			kite.WithBaseURL(kc.BaseURL),
			kite.WithRateLimit(kc.RateLimit),
			kite.WithTimeout(kc.GetTimeout()),
			kite.WithAccountLabel(fmt.Sprintf("account-%d", i+1)),
			kite.WithLogger(logger),
		)
		if first == nil {
			first = client
		}
		brokers = append(brokers, client)
	}
	return brokers, first, nil
}

// Close releases storage resources.
func (a *App) Close() error {
	return a.Storage.Close()
}
