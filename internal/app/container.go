// Package app wires the application container.
package app

import (
	"context"
	"fmt"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/infrastructure/ai"
	"github.com/doeshing/nlsh/internal/infrastructure/config"
	contextcollector "github.com/doeshing/nlsh/internal/infrastructure/context"
	"github.com/doeshing/nlsh/internal/infrastructure/executor"
	"github.com/doeshing/nlsh/internal/infrastructure/history"
	"github.com/doeshing/nlsh/internal/infrastructure/memory"
	"github.com/doeshing/nlsh/internal/infrastructure/security"
	"github.com/doeshing/nlsh/internal/infrastructure/session"
	"github.com/doeshing/nlsh/internal/pkg/logger"
	"github.com/doeshing/nlsh/internal/ports"
	"github.com/doeshing/nlsh/internal/services"
)

// Container wires the orchestrator with its infrastructure adapters.
type Container struct {
	Orchestrator   *services.Orchestrator
	ConfigProvider ports.ConfigProvider
	Session        ports.SessionManager
	HistoryStore   ports.HistoryStore
	Logger         *logger.StdLogger

	memoryStore  *memory.SQLiteStore
	historyStore *history.SQLiteStore
}

// BuildContainer constructs the dependency graph. A malformed safety rule
// set is fatal here; everything downstream assumes a valid classifier.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewStd(verbose)

	classifier, err := security.NewClassifier(cfg.Security.RulesFile)
	if err != nil {
		return nil, err
	}

	memoryStore, err := memory.NewSQLiteStore("")
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	historyStore, err := history.NewSQLiteStore("")
	if err != nil {
		memoryStore.Close()
		return nil, fmt.Errorf("open history store: %w", err)
	}

	sessionManager := session.NewManager(cfg.Preferences.HistoryCap, memoryStore)
	factory := ai.NewFactory()

	orchestrator := &services.Orchestrator{
		ConfigProvider: cfgLoader,
		Collector:      contextcollector.NewBasicCollector(),
		NewClient: func(model domain.ModelDefinition, thinking domain.ThinkingSettings) ports.AIClient {
			return ai.NewClient(factory, model, thinking, log)
		},
		Classifier: classifier,
		Runner:     executor.NewLocalRunner(cfg.Execution),
		Session:    sessionManager,
		History:    historyStore,
		Logger:     log,
	}

	return &Container{
		Orchestrator:   orchestrator,
		ConfigProvider: cfgLoader,
		Session:        sessionManager,
		HistoryStore:   historyStore,
		Logger:         log,
		memoryStore:    memoryStore,
		historyStore:   historyStore,
	}, nil
}

// Close releases the persistent stores.
func (c *Container) Close() error {
	var firstErr error
	if c.memoryStore != nil {
		firstErr = c.memoryStore.Close()
	}
	if c.historyStore != nil {
		if err := c.historyStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
