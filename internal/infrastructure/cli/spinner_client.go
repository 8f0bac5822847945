package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/ports"
	"github.com/doeshing/nlsh/internal/services"
)

// withSpinner decorates the AI client factory so every provider call shows a
// spinner on stderr. Skipped when stderr is not a terminal, so piped or
// scripted runs stay clean.
func withSpinner(factory services.ClientFactory) services.ClientFactory {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return factory
	}
	return func(model domain.ModelDefinition, thinking domain.ThinkingSettings) ports.AIClient {
		return &spinnerClient{inner: factory(model, thinking)}
	}
}

type spinnerClient struct {
	inner ports.AIClient
}

func (c *spinnerClient) ProposeCommand(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error) {
	defer spin()()
	return c.inner.ProposeCommand(ctx, request, snapshot, history, memory)
}

func (c *spinnerClient) ProposeExploration(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) ([]string, error) {
	defer spin()()
	return c.inner.ProposeExploration(ctx, request, snapshot, history, memory)
}

func (c *spinnerClient) Analyze(ctx context.Context, request string, snapshot domain.ContextSnapshot, results []domain.ExecutionResult, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error) {
	defer spin()()
	return c.inner.Analyze(ctx, request, snapshot, results, history, memory)
}

func spin() func() {
	s := NewSpinner(os.Stderr)
	s.Start()
	return s.Stop
}

var _ ports.AIClient = (*spinnerClient)(nil)
