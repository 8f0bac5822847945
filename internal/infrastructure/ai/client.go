package ai

import (
	"context"
	"fmt"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/ports"
)

// Client implements ports.AIClient on top of a provider resolved from the
// configured model definition.
type Client struct {
	provider       provider
	explorationCap int
	resultCap      int
	logger         ports.Logger
}

// NewClient resolves a provider for the model and binds the thinking limits.
func NewClient(factory *Factory, model domain.ModelDefinition, thinking domain.ThinkingSettings, logger ports.Logger) *Client {
	return &Client{
		provider:       factory.ForModel(model),
		explorationCap: thinking.ExplorationCap,
		resultCap:      thinking.ResultCapBytes,
		logger:         logger,
	}
}

// ProviderName reports which provider backs this client.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// ProposeCommand implements ports.AIClient.
func (c *Client) ProposeCommand(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error) {
	data := buildTemplateData(request, snapshot, history, memory)
	messages, err := proposeMessages(data)
	if err != nil {
		return domain.AIResponse{}, err
	}
	return c.generate(ctx, "propose", messages)
}

// ProposeExploration implements ports.AIClient. The returned list is already
// trimmed to the configured cap.
func (c *Client) ProposeExploration(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) ([]string, error) {
	data := buildTemplateData(request, snapshot, history, memory)
	messages, err := explorationMessages(data, c.explorationCap)
	if err != nil {
		return nil, err
	}
	response, err := c.generate(ctx, "explore", messages)
	if err != nil {
		return nil, err
	}
	commands := response.ExplorationCommands
	// Some models put diagnostics in "commands" despite the instruction.
	if len(commands) == 0 {
		commands = response.Commands
	}
	if c.explorationCap > 0 && len(commands) > c.explorationCap {
		commands = commands[:c.explorationCap]
	}
	return commands, nil
}

// Analyze implements ports.AIClient.
func (c *Client) Analyze(ctx context.Context, request string, snapshot domain.ContextSnapshot, results []domain.ExecutionResult, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error) {
	data := buildTemplateData(request, snapshot, history, memory)
	messages, err := analysisMessages(data, results, c.resultCap)
	if err != nil {
		return domain.AIResponse{}, err
	}
	return c.generate(ctx, "analyze", messages)
}

func (c *Client) generate(ctx context.Context, operation string, messages []promptMessage) (domain.AIResponse, error) {
	content, err := c.provider.Generate(ctx, messages)
	if err != nil {
		return domain.AIResponse{}, fmt.Errorf("%s (%s): %w", operation, c.provider.Name(), err)
	}
	response := parseEnvelope(content)
	if c.logger != nil {
		c.logger.Debug("ai response", map[string]interface{}{
			"operation": operation,
			"provider":  c.provider.Name(),
			"commands":  len(response.Commands),
		})
	}
	return response, nil
}

var _ ports.AIClient = (*Client)(nil)
