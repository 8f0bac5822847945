package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/doeshing/nlsh/internal/domain"
)

// heuristicProvider answers locally when no AI endpoint is configured. It
// speaks the same JSON envelope as the real providers so the client parses
// it identically.
type heuristicProvider struct {
	model domain.ModelDefinition
}

func newHeuristicProvider(model domain.ModelDefinition) provider {
	return &heuristicProvider{model: model}
}

func (p *heuristicProvider) Name() string {
	return "heuristic"
}

func (p *heuristicProvider) Generate(_ context.Context, messages []promptMessage) (string, error) {
	prompt := ""
	for _, msg := range messages {
		if strings.EqualFold(msg.Role, "user") {
			prompt = msg.Content
		}
	}

	env := envelope{Confidence: 0.3}
	if command := guessCommand(prompt); command != "" {
		env.Message = "Offline suggestion (no AI provider configured)."
		env.Commands = []string{command}
	} else {
		env.Message = "No AI provider is configured and the request did not match a known pattern. Set up a model in ~/.nlsh/config.yaml."
		env.NeedsClarification = true
	}

	body, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return "```json\n" + string(body) + "\n```", nil
}

func guessCommand(prompt string) string {
	prompt = strings.ToLower(prompt)
	switch {
	case strings.Contains(prompt, "docker"):
		return "docker ps"
	case strings.Contains(prompt, "git status"):
		return "git status"
	case strings.Contains(prompt, "disk") && (strings.Contains(prompt, "space") || strings.Contains(prompt, "usage")):
		return "df -h"
	case strings.Contains(prompt, "list") && strings.Contains(prompt, "file"):
		return "ls -la"
	case strings.Contains(prompt, "process"):
		return "ps aux"
	case strings.Contains(prompt, "kubernetes") || strings.Contains(prompt, "pod"):
		return "kubectl get pods"
	default:
		return ""
	}
}
