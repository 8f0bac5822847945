package ai

import (
	"encoding/json"
	"strings"

	"github.com/doeshing/nlsh/internal/domain"
)

// envelope mirrors the JSON contract the prompts ask providers to follow.
type envelope struct {
	Message             string   `json:"message"`
	Commands            []string `json:"commands"`
	ExplorationCommands []string `json:"exploration_commands"`
	NeedsClarification  bool     `json:"needs_clarification"`
	ThinkingMode        bool     `json:"thinking_mode"`
	Confidence          float64  `json:"confidence"`
}

// parseEnvelope extracts the JSON envelope from raw model output. Providers
// usually wrap it in a ```json fence, but bare JSON and JSON embedded in
// surrounding prose are accepted too. When no envelope can be found the
// whole reply becomes the message, so a chatty model degrades to a
// clarification rather than an error.
func parseEnvelope(content string) domain.AIResponse {
	raw := extractJSON(content)
	if raw != "" {
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err == nil {
			return domain.AIResponse{
				Message:             strings.TrimSpace(env.Message),
				Commands:            trimAll(env.Commands),
				ExplorationCommands: trimAll(env.ExplorationCommands),
				NeedsClarification:  env.NeedsClarification,
				ThinkingMode:        env.ThinkingMode,
				Confidence:          env.Confidence,
			}
		}
	}
	return domain.AIResponse{
		Message:            strings.TrimSpace(content),
		NeedsClarification: true,
	}
}

// extractJSON returns the first JSON object in content: fenced block first,
// then the outermost brace pair.
func extractJSON(content string) string {
	if fenced := extractFencedJSON(content); fenced != "" {
		return fenced
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func extractFencedJSON(content string) string {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(content, fence)
		if start == -1 {
			continue
		}
		body := content[start+len(fence):]
		end := strings.Index(body, "```")
		if end == -1 {
			continue
		}
		candidate := strings.TrimSpace(body[:end])
		if strings.HasPrefix(candidate, "{") {
			return candidate
		}
	}
	return ""
}

func trimAll(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
