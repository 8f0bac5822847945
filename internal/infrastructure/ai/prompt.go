package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/nlsh/internal/domain"
)

const systemTemplate = `You are nlsh, a cautious shell assistant. You translate natural language
requests into shell commands for the user's environment.

Current environment:
- Directory: {{.WorkingDir}}
- Shell: {{.Shell}}
- OS: {{.OS}}
{{- if .User}}
- User: {{.User}}{{end}}
{{- if .AvailableTools}}
- Tools: {{.AvailableTools}}{{end}}
{{- if .Files}}
- Files: {{.Files}}{{end}}
{{- if .Memory}}

Saved notes:
{{.Memory}}{{end}}
{{- if .History}}

Recent session:
{{.History}}{{end}}

Respond with a single JSON object inside a ` + "```json" + ` fenced block:
{
  "message": "short explanation for the user",
  "commands": ["shell command to run"],
  "exploration_commands": [],
  "needs_clarification": false,
  "thinking_mode": false,
  "confidence": 0.9
}
Rules:
- Suggest at most one command in "commands".
- Prefer safe, read-only commands when several would work.
- Set "needs_clarification" true and leave "commands" empty when the request
  is ambiguous; put the question in "message".`

const explorationInstruction = `The request needs investigation before you can answer. Return the JSON
envelope with "exploration_commands" set to at most {{.Cap}} read-only
diagnostic commands (ls, cat, ps, df, git status and the like) that would
reveal the missing context. Leave "commands" empty.`

const analysisInstruction = `You previously requested diagnostics for this request. Their output follows.
Use it to return the JSON envelope with a final command in "commands", or
set "needs_clarification" true with a question in "message" if the output
was not enough.

Diagnostic output:
{{.Results}}`

type templateData struct {
	Prompt         string
	WorkingDir     string
	Shell          string
	OS             string
	User           string
	Files          string
	AvailableTools string
	History        string
	Memory         string
	Cap            int
	Results        string
}

func buildTemplateData(prompt string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) templateData {
	return templateData{
		Prompt:         strings.TrimSpace(prompt),
		WorkingDir:     snapshot.WorkingDir,
		Shell:          snapshot.Shell,
		OS:             snapshot.OS,
		User:           snapshot.User,
		Files:          filesSummary(snapshot.Files),
		AvailableTools: strings.Join(snapshot.AvailableTools, ", "),
		History:        historySummary(history),
		Memory:         memorySummary(memory),
	}
}

// proposeMessages is the direct path: one system message with environment
// and contract, one user message with the request.
func proposeMessages(data templateData) ([]promptMessage, error) {
	return renderMessages(data, "")
}

func explorationMessages(data templateData, cap int) ([]promptMessage, error) {
	data.Cap = cap
	return renderMessages(data, explorationInstruction)
}

func analysisMessages(data templateData, results []domain.ExecutionResult, resultCap int) ([]promptMessage, error) {
	data.Results = resultsSummary(results, resultCap)
	return renderMessages(data, analysisInstruction)
}

func renderMessages(data templateData, extraSystem string) ([]promptMessage, error) {
	system, err := executeTemplate(systemTemplate, data)
	if err != nil {
		return nil, err
	}
	messages := []promptMessage{{Role: "system", Content: strings.TrimSpace(system)}}
	if extraSystem != "" {
		extra, err := executeTemplate(extraSystem, data)
		if err != nil {
			return nil, err
		}
		messages = append(messages, promptMessage{Role: "system", Content: strings.TrimSpace(extra)})
	}
	messages = append(messages, promptMessage{Role: "user", Content: data.Prompt})
	return messages, nil
}

func filesSummary(files []domain.FileInfo) string {
	if len(files) == 0 {
		return ""
	}
	var names []string
	for _, file := range files {
		names = append(names, file.Path)
	}
	return strings.Join(names, ", ")
}

func historySummary(history []domain.Interaction) string {
	if len(history) == 0 {
		return ""
	}
	var lines []string
	for _, interaction := range history {
		line := fmt.Sprintf("- %q", interaction.Input)
		if interaction.Command != "" {
			line += fmt.Sprintf(" -> `%s`", interaction.Command)
		}
		if interaction.Result != nil && interaction.Result.ExitCode != 0 {
			line += fmt.Sprintf(" (exit %d)", interaction.Result.ExitCode)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func memorySummary(memory []domain.MemoryEntry) string {
	if len(memory) == 0 {
		return ""
	}
	var lines []string
	for _, entry := range memory {
		lines = append(lines, fmt.Sprintf("- %s: %s", entry.Label, entry.Content))
	}
	return strings.Join(lines, "\n")
}

func resultsSummary(results []domain.ExecutionResult, cap int) string {
	var sections []string
	for _, result := range results {
		output := result.Stdout
		if cap > 0 && len(output) > cap {
			output = output[:cap] + "\n[output truncated]"
		}
		section := fmt.Sprintf("$ %s\n%s", result.Command, strings.TrimSpace(output))
		if result.ExitCode != 0 {
			section += fmt.Sprintf("\n(exit %d)", result.ExitCode)
		}
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			section += "\nstderr: " + stderr
		}
		sections = append(sections, section)
	}
	return strings.Join(sections, "\n\n")
}

func executeTemplate(raw string, data templateData) (string, error) {
	tmpl, err := template.New("prompt").Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
