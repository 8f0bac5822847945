package security

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/pkg/filesystem"
	"github.com/doeshing/nlsh/internal/ports"
)

// Classifier evaluates commands against an ordered, immutable rule list.
// Rules are compiled once at construction; Classify is pure after that.
type Classifier struct {
	segmentRules  []compiledRule
	pipelineRules []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule domain.SafetyRule
}

// ConfigError marks a malformed rule set. It is fatal at startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("safety rule set %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		SafetyRules []domain.SafetyRule `yaml:"safety_rules"`
	} `yaml:"rules"`
}

// NewClassifier loads rules from disk (or built-in defaults when the file is
// missing) and compiles them, preserving list order as priority.
func NewClassifier(path string) (*Classifier, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return compile(rules, path)
}

// NewClassifierFromRules builds a classifier from an explicit rule list.
func NewClassifierFromRules(rules []domain.SafetyRule) (*Classifier, error) {
	return compile(rules, "<inline>")
}

func compile(rules []domain.SafetyRule, path string) (*Classifier, error) {
	c := &Classifier{}
	for _, rule := range rules {
		if err := validVerdict(rule.Verdict); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		compiled := compiledRule{re: re, rule: rule}
		if rule.Scope == domain.ScopePipeline {
			c.pipelineRules = append(c.pipelineRules, compiled)
		} else {
			c.segmentRules = append(c.segmentRules, compiled)
		}
	}
	return c, nil
}

func validVerdict(v domain.Verdict) error {
	switch v {
	case domain.VerdictAutoApprove, domain.VerdictConfirm, domain.VerdictBlock:
		return nil
	default:
		return fmt.Errorf("unknown verdict %q", v)
	}
}

// Classify implements ports.Classifier.
func (c *Classifier) Classify(command string) domain.Verdict {
	return c.Report(command).Verdict
}

// Report resolves the command to its verdict plus the deciding reasons.
//
// The raw line is split on shell control operators; each sub-command takes
// the first matching rule (default Confirm), and the overall verdict is the
// most restrictive among them. Pipeline-scope rules are matched against the
// unsplit text so a whitelisted fetch piped into an interpreter still trips.
func (c *Classifier) Report(command string) domain.SafetyReport {
	report := domain.SafetyReport{Verdict: domain.VerdictAutoApprove}
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		report.Verdict = domain.VerdictConfirm
		report.Reasons = append(report.Reasons, "empty command")
		return report
	}

	for _, rule := range c.pipelineRules {
		if rule.re.MatchString(trimmed) {
			merge(&report, rule.rule)
		}
	}

	for _, segment := range SplitSegments(trimmed) {
		verdict, matched := c.classifySegment(segment)
		if matched == nil {
			if domain.MoreRestrictive(verdict, report.Verdict) {
				report.Verdict = verdict
			}
			continue
		}
		merge(&report, *matched)
	}

	// Substitution or expansion can hide a sub-command from the splitter;
	// such text never auto-approves.
	if report.Verdict == domain.VerdictAutoApprove && hidesSubCommand(trimmed) {
		report.Verdict = domain.VerdictConfirm
		report.Reasons = append(report.Reasons, "command substitution or expansion present")
	}

	return report
}

func (c *Classifier) classifySegment(segment string) (domain.Verdict, *domain.SafetyRule) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return domain.VerdictConfirm, nil
	}
	for _, rule := range c.segmentRules {
		if rule.re.MatchString(segment) {
			matched := rule.rule
			return matched.Verdict, &matched
		}
	}
	// No rule matched: the command is unknown, so ask the user.
	return domain.VerdictConfirm, nil
}

func merge(report *domain.SafetyReport, rule domain.SafetyRule) {
	if domain.MoreRestrictive(rule.Verdict, report.Verdict) {
		report.Verdict = rule.Verdict
		if rule.Description != "" {
			report.Reasons = append([]string{rule.Description}, report.Reasons...)
		}
	} else if rule.Verdict == report.Verdict && rule.Description != "" {
		report.Reasons = append(report.Reasons, rule.Description)
	}
	if rule.Interactive {
		report.Interactive = true
	}
}

// SplitSegments splits a command line on the control operators &&, ||, ;
// and |. Quoting is intentionally not interpreted; anything the splitter
// cannot see is caught by the substitution demotion instead.
func SplitSegments(command string) []string {
	var segments []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
	}
	for i := 0; i < len(command); i++ {
		ch := command[i]
		switch ch {
		case '&':
			if i+1 < len(command) && command[i+1] == '&' {
				flush()
				i++
				continue
			}
			current.WriteByte(ch)
		case '|':
			flush()
			if i+1 < len(command) && command[i+1] == '|' {
				i++
			}
		case ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return segments
}

func hidesSubCommand(command string) bool {
	return strings.Contains(command, "$(") ||
		strings.Contains(command, "`") ||
		strings.Contains(command, "${")
}

func loadRules(path string) ([]domain.SafetyRule, error) {
	path = expandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		// fall back to defaults
		return DefaultRules(), nil
	}
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if len(file.Rules.SafetyRules) == 0 {
		return DefaultRules(), nil
	}
	return file.Rules.SafetyRules, nil
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".nlsh", "rules.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~") {
		return filesystem.Expand(path)
	}
	return filepath.Join(filesystem.UserHomeDir(), path)
}

var _ ports.Classifier = (*Classifier)(nil)
