package domain

// Verdict is the classification outcome for a command.
type Verdict string

const (
	VerdictAutoApprove Verdict = "auto_approve"
	VerdictConfirm     Verdict = "confirm"
	VerdictBlock       Verdict = "block"
)

// restrictiveness orders verdicts: Block > Confirm > AutoApprove.
var restrictiveness = map[Verdict]int{
	VerdictAutoApprove: 0,
	VerdictConfirm:     1,
	VerdictBlock:       2,
}

// MoreRestrictive reports whether a is stricter than b.
func MoreRestrictive(a, b Verdict) bool {
	return restrictiveness[a] > restrictiveness[b]
}

// RuleScope controls what text a rule is matched against.
type RuleScope string

const (
	// ScopeCommand matches each sub-command after control-operator splitting.
	ScopeCommand RuleScope = "command"
	// ScopePipeline matches the raw unsplit command line. Used for patterns
	// whose danger lives in the combination, e.g. a fetch piped into a shell.
	ScopePipeline RuleScope = "pipeline"
)

// SafetyRule is one ordered entry of the classifier rule list. Order in the
// list is priority: the first matching rule per sub-command wins.
type SafetyRule struct {
	Pattern     string    `yaml:"pattern"`
	Verdict     Verdict   `yaml:"verdict"`
	Scope       RuleScope `yaml:"scope,omitempty"`
	Interactive bool      `yaml:"interactive,omitempty"`
	Description string    `yaml:"description"`
}

// SafetyReport aggregates the classification of a full command line.
type SafetyReport struct {
	Verdict Verdict
	// Reasons holds the descriptions of the rules that decided each
	// sub-command, most restrictive first.
	Reasons []string
	// Interactive is set when a matched rule flags the command interactive.
	Interactive bool
}
