package domain

// Config mirrors ~/.nlsh/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Security            SecuritySettings  `yaml:"security"`
	Execution           ExecutionSettings `yaml:"execution"`
	Thinking            ThinkingSettings  `yaml:"thinking"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel    string `yaml:"default_model"`
	AutoExecuteSafe bool   `yaml:"auto_execute_safe"`
	HistoryCap      int    `yaml:"history_cap"`
}

// SecuritySettings defines classifier behavior.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout"`
	OutputCapBytes int    `yaml:"output_cap_bytes"`
}

// ThinkingSettings bounds the exploration round.
type ThinkingSettings struct {
	// ExplorationCap is the maximum number of diagnostic commands executed
	// per thinking session.
	ExplorationCap int `yaml:"exploration_cap"`
	// ResultCapBytes caps each exploration result fed back to the AI.
	ResultCapBytes int `yaml:"result_cap_bytes"`
}

// ModelDefinition describes an AI provider configuration declared in the
// config file.
type ModelDefinition struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	ModelID    string `yaml:"model_id"`
	MaxTokens  int    `yaml:"max_tokens"`
}
