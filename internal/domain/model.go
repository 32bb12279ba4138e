package domain

// ModelDefinition describes an inference endpoint declared in the config file.
// Two logical roles (conversation and command) are mapped onto these by name
// in Preferences; both may point at the same endpoint with different model ids.
type ModelDefinition struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	ModelID    string `yaml:"model_id"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// ProviderKind distinguishes provider implementations by wire format.
type ProviderKind string

const (
	ProviderKindOllama ProviderKind = "ollama"
	ProviderKindOpenAI ProviderKind = "openai"
)
