package ai

// providerSpec is one row of the dispatch table: everything that
// differs between providers speaking the OpenAI-compatible chat API.
// Anthropic has its own wire format and bypasses the table's base URL.
type providerSpec struct {
	// BaseURL of the provider's OpenAI-compatible API root.
	BaseURL string
	// DefaultModel used when the config does not name one.
	DefaultModel string
	// SupportsJSONMode is false for providers that reject the
	// json_object response format parameter.
	SupportsJSONMode bool
}

// providerTable maps providers to their endpoint and defaults.
var providerTable = map[Provider]providerSpec{
	ProviderOpenAI: {
		BaseURL:          "https://api.openai.com/v1",
		DefaultModel:     "gpt-4o-mini",
		SupportsJSONMode: true,
	},
	ProviderOpenRouter: {
		BaseURL:          "https://openrouter.ai/api/v1",
		DefaultModel:     "openai/gpt-4o-mini",
		SupportsJSONMode: true,
	},
	ProviderGroq: {
		BaseURL:          "https://api.groq.com/openai/v1",
		DefaultModel:     "llama-3.3-70b-versatile",
		SupportsJSONMode: true,
	},
	ProviderGemini: {
		BaseURL:          "https://generativelanguage.googleapis.com/v1beta/openai",
		DefaultModel:     "gemini-2.0-flash",
		SupportsJSONMode: true,
	},
	ProviderAnthropic: {
		DefaultModel: "claude-3-5-haiku-latest",
	},
}

// Providers lists the supported provider names for CLI help output.
func Providers() []Provider {
	return []Provider{
		ProviderOpenAI,
		ProviderOpenRouter,
		ProviderGroq,
		ProviderGemini,
		ProviderAnthropic,
	}
}
