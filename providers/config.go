// Package providers normalizes nine vendor chat-completion APIs behind
// one adapter so the orchestrator can fan out over an interchangeable
// collection.
package providers

// Display names of the nine supported models.
const (
	NameGPT4o      = "GPT-4o"
	NameClaude     = "Claude 3.5"
	NameGemini     = "Gemini 1.5"
	NamePerplexity = "Perplexity"
	NameMistral    = "Mistral Large"
	NameGroq       = "Groq"
	NameGrok       = "Grok"
	NameDeepSeek   = "DeepSeek"
	NameFireworks  = "Fireworks AI"
)

// WireFormat selects the request/response encoding a vendor speaks.
type WireFormat string

const (
	// WireOpenAI covers every OpenAI-compatible endpoint (OpenAI,
	// Perplexity, Mistral, Groq, Grok, DeepSeek, Fireworks).
	WireOpenAI WireFormat = "openai"
	WireAnthropic WireFormat = "anthropic"
	WireGemini    WireFormat = "gemini"
)

// Meta is the fixed display metadata attached to every score a
// provider produces.
type Meta struct {
	Logo       string
	Color      string
	BgGradient string
	Category   string
}

// Config fully describes one vendor: where to call it, how to encode
// the call, and how to present its results.
type Config struct {
	Name        string     `yaml:"name"`
	Model       string     `yaml:"model"`
	Endpoint    string     `yaml:"endpoint"`
	Wire        WireFormat `yaml:"wire"`
	EnvKey      string     `yaml:"envKey"`
	Focus       string     `yaml:"focus"`
	MaxTokens   int        `yaml:"maxTokens"`
	Temperature float64    `yaml:"temperature"`
	Meta        Meta       `yaml:"-"`
}

// Registry returns the nine vendor configurations in fan-out order.
// Callers get a fresh slice and may mutate it (e.g. yaml overrides).
func Registry() []Config {
	return []Config{
		{
			Name:        NameGPT4o,
			Model:       "gpt-4o",
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "OPENAI_API_KEY",
			Focus:       "content quality, tone (educational vs promotional), examples, and depth",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/openai.svg", Color: "#10A37F", BgGradient: "from-emerald-50 to-emerald-100", Category: "Content Quality"},
		},
		{
			Name:        NameClaude,
			Model:       "claude-3-5-sonnet-20241022",
			Endpoint:    "https://api.anthropic.com/v1/messages",
			Wire:        WireAnthropic,
			EnvKey:      "ANTHROPIC_API_KEY",
			Focus:       "logical structure, semantic HTML, heading hierarchy, and reasoning flow",
			MaxTokens:   1024,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/claude.png", Color: "#D97757", BgGradient: "from-orange-50 to-orange-100", Category: "Structure & Logic"},
		},
		{
			Name:        NameGemini,
			Model:       "gemini-1.5-flash",
			Endpoint:    "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
			Wire:        WireGemini,
			EnvKey:      "GOOGLE_API_KEY",
			Focus:       "E-E-A-T signals, author credentials, expertise markers, and trustworthiness",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/gemini.png", Color: "#4285F4", BgGradient: "from-blue-50 to-blue-100", Category: "Google Signals"},
		},
		{
			Name:        NamePerplexity,
			Model:       "sonar-pro",
			Endpoint:    "https://api.perplexity.ai/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "PERPLEXITY_API_KEY",
			Focus:       "citation authority, backlink potential, and reference quality",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/perplexity.png", Color: "#1FB8CD", BgGradient: "from-cyan-50 to-cyan-100", Category: "Citation Authority"},
		},
		{
			Name:        NameMistral,
			Model:       "mistral-large-latest",
			Endpoint:    "https://api.mistral.ai/v1/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "MISTRAL_API_KEY",
			Focus:       "content structure and international SEO readiness",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/mistral.png", Color: "#F2A73B", BgGradient: "from-amber-50 to-amber-100", Category: "International"},
		},
		{
			Name:        NameGroq,
			Model:       "llama-3.3-70b-versatile",
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "GROQ_API_KEY",
			Focus:       "parsing speed, semantic HTML structure, and technical optimization",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/groq.png", Color: "#000000", BgGradient: "from-gray-50 to-gray-100", Category: "Speed Analysis"},
		},
		{
			Name:        NameGrok,
			Model:       "grok-beta",
			Endpoint:    "https://api.x.ai/v1/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "GROK_API_KEY",
			Focus:       "social signals, shareability, and viral potential",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/grok.png", Color: "#1DA1F2", BgGradient: "from-sky-50 to-sky-100", Category: "Social Signals"},
		},
		{
			Name:        NameDeepSeek,
			Model:       "deepseek-chat",
			Endpoint:    "https://api.deepseek.com/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "DEEPSEEK_API_KEY",
			Focus:       "technical depth, code examples, and specifications",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/deepseek.png", Color: "#5B8DEE", BgGradient: "from-indigo-50 to-indigo-100", Category: "Technical Depth"},
		},
		{
			Name:        NameFireworks,
			Model:       "accounts/fireworks/models/llama-v3p3-70b-instruct",
			Endpoint:    "https://api.fireworks.ai/inference/v1/chat/completions",
			Wire:        WireOpenAI,
			EnvKey:      "FIREWORKS_API_KEY",
			Focus:       "developer-focused content and API documentation quality",
			MaxTokens:   500,
			Temperature: 0.3,
			Meta:        Meta{Logo: "/fireworks.png", Color: "#FF6B35", BgGradient: "from-orange-50 to-red-100", Category: "Developer Content"},
		},
	}
}

var defaultMeta = Meta{Logo: "/fallback.svg", Color: "#6B7280", BgGradient: "from-gray-50 to-gray-100", Category: "General"}

// DisplayMeta returns the display metadata for a provider name, with a
// neutral default for unknown names.
func DisplayMeta(name string) Meta {
	for _, cfg := range Registry() {
		if cfg.Name == name {
			return cfg.Meta
		}
	}
	return defaultMeta
}

// Names lists the nine provider display names in registry order.
func Names() []string {
	registry := Registry()
	names := make([]string, len(registry))
	for i, cfg := range registry {
		names[i] = cfg.Name
	}
	return names
}
