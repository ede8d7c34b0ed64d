package config

const (
	defaultBind            = "127.0.0.1:8001"
	defaultLogDir          = "~/.local/share/meetnotes/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultGeminiBaseURL   = "https://generativelanguage.googleapis.com"
	defaultGeminiModel     = "gemini-1.5-flash"
	defaultTimeoutSeconds  = 60
	defaultTemperature     = 0.7
	defaultTopP            = 0.8
	defaultTopK            = 40
	defaultMaxOutputTokens = 2048
	defaultUploadMaxBytes  = 10 * 1024 * 1024
)

// Default returns a Config populated with repository defaults. The Gemini API
// key deliberately has no default; it must come from the config file or the
// environment.
func Default() Config {
	return Config{
		Server: Server{
			Bind:   defaultBind,
			LogDir: defaultLogDir,
		},
		Gemini: Gemini{
			BaseURL:         defaultGeminiBaseURL,
			Model:           defaultGeminiModel,
			TimeoutSeconds:  defaultTimeoutSeconds,
			Temperature:     defaultTemperature,
			TopP:            defaultTopP,
			TopK:            defaultTopK,
			MaxOutputTokens: defaultMaxOutputTokens,
		},
		Upload: Upload{
			MaxBytes: defaultUploadMaxBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
