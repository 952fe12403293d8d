// Package config loads the process configuration from environment variables
// (optionally seeded from a .env file when running outside an orchestration
// runtime). Missing required variables are a fatal startup condition reported
// as *Error, never retried.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names recognized by both front ends.
const (
	EnvHubURL       = "CORAL_SSE_URL"
	EnvAgentID      = "CORAL_AGENT_ID"
	EnvRuntime      = "CORAL_ORCHESTRATION_RUNTIME"
	EnvTimeoutMS    = "TIMEOUT_MS"
	EnvModelName    = "MODEL_NAME"
	EnvModelProv    = "MODEL_PROVIDER"
	EnvModelAPIKey  = "MODEL_API_KEY"
	EnvModelTemp    = "MODEL_TEMPERATURE"
	EnvModelTokens  = "MODEL_MAX_TOKENS"
	EnvModelBaseURL = "MODEL_BASE_URL"
	EnvVoiceAgentID = "ELEVENLABS_AGENT_ID"
	EnvVoiceAPIKey  = "ELEVENLABS_API_KEY"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultTemperature = 0.0
	DefaultMaxTokens   = 8000
)

// Error reports a fatal configuration problem (missing or malformed
// variables). It terminates startup; it is never a retryable fault.
type Error struct {
	Missing []string
	Message string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config error: missing required variables: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// ModelConfig carries the reasoning model selection and credentials.
type ModelConfig struct {
	Name        string
	Provider    string // "openai" or "anthropic"
	APIKey      string
	Temperature float64
	MaxTokens   int64
	BaseURL     string
}

// VoiceConfig carries the speech provider credentials for the voice front end.
type VoiceConfig struct {
	AgentID string
	APIKey  string
}

// Config is the resolved process configuration.
type Config struct {
	HubURL           string
	AgentID          string
	AgentDescription string
	RequestTimeout   time.Duration
	Model            ModelConfig
	Voice            VoiceConfig
}

// Options tweak how Load resolves configuration.
type Options struct {
	// EnvFile is the dotenv file consulted when CORAL_ORCHESTRATION_RUNTIME
	// is unset. Ignored when the file does not exist.
	EnvFile string
	// AgentDescription is announced to the hub on connect.
	AgentDescription string
	// RequireVoice additionally demands the speech provider variables.
	RequireVoice bool
	// Viper allows injecting a preconfigured instance (tests).
	Viper *viper.Viper
}

// Load resolves the configuration from the environment. When the process is
// not managed by an orchestration runtime, a .env file is merged in first so
// local development matches deployed behavior.
func Load(optFns ...func(o *Options)) (*Config, error) {
	opts := Options{EnvFile: ".env", AgentDescription: "Coral mesh agent"}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()

	if v.GetString(EnvRuntime) == "" && opts.EnvFile != "" {
		v.SetConfigFile(opts.EnvFile)
		v.SetConfigType("env")
		// A missing .env file is fine; env vars alone may be complete.
		_ = v.MergeInConfig()
	}

	cfg := &Config{
		HubURL:           v.GetString(EnvHubURL),
		AgentID:          v.GetString(EnvAgentID),
		AgentDescription: opts.AgentDescription,
		RequestTimeout:   DefaultTimeout,
		Model: ModelConfig{
			Name:        v.GetString(EnvModelName),
			Provider:    v.GetString(EnvModelProv),
			APIKey:      v.GetString(EnvModelAPIKey),
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			BaseURL:     v.GetString(EnvModelBaseURL),
		},
		Voice: VoiceConfig{
			AgentID: v.GetString(EnvVoiceAgentID),
			APIKey:  v.GetString(EnvVoiceAPIKey),
		},
	}

	if v.IsSet(EnvTimeoutMS) {
		cfg.RequestTimeout = time.Duration(v.GetInt64(EnvTimeoutMS)) * time.Millisecond
	}
	if v.IsSet(EnvModelTemp) {
		cfg.Model.Temperature = v.GetFloat64(EnvModelTemp)
	}
	if v.IsSet(EnvModelTokens) {
		cfg.Model.MaxTokens = v.GetInt64(EnvModelTokens)
	}

	var missing []string
	if cfg.HubURL == "" {
		missing = append(missing, EnvHubURL)
	}
	if cfg.AgentID == "" {
		missing = append(missing, EnvAgentID)
	}
	if opts.RequireVoice {
		if cfg.Voice.AgentID == "" {
			missing = append(missing, EnvVoiceAgentID)
		}
		if cfg.Voice.APIKey == "" {
			missing = append(missing, EnvVoiceAPIKey)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{Missing: missing}
	}

	return cfg, nil
}
