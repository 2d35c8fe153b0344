// README: Config loader: .env + config.json settings file + env overrides, with defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type HTTPConfig struct {
	Addr          string `mapstructure:"addr"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	ChatModel  string `mapstructure:"chat_model"`
	ImageModel string `mapstructure:"image_model"`
	ImageSize  string `mapstructure:"image_size"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type SerpAPIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Currency string `mapstructure:"currency"`
}

type GoogleMapsConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type PlanningConfig struct {
	DefaultOrigin   string `mapstructure:"default_origin"`
	SuggestionCount int    `mapstructure:"suggestion_count"`
	MaxParallel     int    `mapstructure:"max_parallel"`
	CallTimeoutMS   int    `mapstructure:"call_timeout_ms"`
}

// CallTimeout bounds every external capability call.
func (p PlanningConfig) CallTimeout() time.Duration {
	return time.Duration(p.CallTimeoutMS) * time.Millisecond
}

type SessionConfig struct {
	Backend    string `mapstructure:"backend"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SESConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	FromEmail string `mapstructure:"from_email"`
}

type DeliveryConfig struct {
	SES SESConfig `mapstructure:"ses"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	LLM        LLMConfig        `mapstructure:"llm"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	SerpAPI    SerpAPIConfig    `mapstructure:"serpapi"`
	GoogleMaps GoogleMapsConfig `mapstructure:"google_maps"`
	Planning   PlanningConfig   `mapstructure:"planning"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Delivery   DeliveryConfig   `mapstructure:"delivery"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Load reads .env, then config.json from the working directory or ./configs, then the environment.
// A missing settings file is not an error; the environment alone may carry every key.
func Load() (Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read settings: %w", err)
		}
	}
	return build(v)
}

// LoadFromFile reads the settings from an explicit path.
func LoadFromFile(path string) (Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TRIPPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Flat keys from the legacy cfg.json layout, as file keys or plain env vars.
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("serpapi_api_key", "SERPAPI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("google_maps_api_key", "GOOGLE_MAPS_API_KEY")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8001")
	v.SetDefault("http.allowed_origin", "http://localhost:3000")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.chat_model", "gpt-3.5-turbo")
	v.SetDefault("openai.image_model", "dall-e-3")
	v.SetDefault("openai.image_size", "1024x1024")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com/search.json")
	v.SetDefault("serpapi.currency", "USD")
	v.SetDefault("google_maps.api_key", "")
	v.SetDefault("planning.default_origin", "New York")
	v.SetDefault("planning.suggestion_count", 5)
	v.SetDefault("planning.max_parallel", 1)
	v.SetDefault("planning.call_timeout_ms", 30000)
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("delivery.ses.enabled", false)
	v.SetDefault("delivery.ses.region", "us-east-1")
	v.SetDefault("delivery.ses.from_email", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func build(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	overrideEmpty(v, &cfg)
	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideEmpty(v *viper.Viper, cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = v.GetString("openai_api_key")
	}
	if cfg.SerpAPI.APIKey == "" {
		cfg.SerpAPI.APIKey = v.GetString("serpapi_api_key")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = v.GetString("gemini_api_key")
	}
	if cfg.GoogleMaps.APIKey == "" {
		cfg.GoogleMaps.APIKey = v.GetString("google_maps_api_key")
	}
}

func applyDefaults(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if cfg.Planning.SuggestionCount <= 0 {
		cfg.Planning.SuggestionCount = 5
	}
	if cfg.Planning.MaxParallel <= 0 {
		cfg.Planning.MaxParallel = 1
	}
	if cfg.Planning.CallTimeoutMS <= 0 {
		cfg.Planning.CallTimeoutMS = 30000
	}
	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 60
	}
}

func validate(cfg Config) error {
	var missing []string
	if cfg.OpenAI.APIKey == "" {
		missing = append(missing, "openai.api_key (OPENAI_API_KEY)")
	}
	if cfg.SerpAPI.APIKey == "" {
		missing = append(missing, "serpapi.api_key (SERPAPI_API_KEY)")
	}
	switch cfg.LLM.Provider {
	case ProviderOpenAI:
	case ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			missing = append(missing, "gemini.api_key (GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, cfg.LLM.Provider)
	}
	switch cfg.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.Redis.Address == "" {
			missing = append(missing, "redis.address")
		}
	default:
		return fmt.Errorf("session.backend must be %q or %q, got %q", SessionBackendMemory, SessionBackendRedis, cfg.Session.Backend)
	}
	if cfg.Delivery.SES.Enabled && cfg.Delivery.SES.FromEmail == "" {
		missing = append(missing, "delivery.ses.from_email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required settings not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

func loadEnvFile() {
	candidates := []string{".env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
