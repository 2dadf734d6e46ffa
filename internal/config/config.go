// README: Config loader; environment (and optional .env) parsed into typed sections.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr        string   `env:"TRAILMATE_HTTP_ADDR" envDefault:":3001"`
	CORSOrigins []string `env:"TRAILMATE_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DBConfig enables the plan archive and the planning quota when DSN is set.
type DBConfig struct {
	DSN string `env:"TRAILMATE_DB_DSN"`
}

// RedisConfig switches sessions to Redis when Addr is set.
type RedisConfig struct {
	Addr   string `env:"TRAILMATE_REDIS_ADDR"`
	Prefix string `env:"TRAILMATE_REDIS_PREFIX" envDefault:"trailmate"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `env:"TRAILMATE_SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	Sweep       string        `env:"TRAILMATE_SESSION_SWEEP" envDefault:"@every 5m"`
	MaxTurns    int           `env:"TRAILMATE_SESSION_MAX_TURNS" envDefault:"20"`
	MaxPlans    int           `env:"TRAILMATE_SESSION_MAX_PLANS" envDefault:"10"`
}

type AIConfig struct {
	Provider          string        `env:"TRAILMATE_AI_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"TRAILMATE_GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	OpenAIModel       string        `env:"TRAILMATE_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OllamaURL         string        `env:"TRAILMATE_OLLAMA_URL" envDefault:"http://127.0.0.1:11434/v1"`
	OllamaModel       string        `env:"TRAILMATE_OLLAMA_MODEL" envDefault:"llama3.1"`
	PlannerModel      string        `env:"TRAILMATE_PLANNER_MODEL"`
	GenerationTimeout time.Duration `env:"TRAILMATE_GENERATION_TIMEOUT" envDefault:"30s"`
}

type QuotaConfig struct {
	PlansPerMonth int `env:"TRAILMATE_PLAN_QUOTA" envDefault:"100"`
}

type WeatherConfig struct {
	APIKey   string        `env:"OPENWEATHER_API_KEY"`
	BaseURL  string        `env:"TRAILMATE_WEATHER_URL" envDefault:"https://api.openweathermap.org/data/2.5/weather"`
	CacheTTL time.Duration `env:"TRAILMATE_WEATHER_CACHE_TTL" envDefault:"5m"`
}

type MapsConfig struct {
	APIKey string `env:"GOOGLE_MAPS_API_KEY"`
}

// FirebaseConfig enables optional ID-token verification on /chat when ProjectID is set.
type FirebaseConfig struct {
	ProjectID       string `env:"TRAILMATE_FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"TRAILMATE_FIREBASE_CREDENTIALS"`
}

type Config struct {
	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Session  SessionConfig
	AI       AIConfig
	Quota    QuotaConfig
	Weather  WeatherConfig
	Maps     MapsConfig
	Firebase FirebaseConfig
	LogLevel string `env:"TRAILMATE_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Session.IdleTimeout <= 0 {
		return errors.New("TRAILMATE_SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.Session.MaxTurns <= 0 || c.Session.MaxPlans <= 0 {
		return errors.New("session turn and plan caps must be positive")
	}
	if c.AI.GenerationTimeout <= 0 {
		return errors.New("TRAILMATE_GENERATION_TIMEOUT must be positive")
	}
	switch strings.ToLower(c.AI.Provider) {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("TRAILMATE_AI_PROVIDER %q is not one of gemini, openai, ollama", c.AI.Provider)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog levels; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
