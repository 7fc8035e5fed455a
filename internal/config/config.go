package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from a YAML file
// with unset fields falling back to defaults
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Game       GameConfig       `yaml:"game"`
	Questions  QuestionsConfig  `yaml:"questions"`
	HallOfFame HallOfFameConfig `yaml:"hall_of_fame"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StaticDir       string        `yaml:"static_dir"`
}

type StorageConfig struct {
	// Type selects the backend: "memory" or "redis"
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	URL            string        `yaml:"url"`
	PoolSize       int           `yaml:"pool_size"`
	MinIdleConns   int           `yaml:"min_idle_conns"`
	GuestPlayerTTL time.Duration `yaml:"guest_player_ttl"`
	LobbyTTL       time.Duration `yaml:"lobby_ttl"`
}

type GameConfig struct {
	QuestionTimeLimit  time.Duration `yaml:"question_time_limit"`
	AnswerDisplayDelay time.Duration `yaml:"answer_display_delay"`
	BasePoints         int           `yaml:"base_points"`
	MaxTimeBonus       int           `yaml:"max_time_bonus"`
	StreakBonusStep    int           `yaml:"streak_bonus_step"`
}

type QuestionsConfig struct {
	// Path to the questions JSON file. The built-in fallback set is
	// used when the file cannot be loaded.
	Path string `yaml:"path"`
}

type HallOfFameConfig struct {
	// RemoteURL is the base URL of an external score archive.
	// Empty disables remote submission.
	RemoteURL string `yaml:"remote_url"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Redis: RedisConfig{
				URL:            "redis://localhost:6379",
				PoolSize:       10,
				MinIdleConns:   2,
				GuestPlayerTTL: 24 * time.Hour,
				LobbyTTL:       12 * time.Hour,
			},
		},
		Game: GameConfig{
			QuestionTimeLimit:  60 * time.Second,
			AnswerDisplayDelay: 3 * time.Second,
			BasePoints:         100,
			MaxTimeBonus:       50,
			StreakBonusStep:    10,
		},
		Questions: QuestionsConfig{
			Path: "data/questions.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "redis" {
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}
	if c.Game.QuestionTimeLimit <= 0 {
		return fmt.Errorf("question time limit must be positive")
	}
	if c.Game.AnswerDisplayDelay < 0 {
		return fmt.Errorf("answer display delay must not be negative")
	}
	return nil
}

// SlogLevel maps the configured level string to a slog level, falling
// back to info for unknown values
func (c LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
