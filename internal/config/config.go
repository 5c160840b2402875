package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/mathquiz.db"`
	RedisURL string     `env:"REDIS_URL"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	TokenSecret       string        `env:"TOKEN_SECRET" envDefault:"mathquiz-dev-secret"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	Game Game `envPrefix:"GAME_"`
}

// Game tunes the per-mode constants.
type Game struct {
	TimedSeconds       int `env:"TIMED_SECONDS" envDefault:"60"`
	SurvivalLives      int `env:"SURVIVAL_LIVES" envDefault:"3"`
	ChallengeQuestions int `env:"CHALLENGE_QUESTIONS" envDefault:"40"`
}

func (g Game) Rules() mathquiz.Rules {
	r := mathquiz.DefaultRules()
	r.TimedSeconds = g.TimedSeconds
	r.SurvivalLives = g.SurvivalLives
	r.ChallengeQuestions = g.ChallengeQuestions
	return r
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}
