package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/playperu/mathquiz/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != slog.LevelInfo || cfg.SessionTTL != 30*time.Minute || cfg.TokenTTL != 24*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	r := cfg.Game.Rules()
	if r.TimedSeconds != 60 || r.SurvivalLives != 3 || r.ChallengeQuestions != 40 {
		t.Errorf("rules = %+v", r)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GAME_CHALLENGE_QUESTIONS", "10")
	t.Setenv("SESSION_TTL", "5m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.Game.ChallengeQuestions != 10 || cfg.SessionTTL != 5*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "0s")
	if _, err := config.Load(); err == nil {
		t.Error("expected error for zero SESSION_TTL")
	}
}
