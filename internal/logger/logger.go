package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/config"
)

// New builds a production logger for the production environment and a
// development logger otherwise. cfg.LogLevel overrides the default level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = level
	}

	return zc.Build()
}
