// Package logging builds the zap logger used by the CLI and the pipeline.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

type Config struct {
	Level       string `koanf:"level"`
	Format      string `koanf:"format"` // "json" or "console"
	OutputPath  string `koanf:"output_path"`
	Development bool   `koanf:"development"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		OutputPath: "stderr",
	}
}

// New builds a logger from config. An unknown level falls back to info.
func New(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	switch config.Format {
	case "console":
		zapConfig.Encoding = "console"
	case "json", "":
		zapConfig.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log format %q", config.Format)
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
