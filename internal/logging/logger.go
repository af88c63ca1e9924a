// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for the scraper. Development mode uses the console
// encoder with colored levels; production mode emits JSON.
func New(development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForRun tags a logger with a fresh run ID so all entries of one scraping run
// can be correlated.
func ForRun(logger *zap.Logger) (*zap.Logger, string) {
	runID := uuid.NewString()
	return logger.With(zap.String("run_id", runID)), runID
}
