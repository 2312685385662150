// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger for the dev environment and a JSON
// production logger otherwise.  level is a zap level name such as
// "debug" or "warn"; an empty level keeps the config's default.
func New(env, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "dev" {
		config = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config.Build()
}
