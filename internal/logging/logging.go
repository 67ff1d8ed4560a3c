package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. Format "json" selects the production encoder,
// anything else the human-readable development one.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	return cfg.Build()
}
