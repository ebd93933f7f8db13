// Package cli holds state shared by the rvc subcommands.
package cli

import (
	"go.uber.org/zap"

	"rvc-service/internal/app/common"
	"rvc-service/internal/config"
)

// Flags are the persistent root flags.
var Flags struct {
	ConfigPath string
	Verbose    bool
}

// Load reads the configuration named by Flags and builds a logger for its environment.
func Load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Flags.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, common.LoggerFor(cfg.Server.Environment, Flags.Verbose), nil
}
