package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/synapticon/somanet-ethclient/pkg/config"
)

// mergeConfigFile loads a config.SessionConfig and installs its fields
// as viper defaults, so an explicit --host/--port/--timeout flag or a
// DEVICECTL_* environment variable still wins over the file.
func mergeConfigFile(path string) error {
	cfg, err := config.LoadSessionConfig(path)
	if err != nil {
		return fmt.Errorf("devicectl: %w", err)
	}
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	if cfg.ReadTimeout > 0 {
		viper.SetDefault("timeout", cfg.ReadTimeout)
	}
	if cfg.PDOMappingPath != "" {
		viper.SetDefault("pdoMappingPath", cfg.PDOMappingPath)
	}
	return nil
}
