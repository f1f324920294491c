package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig supplies flag defaults from the process environment; flags
// override whatever is set here.
type envConfig struct {
	Store  string `env:"SAFEGRID_STORE"`
	DBPath string `env:"SAFEGRID_DB_PATH" envDefault:"safegrid.db"`
	LogDir string `env:"SAFEGRID_LOG_DIR" envDefault:"episodes"`
}

func loadEnvConfig() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
