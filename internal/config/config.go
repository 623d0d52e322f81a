package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rork/affective-core/go-core/internal/affect"
)

// #region config
// Config holds host-level settings, all overridable via environment.
type Config struct {
	DBPath        string        `env:"CORE_DB" envDefault:"core.db"`
	DT            float64       `env:"CORE_DT" envDefault:"0.1"`
	IdleAfter     time.Duration `env:"CORE_IDLE_AFTER" envDefault:"30s"`
	CycleInterval time.Duration `env:"CORE_CYCLE_INTERVAL" envDefault:"1m"`
	DynamicsFile  string        `env:"CORE_DYNAMICS_FILE"`
	Seed          int64         `env:"CORE_SEED" envDefault:"0"` // 0 = time-seeded
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CORE] no .env file found, using system environment")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DT <= 0 {
		return Config{}, fmt.Errorf("CORE_DT must be > 0, got %g", cfg.DT)
	}
	return cfg, nil
}

// #endregion config

// #region dynamics
// LoadDynamics reads a YAML coefficient file layered over the
// defaults: absent fields keep their default values. An empty path
// returns the defaults unchanged.
func LoadDynamics(path string) (affect.Dynamics, error) {
	dyn := affect.DefaultDynamics()
	if path == "" {
		return dyn, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return affect.Dynamics{}, fmt.Errorf("read dynamics file: %w", err)
	}
	if err := yaml.Unmarshal(data, &dyn); err != nil {
		return affect.Dynamics{}, fmt.Errorf("parse dynamics file: %w", err)
	}
	if err := dyn.Validate(); err != nil {
		return affect.Dynamics{}, fmt.Errorf("dynamics file %s: %w", path, err)
	}
	return dyn, nil
}

// #endregion dynamics
