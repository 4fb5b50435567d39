package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables that override the configuration file.
// Nested keys are separated by a double underscore (e.g. CONFSCHED_SOLVER__BACKEND)
const EnvPrefix = "CONFSCHED_"

var Backends = []string{"gini", "kissat", "cadical", "cryptominisat", "minisat"}

type Config struct {
	Solver  SolverConfig  `json:"solver"`
	Logging LoggingConfig `json:"logging"`
	Metrics MetricsConfig `json:"metrics"`
}

type SolverConfig struct {
	// Backend selects the search engine, one of Backends
	Backend string `json:"backend"`
	// Paths to external solver executables keyed by backend; missing entries are looked up in PATH
	Paths map[string]string `json:"paths"`
	// TimeBudget bounds each search; zero means no limit
	TimeBudget time.Duration `json:"time_budget"`
	// Precheck discards problems where some event has no admissible position before searching
	Precheck *bool `json:"precheck"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "json" or "console"
}

type MetricsConfig struct {
	// Textfile is where metrics are written in the Prometheus text format when the command ends; empty disables it
	Textfile string `json:"textfile"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads a JSON or YAML file (optional when path is empty) and applies environment overrides
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) SetDefaults() {
	if cfg.Solver.Backend == "" {
		cfg.Solver.Backend = "gini"
	}
	if cfg.Solver.Precheck == nil {
		precheck := true
		cfg.Solver.Precheck = &precheck
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func (cfg *Config) Validate() error {
	if !slices.Contains(Backends, cfg.Solver.Backend) {
		return fmt.Errorf("unknown solver backend %s", cfg.Solver.Backend)
	}
	if cfg.Solver.TimeBudget < 0 {
		return fmt.Errorf("time budget must not be negative: %v", cfg.Solver.TimeBudget)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("unknown logging format %s", cfg.Logging.Format)
	}
	return nil
}

// Path of the executable of a backend (the configured one when empty), empty when it must be looked up in PATH
func (cfg *Config) SolverPath(backend string) string {
	if backend == "" {
		backend = cfg.Solver.Backend
	}
	return cfg.Solver.Paths[backend]
}
