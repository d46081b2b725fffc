package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/parkalloc/core/allocation"
	"github.com/kilianp07/parkalloc/core/metrics"
	"github.com/kilianp07/parkalloc/core/model"
	"github.com/kilianp07/parkalloc/infra/mqtt"
)

type Config struct {
	Facilities []model.Facility  `json:"facilities"`
	Allocation allocation.Config `json:"allocation"`
	Metrics    metrics.Config    `json:"metrics"`
	MQTT       mqtt.Config       `json:"mqtt"`
	Logging    LoggingConfig     `json:"logging"`
	Report     ReportConfig      `json:"report"`
}

// Load reads the YAML or JSON file at path, applies K_ prefixed environment
// overrides (K_ALLOCATION__SOLVER_TIMEOUT_SECONDS=2 sets
// allocation.solver_timeout_seconds) and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
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

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Allocation.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
	c.Report.SetDefaults()
}

// Validate checks every section. Facility attributes are checked by the
// allocator itself, which falls back instead of failing.
func (c Config) Validate() error {
	if len(c.Facilities) == 0 {
		return fmt.Errorf("at least one facility is required")
	}
	if err := c.Allocation.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Report.Validate()
}

// Snapshot returns the configured facilities as an allocation snapshot.
func (c Config) Snapshot() model.Snapshot {
	return model.NewSnapshot(c.Facilities)
}
