package api

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	RingSize        int  `yaml:"ring_size"`
	MaxOutputs      int  `yaml:"max_outputs"`
	ShuffleOutputs  bool `yaml:"shuffle_outputs"`
	VerifyCacheSize int  `yaml:"verify_cache_size"`
}

func DefaultConfig() *Config {
	return &Config{
		RingSize:        RING_SIZE,
		MaxOutputs:      BULLETPROOF_MAX_OUTPUTS,
		ShuffleOutputs:  true,
		VerifyCacheSize: 256,
	}
}

// ParseConfig reads YAML on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

func (c *Config) validate() error {
	if c.RingSize < 1 {
		return errors.Errorf("config ring_size %d", c.RingSize)
	}
	if c.MaxOutputs < 1 || c.MaxOutputs > BULLETPROOF_MAX_OUTPUTS {
		return errors.Errorf("config max_outputs %d out of [1, %d]", c.MaxOutputs, BULLETPROOF_MAX_OUTPUTS)
	}
	if c.VerifyCacheSize < 1 {
		return errors.Errorf("config verify_cache_size %d", c.VerifyCacheSize)
	}
	return nil
}
