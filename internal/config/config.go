package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"roidlecraft/internal/crafts"
)

const (
	DefaultInput  = "Craft Items Detail Complete_ALL.json"
	DefaultOutput = "docs/data/craft_recipes.json"
)

type Config struct {
	Input          string `yaml:"input"`
	Output         string `yaml:"output"`
	Source         string `yaml:"source"`
	SkipLog        string `yaml:"skip_log,omitempty"`
	ValidateSchema bool   `yaml:"validate_schema"`
	LogLevel       string `yaml:"log_level"`
}

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func Defaults() Config {
	return Config{
		Input:          DefaultInput,
		Output:         DefaultOutput,
		Source:         crafts.DefaultSource,
		ValidateSchema: true,
		LogLevel:       "info",
	}
}

// Load reads a YAML config over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	name := filepath.Base(path)
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	def := Defaults()
	c.Input = strings.TrimSpace(c.Input)
	c.Output = strings.TrimSpace(c.Output)
	c.Source = strings.TrimSpace(c.Source)
	c.SkipLog = strings.TrimSpace(c.SkipLog)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Input == "" {
		c.Input = def.Input
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Source == "" {
		c.Source = def.Source
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

func (c Config) Validate() error {
	c.Normalize()
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("output must differ from input: %s", c.Output)
	}
	if c.SkipLog != "" {
		skip := filepath.Clean(c.SkipLog)
		if skip == filepath.Clean(c.Input) || skip == filepath.Clean(c.Output) {
			return fmt.Errorf("skip_log must differ from input and output: %s", c.SkipLog)
		}
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
