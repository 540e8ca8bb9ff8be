package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for specex
type Config struct {
	Check    CheckConfig       `mapstructure:"check" json:"check"`
	Lint     LintConfig        `mapstructure:"lint" json:"lint"`
	Engine   EngineConfig      `mapstructure:"engine" json:"engine"`
	Prefixes map[string]string `mapstructure:"prefixes" json:"prefixes,omitempty"`

	// Source is the config file that was read, if any.
	Source string `mapstructure:"-" json:"-"`
}

// CheckConfig holds defaults for the check command
type CheckConfig struct {
	ExampleDir string `mapstructure:"example_dir" json:"example_dir"`
	YAMLDir    string `mapstructure:"yaml_dir" json:"yaml_dir"`
	Format     string `mapstructure:"format" json:"format"`
	Verbose    bool   `mapstructure:"verbose" json:"verbose"`
}

// LintConfig controls linting of RDF expectations
type LintConfig struct {
	Enable bool   `mapstructure:"enable" json:"enable"`
	Rules  string `mapstructure:"rules" json:"rules"`
}

// EngineConfig configures the JSON-LD processor
type EngineConfig struct {
	ProcessingMode string           `mapstructure:"processing_mode" json:"processing_mode"`
	Contexts       []ContextMapping `mapstructure:"contexts" json:"contexts,omitempty"`
}

// ContextMapping serves a remote context from a local file.
type ContextMapping struct {
	URL  string `mapstructure:"url" json:"url"`
	File string `mapstructure:"file" json:"file"`
}

// ContextMap returns the context mappings keyed by URL.
func (e EngineConfig) ContextMap() map[string]string {
	out := make(map[string]string, len(e.Contexts))
	for _, c := range e.Contexts {
		out[c.URL] = c.File
	}
	return out
}

var defaultConfig = Config{
	Check: CheckConfig{
		Format: "text",
	},
	Lint: LintConfig{
		Enable: true,
		Rules:  "v1",
	},
	Engine: EngineConfig{
		ProcessingMode: "json-ld-1.1",
	},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	c := defaultConfig
	return &c
}

// projectConfigs are looked up in the working directory, in order.
var projectConfigs = []string{
	".specex.yaml",
	".specex.yml",
	"specex.yaml",
	"specex.yml",
}

// LoadConfig layers defaults, a config file and SPECEX_* environment
// variables. When path is empty the first project config in the working
// directory is used, then $SPECEX_HOME/config/specex.yaml. The result is
// validated against the embedded schema.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("check.example_dir", defaultConfig.Check.ExampleDir)
	v.SetDefault("check.yaml_dir", defaultConfig.Check.YAMLDir)
	v.SetDefault("check.format", defaultConfig.Check.Format)
	v.SetDefault("check.verbose", defaultConfig.Check.Verbose)
	v.SetDefault("lint.enable", defaultConfig.Lint.Enable)
	v.SetDefault("lint.rules", defaultConfig.Lint.Rules)
	v.SetDefault("engine.processing_mode", defaultConfig.Engine.ProcessingMode)

	v.SetEnvPrefix("SPECEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if source != "" {
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %v", source, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	config.Source = source

	data, err := json.Marshal(&config)
	if err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}
	if err := ValidateConfig(data, CurrentSchemaVersion); err != nil {
		return nil, err
	}
	return &config, nil
}

func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return path, nil
	}

	for _, name := range projectConfigs {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	home, err := GetSpecexHome()
	if err != nil {
		return "", nil
	}
	user := filepath.Join(home, "config", "specex.yaml")
	if _, err := os.Stat(user); err == nil {
		return user, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to inspect %s: %v", user, err)
	}
	return "", nil
}

// GetSpecexHome returns the specex home directory
func GetSpecexHome() (string, error) {
	if home := os.Getenv("SPECEX_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}
	return filepath.Join(homeDir, ".specex"), nil
}
