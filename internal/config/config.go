// Package config loads the server configuration from a YAML file, with
// sensible defaults for anything left unset. Command-line flags override
// file values in cmd/suko.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr           string `yaml:"addr"`
	DataDir        string `yaml:"dataDir"`
	HighscorePath  string `yaml:"highscorePath"`
	LogLevel       string `yaml:"logLevel"`
	Mode           string `yaml:"mode"` // default solve mode: logical|search|hybrid
	MaxSolveSteps  int    `yaml:"maxSolveSteps"`
	RequestTimeout int    `yaml:"requestTimeoutSeconds"`
}

func Default() Server {
	return Server{
		Addr:           ":8080",
		DataDir:        "./data",
		HighscorePath:  "./data/highscores.json",
		LogLevel:       "info",
		Mode:           "hybrid",
		RequestTimeout: 30,
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged.
func Load(path string) (Server, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
