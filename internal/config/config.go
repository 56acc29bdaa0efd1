// Package config reads the optional sparkify.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	Username            string `yaml:"username"`
	SSLMode             string `yaml:"sslmode"`
	MaintenanceDatabase string `yaml:"maintenance_database,omitempty"`
	AuthMethod          string `yaml:"auth_method,omitempty"`
	AzureTenantID       string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID       string `yaml:"azure_client_id,omitempty"`
	AWSRegion           string `yaml:"aws_region,omitempty"`
	GoogleInstance      string `yaml:"google_instance,omitempty"`
}

type DataConfig struct {
	SongPath string `yaml:"song_path"`
	LogPath  string `yaml:"log_path"`
	Pattern  string `yaml:"pattern"`
}

type LookupConfig struct {
	// Pointer so that an explicit 0 (exact match) is distinguishable from unset.
	DurationTolerance *float64 `yaml:"duration_tolerance"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Data       DataConfig       `yaml:"data"`
	Lookup     LookupConfig     `yaml:"lookup"`
	Timeout    string           `yaml:"timeout"`
}

const ConfigFileName = "sparkify.yaml"

// Load reads sparkify.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a project file from an explicit path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, err)
	}
	return d, nil
}
