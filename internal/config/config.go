// Package config assembles runtime options from an optional YAML file
// and environment overrides. When a WFS endpoint and feature type are
// both configured, ingestion prefers WFS over the CSV source.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// CSVURL is the tabular source: an http(s) URL or a local path.
	CSVURL string `yaml:"csv_url"`

	WFSBaseURL  string `yaml:"wfs_base_url"`
	WFSTypeName string `yaml:"wfs_type_name"`

	// ImageBaseURL prefixes panorama filenames without absolute URLs.
	ImageBaseURL string `yaml:"image_base_url"`

	PlaybackIntervalMs int `yaml:"playback_interval_ms"`
}

func Default() Config {
	return Config{
		CSVURL:             "metadata.csv",
		PlaybackIntervalMs: 1000,
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config parse: %w", err)
		}
	}
	cfg.applyEnv()
	if cfg.PlaybackIntervalMs <= 0 {
		cfg.PlaybackIntervalMs = 1000
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.CSVURL, "PANOMAP_CSV_URL")
	setIfPresent(&c.WFSBaseURL, "PANOMAP_WFS_URL")
	setIfPresent(&c.WFSTypeName, "PANOMAP_WFS_TYPENAME")
	setIfPresent(&c.ImageBaseURL, "PANOMAP_IMAGE_BASE")
	if v := os.Getenv("PANOMAP_PLAYBACK_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.PlaybackIntervalMs = ms
		}
	}
}

// UseWFS reports whether the WFS source is fully configured.
func (c Config) UseWFS() bool {
	return c.WFSBaseURL != "" && c.WFSTypeName != ""
}
