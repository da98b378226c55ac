package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CSVURL != "metadata.csv" {
		t.Errorf("CSVURL = %q; want metadata.csv", cfg.CSVURL)
	}
	if cfg.PlaybackIntervalMs != 1000 {
		t.Errorf("PlaybackIntervalMs = %d; want 1000", cfg.PlaybackIntervalMs)
	}
	if cfg.UseWFS() {
		t.Error("UseWFS true with no WFS settings")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panomap.yaml")
	doc := `csv_url: https://example.com/points.csv
wfs_base_url: https://geo.example.com/geoserver/wfs
wfs_type_name: pano:points
image_base_url: https://img.example.com/panos
playback_interval_ms: 250
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CSVURL != "https://example.com/points.csv" {
		t.Errorf("CSVURL = %q", cfg.CSVURL)
	}
	if !cfg.UseWFS() {
		t.Error("UseWFS false with base URL and type name set")
	}
	if cfg.WFSTypeName != "pano:points" {
		t.Errorf("WFSTypeName = %q", cfg.WFSTypeName)
	}
	if cfg.PlaybackIntervalMs != 250 {
		t.Errorf("PlaybackIntervalMs = %d; want 250", cfg.PlaybackIntervalMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PANOMAP_CSV_URL", "local.csv")
	t.Setenv("PANOMAP_WFS_URL", "https://env.example.com/wfs")
	t.Setenv("PANOMAP_WFS_TYPENAME", "env:layer")
	t.Setenv("PANOMAP_PLAYBACK_MS", "500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CSVURL != "local.csv" {
		t.Errorf("CSVURL = %q", cfg.CSVURL)
	}
	if !cfg.UseWFS() || cfg.WFSBaseURL != "https://env.example.com/wfs" {
		t.Errorf("WFS config = %q %q", cfg.WFSBaseURL, cfg.WFSTypeName)
	}
	if cfg.PlaybackIntervalMs != 500 {
		t.Errorf("PlaybackIntervalMs = %d; want 500", cfg.PlaybackIntervalMs)
	}
}

func TestInvalidIntervalFallsBack(t *testing.T) {
	t.Setenv("PANOMAP_PLAYBACK_MS", "-5")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PlaybackIntervalMs != 1000 {
		t.Errorf("PlaybackIntervalMs = %d; want default 1000", cfg.PlaybackIntervalMs)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
