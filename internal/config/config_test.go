package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/parking
interval: 5m
cities:
  basel:
    name: Basel
    api_url: https://api.parkendd.de/Basel
    adapter: parkendd
  bern:
    name: Bern
    api_url: https://example.com/bern
    enabled: false
    adapter: parkendd
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DataDir != "/var/lib/parking" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.Interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", cfg.Interval)
	}
	if len(cfg.Cities) != 2 {
		t.Fatalf("got %d cities, want 2", len(cfg.Cities))
	}

	basel := cfg.Cities[0]
	if basel.ID != "basel" || basel.Name != "Basel" || basel.Adapter != "parkendd" {
		t.Errorf("basel entry = %+v", basel)
	}
	if !basel.Enabled {
		t.Error("enabled must default to true")
	}
	if cfg.Cities[1].Enabled {
		t.Error("bern is explicitly disabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
cities:
  basel:
    name: Basel
    api_url: https://api.parkendd.de/Basel
    adapter: parkendd
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("data dir = %q, want default 'data'", cfg.DataDir)
	}
	if cfg.Interval != 15*time.Minute {
		t.Errorf("interval = %v, want default 15m", cfg.Interval)
	}
}

func TestLoadFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no cities", `data_dir: data`},
		{"missing url", `
cities:
  basel:
    name: Basel
    adapter: parkendd
`},
		{"missing name", `
cities:
  basel:
    api_url: https://api.parkendd.de/Basel
    adapter: parkendd
`},
		{"bad url", `
cities:
  basel:
    name: Basel
    api_url: "not a url"
    adapter: parkendd
`},
		{"bad yaml", `cities: [`},
		{"bad interval", `
interval: every now and then
cities:
  basel:
    name: Basel
    api_url: https://api.parkendd.de/Basel
    adapter: parkendd
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("want an error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("want an error for a missing config file")
	}
}
