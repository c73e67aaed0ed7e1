package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// DefaultPath is where the city registry lives unless overridden by flag
// or PARKING_CONFIG.
const DefaultPath = "config/cities.yaml"

var validate = validator.New()

// AppConfig is the resolved runtime configuration.
type AppConfig struct {
	// DataDir is the root of the snapshot tree.
	DataDir string

	// Interval between collection cycles in watch mode.
	Interval time.Duration

	// Port for the status API.
	Port string

	// Cities to collect, sorted by id.
	Cities []parking.City
}

// fileConfig mirrors the cities.yaml layout.
type fileConfig struct {
	DataDir  string               `yaml:"data_dir"`
	Interval string               `yaml:"interval"`
	Cities   map[string]cityEntry `yaml:"cities" validate:"required,min=1,dive"`
}

type cityEntry struct {
	Name    string `yaml:"name" validate:"required"`
	APIURL  string `yaml:"api_url" validate:"required,url"`
	Enabled *bool  `yaml:"enabled"`
	Adapter string `yaml:"adapter" validate:"required"`
}

// Load reads the city registry from path and applies environment
// overrides. Any missing or unparseable piece is fatal to the caller:
// there is nothing sensible to collect without a valid registry.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	if path == "" {
		path = getenvDefault("PARKING_CONFIG", DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate.Struct(fc); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg := &AppConfig{
		DataDir: getenvDefault("PARKING_DATA_DIR", fc.DataDir),
		Port:    getenvDefault("PORT", "8080"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	intervalStr := getenvDefault("PARKING_INTERVAL", fc.Interval)
	if intervalStr == "" {
		intervalStr = "15m"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid interval %q: %w", intervalStr, err)
	}
	cfg.Interval = interval

	ids := make([]string, 0, len(fc.Cities))
	for id := range fc.Cities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry := fc.Cities[id]
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
		cfg.Cities = append(cfg.Cities, parking.City{
			ID:      id,
			Name:    entry.Name,
			URL:     entry.APIURL,
			Enabled: enabled,
			Adapter: entry.Adapter,
		})
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
