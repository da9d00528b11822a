// Package config loads the keeper configuration from a YAML file with
// environment-variable overrides for the endpoint and token.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmhoops/courtside/internal/models"
)

// RosterEntry is one configured player, keyed by jersey number.
type RosterEntry struct {
	Jersey string `yaml:"jersey"`
	Name   string `yaml:"name"`
}

// Config holds everything the statkeeper and photoserver binaries need.
type Config struct {
	// Endpoint is the Apps Script web-app URL of the remote store.
	Endpoint    string `yaml:"endpoint"`
	AccessToken string `yaml:"access_token"`

	Game struct {
		ID       string `yaml:"id"`
		HomeTeam string `yaml:"home_team"`
		AwayTeam string `yaml:"away_team"`
	} `yaml:"game"`

	Rosters struct {
		Home []RosterEntry `yaml:"home"`
		Away []RosterEntry `yaml:"away"`
	} `yaml:"rosters"`

	Photos struct {
		Dir  string `yaml:"dir"`
		Addr string `yaml:"addr"`
	} `yaml:"photos"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Endpoint = getEnv("COURTSIDE_ENDPOINT", cfg.Endpoint)
	cfg.AccessToken = getEnv("COURTSIDE_TOKEN", cfg.AccessToken)
	cfg.Photos.Addr = getEnv("COURTSIDE_PHOTOS_ADDR", cfg.Photos.Addr)
	if cfg.Photos.Addr == "" {
		cfg.Photos.Addr = ":8085"
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required (config or COURTSIDE_ENDPOINT)")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required (config or COURTSIDE_TOKEN)")
	}
	return &cfg, nil
}

// Roster materializes one side's configured players, deriving each
// player id from the side prefix plus jersey number. Duplicate jerseys
// would collide on id, so they are rejected.
func (c *Config) Roster(side models.Side) (models.Roster, error) {
	entries := c.Rosters.Home
	if side == models.SideAway {
		entries = c.Rosters.Away
	}

	prefix := models.PlayerIDPrefix(side)
	seen := make(map[string]struct{}, len(entries))
	roster := make(models.Roster, 0, len(entries))
	for _, e := range entries {
		id := prefix + e.Jersey
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate jersey %s on %s roster", e.Jersey, side)
		}
		seen[id] = struct{}{}
		roster = append(roster, models.Player{PlayerID: id, Jersey: e.Jersey, Name: e.Name})
	}
	return roster, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
