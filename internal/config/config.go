package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Config struct {
	Server struct {
		Host           string   `json:"host"`
		Port           int      `json:"port"`
		JWTSecret      string   `json:"jwtSecret"`
		AllowedOrigins []string `json:"allowedOrigins"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Geofence struct {
		SouthWest Coordinate `json:"southwest"`
		NorthEast Coordinate `json:"northeast"`
	} `json:"geofence"`
	Pins struct {
		DefaultDurationMinutes int `json:"default_duration_minutes"`
		SweepIntervalSeconds   int `json:"sweep_interval_seconds"`
	} `json:"pins"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton). Environment variables
// POSTGRES_DSN, JWT_SECRET and ALLOWED_ORIGINS take precedence over the file
// so deployments can keep secrets out of it.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		applyEnvOverrides(&c)
		if err := validate(&c); err != nil {
			cfgErr = err
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

func applyEnvOverrides(c *Config) {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		c.Postgres.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Server.JWTSecret = secret
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}
}

func validate(c *Config) error {
	if c.Server.JWTSecret == "" {
		return errors.New("jwtSecret must be set in config or JWT_SECRET")
	}
	if c.Geofence.SouthWest.Lat >= c.Geofence.NorthEast.Lat ||
		c.Geofence.SouthWest.Lng >= c.Geofence.NorthEast.Lng {
		return errors.New("geofence southwest corner must be south and west of northeast corner")
	}
	if c.Pins.DefaultDurationMinutes <= 0 {
		c.Pins.DefaultDurationMinutes = 60
	}
	if c.Pins.SweepIntervalSeconds <= 0 {
		c.Pins.SweepIntervalSeconds = 30
	}
	return nil
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
