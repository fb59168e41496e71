package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"reservations.db"`

	Timezone               string        `envconfig:"TIMEZONE" default:"Europe/Rome"`
	DefaultBookingDuration time.Duration `envconfig:"DEFAULT_BOOKING_DURATION" default:"2h"`
	ResyncInterval         time.Duration `envconfig:"RESYNC_INTERVAL" default:"1m"`

	CORSOrigin     string  `envconfig:"CORS_ORIGIN" default:"*"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`

	SnapshotRetention int `envconfig:"SNAPSHOT_RETENTION" default:"5"`

	MQURL      string `envconfig:"MQ_URL"`
	MQExchange string `envconfig:"MQ_EXCHANGE" default:"reservations.events"`

	SeedTables string `envconfig:"SEED_TABLES" default:"T1:4,T2:4,T3:6"`
}

// Load membaca .env (jika ada) lalu environment variable ke Config.
func Load() (*Config, error) {
	// .env bersifat opsional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.DefaultBookingDuration <= 0 {
		return nil, fmt.Errorf("DEFAULT_BOOKING_DURATION must be positive, got %s", cfg.DefaultBookingDuration)
	}
	if cfg.SnapshotRetention < 1 {
		cfg.SnapshotRetention = 1
	}
	return &cfg, nil
}

// Location resolves the restaurant timezone once.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Reservation builds the core configuration shared by every operation.
func (c *Config) Reservation() (reservation.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return reservation.Config{}, err
	}
	return reservation.Config{
		Location:        loc,
		DefaultDuration: c.DefaultBookingDuration,
	}, nil
}

// Tables parses SEED_TABLES ("name:seats,name:seats").
func (c *Config) Tables() ([]models.LayoutTable, error) {
	var out []models.LayoutTable
	for i, part := range strings.Split(c.SeedTables, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, seatsStr, ok := strings.Cut(part, ":")
		seats := 4
		if ok {
			n, err := strconv.Atoi(strings.TrimSpace(seatsStr))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("SEED_TABLES: invalid seats in %q", part)
			}
			seats = n
		}
		out = append(out, models.LayoutTable{
			Name:  strings.TrimSpace(name),
			Seats: seats,
			X:     float64(i%5) * 120,
			Y:     float64(i/5) * 120,
		})
	}
	return out, nil
}
