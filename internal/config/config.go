// Package config loads server configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           int     `env:"PORT" envDefault:"8080"`
	DataDir        string  `env:"DATA_DIR"`
	MinFormSeconds float64 `env:"MIN_FORM_SECONDS" envDefault:"1.5"`
	RateLimit      int     `env:"RATE_LIMIT" envDefault:"30"`
	HoneypotField  string  `env:"HONEYPOT_FIELD" envDefault:"website"`
}

func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
