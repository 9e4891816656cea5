// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
)

// Config holds configurable options for the boardfund server.
type Config struct {
	Port        int           `env:"PORT" envDefault:"8080"`
	DBPath      string        `env:"DB_PATH" envDefault:"./data/boardfund.db"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsPath string        `env:"METRICS_PATH" envDefault:"/metrics"`

	// Assets are the ledgers the server keeps. Funds may only hold these.
	Assets []string `env:"ASSETS" envSeparator:"," envDefault:"BTK"`

	// Seed credits development balances at startup to accounts that hold
	// nothing yet, as comma separated asset:account:amount entries.
	Seed seedList `env:"SEED"`
}

// Mint is one seeded balance.
type Mint struct {
	Asset   string
	Account models.Address
	Amount  decimal.Decimal
}

type seedList []Mint

// Load parses the environment.
func Load() (Config, error) {
	var c Config
	if err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(seedList{}): parseSeed,
	}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(c.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	for _, m := range c.Seed {
		if !c.HasAsset(m.Asset) {
			return Config{}, fmt.Errorf("seed entry for %s: asset %q is not in ASSETS", m.Account, m.Asset)
		}
	}
	return c, nil
}

// HasAsset reports whether asset is configured.
func (c Config) HasAsset(asset string) bool {
	for _, a := range c.Assets {
		if a == asset {
			return true
		}
	}
	return false
}

func parseSeed(v string) (interface{}, error) {
	var seeds seedList
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("seed entry %q: want asset:account:amount", entry)
		}
		amount, err := decimal.NewFromString(parts[2])
		if err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("seed entry %q: invalid amount", entry)
		}
		seeds = append(seeds, Mint{Asset: parts[0], Account: models.Address(parts[1]), Amount: amount})
	}
	return seeds, nil
}
