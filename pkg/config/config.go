package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, exported for tests and tooling.
const (
	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvLogLevel        = "STOREFRONT_LOG_LEVEL"
	EnvCatalogSeedFile = "STOREFRONT_CATALOG_SEED_FILE"
	EnvLegacyThirdFree = "STOREFRONT_PRICING_LEGACY_THIRD_FREE"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Pricing PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	// SeedFile points at a JSON catalog definition. Empty means the
	// built-in default catalog.
	SeedFile string `envconfig:"STOREFRONT_CATALOG_SEED_FILE"`
}

type PricingConfig struct {
	// LegacyThirdFree reproduces the historical third-one-free formula,
	// which undercharges quantities that are not a multiple of three.
	LegacyThirdFree bool `envconfig:"STOREFRONT_PRICING_LEGACY_THIRD_FREE" default:"false"`
}
