package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/amolina-dev/storefront/internal/products"
	"github.com/amolina-dev/storefront/internal/seed"
	"github.com/amolina-dev/storefront/internal/stores"
	"github.com/amolina-dev/storefront/pkg/config"
	"github.com/amolina-dev/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "store"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "store",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":            cfg.App.Env,
		"legacy_pricing": cfg.Pricing.LegacyThirdFree,
	})

	opts := seed.Options{LegacyThirdFree: cfg.Pricing.LegacyThirdFree}
	var catalog []products.Product
	if cfg.Catalog.SeedFile != "" {
		catalog, err = seed.Load(cfg.Catalog.SeedFile, opts)
	} else {
		if cfg.App.IsProd() {
			logg.Warn(ctx, "no seed file configured, using built-in catalog")
		}
		catalog, err = seed.DefaultProducts(opts)
	}
	if err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}

	store, err := stores.New(logg, catalog...)
	if err != nil {
		logg.Error(ctx, "failed to build store", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "products", len(catalog)), "store ready")

	m := newMenu(store, os.Stdin, os.Stdout, cfg.App.IsDev())
	m.run(ctx)
}
