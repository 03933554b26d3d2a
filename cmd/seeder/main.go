package main

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"crmhub/internal/config"
	"crmhub/internal/repositories"
	"crmhub/internal/services"
	"crmhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()
	if err := cfg.RequireDatabase(); err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		zlog.Fatal().Err(err).Msg("failed to apply schema")
	}

	summary, err := services.NewSeedService(repositories.NewStore(pool)).Seed(ctx)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed database")
	}
	fmt.Printf("Seeded %d customers, %d products, %d orders (%d items)\n",
		summary.Customers, summary.Products, summary.Orders, summary.OrderItems)
}
