package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ownstays/settlement-service/internal/app"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// settlement-admin is the operational companion to the server: it applies
// the schema and seeds demo reference data. It only needs DB_URL, so it
// deliberately skips the full server config load.

var schemaPath string

func main() {
	utils.InitLogger("settlement-admin")

	rootCmd := &cobra.Command{
		Use:   "settlement-admin",
		Short: "Admin tooling for the settlement service database",
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), runMigrate)
		},
	}
	migrateCmd.Flags().StringVar(&schemaPath, "schema", "migrations/schema.sql", "path to the schema file")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo collections, units and pricing tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), runSeed)
		},
	}

	rootCmd.AddCommand(migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		utils.Logger.WithError(err).Error("settlement-admin failed")
		os.Exit(1)
	}
}

func withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	// .env is a dev convenience; deployed environments inject real env vars.
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return fmt.Errorf("DB_URL env var is missing")
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.Connect(connCtx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer pool.Close()

	return fn(ctx, pool)
}

func runMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	ddl, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file %s: %w", schemaPath, err)
	}

	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	utils.Logger.Infof("Applied schema from %s", schemaPath)
	return nil
}

func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	collectionRepo := repositories.NewCollectionRepository(pool)
	unitRepo := repositories.NewUnitRepository(pool)
	tierRepo := repositories.NewPricingTierRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	affiliateRepo := repositories.NewAffiliateLinkRepository(pool)

	if err := app.SeedDemoData(ctx, collectionRepo, unitRepo, tierRepo, userRepo, affiliateRepo); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	utils.Logger.Info("Seed complete")
	return nil
}
