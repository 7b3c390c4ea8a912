package main

import (
	"context"
	"os"

	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/internal/service"
	"ea-licensing-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		color.Yellow("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Extensions (gen_random_uuid defaults)
	color.Yellow("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate All Models
	models := model.All()
	color.Yellow("Step 2: Running AutoMigrate for %d Tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	// 5. Seed the reward catalog
	color.Yellow("Step 3: Seeding badges and referral config...")
	if err := service.SeedRewardCatalog(context.Background(), unitofwork.NewRepositoryFactory(db)); err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Migration completed successfully")
}
