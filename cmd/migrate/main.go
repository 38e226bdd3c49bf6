package main

import (
	"log"
	"os"

	"medvault-be/internal/model"
	"medvault-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	color.Yellow("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.Yellow("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.UserRefreshToken{},
		&model.PasswordResetToken{},
		&model.Patient{},
		&model.Document{},
		&model.Prescription{},
		&model.Medicine{},
		&model.MedicalReport{},
		&model.ReportEmbedding{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: ANN index for report similarity search
	color.Yellow("Step 3: Creating vector index...")

	indexSQL := `CREATE INDEX IF NOT EXISTS idx_report_embeddings_embedding
		ON report_embeddings USING hnsw (embedding vector_cosine_ops);`
	if err := db.Exec(indexSQL).Error; err != nil {
		color.Red("Warn: Failed to create vector index: %v", err)
	}

	color.Green("Success: Database migration completed via GORM.")
}
