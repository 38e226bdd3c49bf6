package main

import (
	"log"
	"os"
	"time"

	"medvault-be/internal/model"
	"medvault-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo account with a small family so the app is usable right
// after a fresh migration. Idempotent: skips anything that already exists.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo data...")

	var user model.User
	if err := db.Where("email = ?", "demo@medvault.app").First(&user).Error; err == nil {
		color.Yellow("Demo user already exists, skipping user creation")
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error: Failed to hash password: %v", err)
		}
		passwordHash := string(hash)
		username := "demo"
		fullName := "Demo User"

		user = model.User{
			Email:        "demo@medvault.app",
			Username:     &username,
			FullName:     &fullName,
			PasswordHash: &passwordHash,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Error: Failed to create demo user: %v", err)
		}
		color.Green("Created demo user demo@medvault.app (password: demo1234)")
	}

	selfRelation := "self"
	spouseRelation := "spouse"
	childRelation := "child"
	male := "male"
	female := "female"
	dobSelf := time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC)
	dobSpouse := time.Date(1987, 7, 2, 0, 0, 0, 0, time.UTC)
	dobChild := time.Date(2015, 11, 23, 0, 0, 0, 0, time.UTC)
	bloodO := "O+"

	patients := []model.Patient{
		{UserId: user.Id, Name: "Demo User", DateOfBirth: &dobSelf, Gender: &male, BloodGroup: &bloodO, RelationToUser: &selfRelation},
		{UserId: user.Id, Name: "Jane Demo", DateOfBirth: &dobSpouse, Gender: &female, RelationToUser: &spouseRelation},
		{UserId: user.Id, Name: "Sam Demo", DateOfBirth: &dobChild, Gender: &male, RelationToUser: &childRelation},
	}

	for _, p := range patients {
		var existing model.Patient
		if err := db.Where("user_id = ? AND name = ?", p.UserId, p.Name).First(&existing).Error; err == nil {
			color.Yellow("Patient '%s' already exists, skipping", p.Name)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("Error: Failed to create patient '%s': %v", p.Name, err)
		}
		color.Green("Created patient '%s'", p.Name)
	}

	color.Green("Success: Seeding completed.")
}
