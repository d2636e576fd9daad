package main

import (
	"log"
	"os"
	"time"

	"ai-triage-be/internal/model"
	"ai-triage-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the staff accounts and a demo patient so a fresh install has
// someone to log into the review queue with.
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

	color.Cyan("🚀 Seeding triage staff accounts\n")

	defaultPassword := os.Getenv("SEED_DEFAULT_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "changeme123"
		color.Yellow("SEED_DEFAULT_PASSWORD not set, using the default")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}
	hashStr := string(hash)

	users := []model.User{
		{Email: "admin@triagem.local", FullName: "Administrador", Role: "admin", Status: "active", PasswordHash: &hashStr},
		{Email: "enfermeira@triagem.local", FullName: "Enfermeira de Triagem", Role: "nurse", Status: "active", PasswordHash: &hashStr},
		{Email: "medico@triagem.local", FullName: "Médico Plantonista", Role: "doctor", Status: "active", PasswordHash: &hashStr},
		{Email: "paciente.demo@triagem.local", FullName: "Paciente Demonstração", Role: "patient", Status: "active", PasswordHash: &hashStr},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.Email)
			continue
		}

		if err := db.Create(&u).Error; err != nil {
			color.Red("Failed to create user '%s': %v", u.Email, err)
			continue
		}
		color.Green("Created user: %s (%s)", u.Email, u.Role)

		if u.Role == "patient" {
			birth := time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)
			blood := "O+"
			details := model.PatientDetails{
				UserId:    u.Id,
				Contact:   "+5511999990000",
				BirthDate: &birth,
				BloodType: &blood,
			}
			if err := db.Create(&details).Error; err != nil {
				color.Red("Failed to create patient details for '%s': %v", u.Email, err)
			} else {
				color.Green("Created patient details for: %s", u.Email)
			}
		}
	}

	color.Cyan("\n✅ Seeding completed")
}
