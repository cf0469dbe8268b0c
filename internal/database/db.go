package database

import (
	"log"

	"github.com/augentlabs/innovation-hub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the Postgres connection and runs migrations.
func Connect(dsn string) *gorm.DB {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	DB.AutoMigrate(
		&models.Idea{},
		&models.Review{},
		&models.WorkflowRun{},
		&models.CompanyResearchCache{},
		&models.SessionToken{},
	)
	return DB
}
