package config

import (
	"log"
	"os"
	"time"

	"postboard/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to Postgres, tunes the pool and runs migrations.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=postboard sslmode=disable"
		log.Println("No DATABASE_URL set, using default DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
