package database

import (
	"log"

	"agora/models"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Forum{},
		&models.Post{},
		&models.Comment{},
		&models.Session{},
	)

	if err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}

// Prepare migrates db and loads the fixture data when it is empty.
func Prepare(db *gorm.DB, passwordCost int) error {
	if err := RunMigrations(db); err != nil {
		return err
	}
	return Seed(db, passwordCost)
}
