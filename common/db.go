package common

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDb opens the SQLite database backing the mock backend.
func ConnectDb(dbFile string) (*gorm.DB, error) {
	if dbFile == "" {
		return nil, fmt.Errorf("mock database path not set")
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %q: %w", dbFile, err)
	}

	// SQLite allows a single writer; one connection keeps post numbering serial.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Println("opened sqlite db at:", dbFile)
	return db, nil
}

// CloseDb releases the connection pool behind db.
func CloseDb(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
