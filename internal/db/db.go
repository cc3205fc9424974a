package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pindrop/internal/config"
	"pindrop/internal/pin"
	"pindrop/internal/user"
)

// Open connects to Postgres and migrates the schema. The returned handle is
// safe for concurrent use and gets passed into handlers explicitly so tests
// can swap in an in-memory database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := conn.AutoMigrate(&user.User{}, &pin.Pin{}); err != nil {
		return nil, err
	}

	log.Printf("Database connected and migrated")
	return conn, nil
}
