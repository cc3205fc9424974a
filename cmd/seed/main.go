package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"pindrop/internal/config"
	"pindrop/internal/db"
	"pindrop/internal/user"
)

// Seeds an admin account out of band. Roles are never changed through the
// API, so this is the only way to mint an admin.
func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -username <name> -password <pw>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("DB init error: %v", err)
	}

	var count int64
	if err := conn.Model(&user.User{}).Where("username = ?", *username).Count(&count).Error; err != nil {
		log.Fatalf("Failed to check existing users: %v", err)
	}
	if count > 0 {
		log.Fatalf("User %q already exists", *username)
	}

	pwHash, err := user.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	u := user.User{
		Username:     *username,
		PasswordHash: pwHash,
		Role:         user.RoleAdmin,
	}
	if err := conn.Create(&u).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin %q created (id %s)\n", u.Username, u.ID)
}
