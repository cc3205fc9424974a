package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pindrop/internal/api"
	"pindrop/internal/config"
	"pindrop/internal/db"
	"pindrop/internal/pin"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	conn, err := db.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	// Expired pins get removed in the background, off the request path
	sweeper := pin.NewSweeper(conn, time.Duration(cfg.Pins.SweepIntervalSeconds)*time.Second)
	go sweeper.Start()

	r := api.SetupRouter(cfg, conn)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s\n", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
