package main

import (
	"log"

	"github.com/sysdash/sysdash-agent/config"
	"github.com/sysdash/sysdash-agent/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Kill policy: %d allowlisted names, %d kills/min",
		len(cfg.KillAllowlist), cfg.KillRateLimitPerMin)

	// Create and run server
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
