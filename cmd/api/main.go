package main

import (
	"log"

	"github.com/harikaa2703/ArogyaKrishi/internal/bootstrap"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
