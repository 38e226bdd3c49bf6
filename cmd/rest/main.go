package main

import (
	"context"
	"log"
	"os"

	"medvault-be/internal/bootstrap"
	"medvault-be/internal/config"
	"medvault-be/internal/server"
	"medvault-be/internal/tracer"
	"medvault-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op exporter unless OTEL_ENABLED=true)
	if os.Getenv("OTEL_ENABLED") == "true" {
		shutdownTracer := tracer.InitTracer()
		defer shutdownTracer(context.Background())
	}

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Parser Consumer Service...")
		if err := container.ParserConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
