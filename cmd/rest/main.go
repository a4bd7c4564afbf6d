package main

import (
	"context"
	"log"

	"sitebuilder-be/internal/bootstrap"
	"sitebuilder-be/internal/config"
	"sitebuilder-be/internal/server"
	"sitebuilder-be/internal/tracer"
	"sitebuilder-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.RelayHub.Shutdown()

	// 4. Start Background Services
	if err := container.PreviewForwarder.Consume(context.Background()); err != nil {
		log.Fatalf("Unable to start preview forwarder: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
