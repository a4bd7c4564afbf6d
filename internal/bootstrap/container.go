package bootstrap

import (
	"context"
	"log"

	"sitebuilder-be/internal/config"
	"sitebuilder-be/internal/controller"
	"sitebuilder-be/internal/handler"
	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/internal/relay"
	"sitebuilder-be/internal/repository/implementation"
	"sitebuilder-be/internal/repository/memory"
	"sitebuilder-be/internal/service"
	"sitebuilder-be/pkg/generation/factory"

	pktNats "sitebuilder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	BuilderController    controller.IBuilderController
	ProjectController    controller.IProjectController
	GenerationController controller.IGenerationController

	// WebSocket
	PreviewHandler *handler.PreviewHandler
	RelayHub       *relay.Hub

	// Background services (exposed for main.go to run)
	PreviewForwarder service.IPreviewForwarder
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	// A buffered output channel so session mutations never block on the
	// forwarder catching up.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional, project lifecycle events only)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (optional, mirrors preview frames across instances)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// Preview relay hub
	relayLogger := logger.NewIsolatedLogger(cfg.Preview.LogFile)
	hub := relay.NewHub(relay.Config{
		Heartbeat: cfg.Preview.Heartbeat,
		Staleness: cfg.Preview.Staleness,
	}, rdb, relayLogger)
	go hub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(service.DocumentChangedTopic, pubSub, sysLogger)
	previewForwarder := service.NewPreviewForwarder(pubSub, service.DocumentChangedTopic, hub, relayLogger)

	sessionRepo := memory.NewSessionRepository(cfg.Builder.SessionTTL)
	builderService := service.NewBuilderService(sessionRepo, publisherService, cfg.Builder.HistoryLimit, sysLogger)

	projectRepo := implementation.NewProjectRepository(db)
	projectService := service.NewProjectService(projectRepo, builderService, natsPub, sysLogger)

	provider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize generation provider: %v", err)
	}
	log.Printf("[INFO] Using generation provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)
	generationService := service.NewGenerationService(builderService, provider, sysLogger)

	// 4. Controllers
	return &Container{
		BuilderController:    controller.NewBuilderController(builderService),
		ProjectController:    controller.NewProjectController(projectService),
		GenerationController: controller.NewGenerationController(generationService),

		PreviewHandler: handler.NewPreviewHandler(hub, relayLogger),
		RelayHub:       hub,

		PreviewForwarder: previewForwarder,
	}
}
