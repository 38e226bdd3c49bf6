package bootstrap

import (
	"context"
	"log"

	"medvault-be/internal/config"
	"medvault-be/internal/controller"
	"medvault-be/internal/handler"
	"medvault-be/internal/pkg/logger"
	"medvault-be/internal/pkg/mailer"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/repository/memory"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/internal/service"
	"medvault-be/internal/websocket"
	"medvault-be/pkg/embedding"
	"medvault-be/pkg/filestore"
	pktNats "medvault-be/pkg/nats"
	"medvault-be/pkg/secret"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	DocumentController controller.IDocumentController
	SearchController   controller.ISearchController
	SettingsController controller.ISettingsController
	ViewerController   controller.IViewerController

	// Background services, run by main
	ParserConsumerService service.IParserConsumerService

	// WebSockets & notifications
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	fileStore := filestore.NewStore(cfg.Storage.UploadDir, cfg.Storage.MaxFileSize)

	// Event bus (in-process work queue for parsing)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using embedding provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		log.Printf("[INFO] No embedding provider configured; semantic report search disabled")
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// API keys are encrypted at rest; without a dedicated secret the JWT
	// secret doubles as the encryption passphrase.
	keyPassphrase := cfg.Auth.ApiKeySecret
	if keyPassphrase == "" {
		keyPassphrase = cfg.Auth.JwtSecret
	}
	keyEncryptor, err := secret.NewEncryptor(keyPassphrase)
	if err != nil {
		log.Panicf("[ERROR] Failed to initialize API key encryptor: %v", err)
	}

	// Services
	tokens := service.NewTokenIssuer(cfg.Auth.JwtSecret, cfg.Auth.AccessTokenMinutes, cfg.Auth.RefreshTokenDays)
	authService := service.NewAuthService(uowFactory, tokens, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, tokens, cfg.Auth)

	documentService := service.NewDocumentService(uowFactory, fileStore, pubSub, cfg.Storage.UploadedTopic, rdb, natsPub)
	reportService := service.NewReportService(uowFactory)
	searchService := service.NewSearchService(uowFactory, embeddingProvider)
	settingsService := service.NewSettingsService(uowFactory, keyEncryptor)

	viewerSessions := memory.NewViewerSessionRepository()
	viewerService := service.NewViewerService(uowFactory, fileStore, viewerSessions, sysLogger)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	parserConsumer := service.NewParserConsumerService(
		pubSub,
		cfg.Storage.UploadedTopic,
		uowFactory,
		fileStore,
		cfg.Ai,
		embeddingProvider,
		notifService,
		natsPub,
		keyEncryptor,
	)

	authMw := serverutils.JwtMiddleware(authService.VerifyAccessToken)
	notifHandler := handler.NewNotificationHandler(authService.VerifyAccessToken, wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService, authMw),
		OAuthController:    controller.NewOAuthController(oauthService, cfg.App.ClientURL),
		DocumentController: controller.NewDocumentController(documentService, reportService, authMw),
		SearchController:   controller.NewSearchController(searchService, authMw),
		SettingsController: controller.NewSettingsController(settingsService, authMw),
		ViewerController:   controller.NewViewerController(viewerService, authMw),

		ParserConsumerService: parserConsumer,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
