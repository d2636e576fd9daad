package bootstrap

import (
	"context"
	"log"
	"math/rand"
	"time"

	"ai-triage-be/internal/config"
	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/controller"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/pkg/mailer"
	"ai-triage-be/internal/repository/memory"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/internal/service"
	"ai-triage-be/internal/websocket"
	"ai-triage-be/pkg/llm/factory"
	pktNats "ai-triage-be/pkg/nats"
	"ai-triage-be/pkg/triage/analyzer"
	"ai-triage-be/pkg/triage/classifier"
	"ai-triage-be/pkg/triage/code"
	"ai-triage-be/pkg/triage/policy"
	"ai-triage-be/pkg/triage/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	TriageController       controller.ITriageController
	WebhookController      controller.IWebhookController
	ReviewController       controller.IReviewController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	ConversationService service.IConversationService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 3. Classification Pipeline
	llmProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GroqAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	triageAnalyzer := analyzer.New(
		llmProvider,
		analyzer.DefaultFallbackProfiles(),
		time.Duration(cfg.Ai.TimeoutSec)*time.Second,
	)
	heuristic := classifier.NewHeuristic()
	escalationPolicy := policy.NewDefault()
	codeGenerator := code.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))

	machine := session.NewMachine(triageAnalyzer, heuristic, escalationPolicy, cfg.Triage.MaxTurns)

	// One triage per contact at a time. The lock lives in Redis so the rule
	// holds across instances; a single instance falls back to memory.
	var locker session.Locker
	if redisUp {
		locker = session.NewRedisLocker(rdb, time.Duration(cfg.Triage.SessionLockTTLSec)*time.Second)
	} else {
		log.Printf("[WARN] Redis unavailable, session locks are process-local")
		locker = session.NewMemoryLocker()
	}
	sessionCache := memory.NewSessionCache(time.Duration(cfg.Triage.SessionIdleMinutes) * time.Minute)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.TopicTriageCompleted,
		uowFactory,
		wsHub,
		natsPub,
		emailService,
	)

	authService := service.NewAuthService(uowFactory, sysLogger)
	triageService := service.NewTriageService(
		uowFactory,
		triageAnalyzer,
		escalationPolicy,
		codeGenerator,
		publisherService,
		sysLogger,
	)
	conversationService := service.NewConversationService(
		uowFactory,
		machine,
		locker,
		sessionCache,
		codeGenerator,
		publisherService,
		sysLogger,
	)
	reviewService := service.NewReviewService(uowFactory, publisherService, sysLogger)
	notificationService := service.NewNotificationService(uowFactory)

	// Staff email alerts feed off the NATS relay (Worker)
	if natsSub != nil {
		alertService := service.NewAlertService(natsSub, uowFactory, emailService, sysLogger)
		if err := alertService.Start(); err != nil {
			log.Printf("[WARN] Failed to start alert service: %v", err)
		}
	}

	// 5. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		TriageController:       controller.NewTriageController(triageService),
		WebhookController:      controller.NewWebhookController(conversationService),
		ReviewController:       controller.NewReviewController(reviewService),
		NotificationController: controller.NewNotificationController(notificationService, wsHub),

		ConsumerService:     consumerService,
		ConversationService: conversationService,
		WebSocketHub:        wsHub,
	}
}
