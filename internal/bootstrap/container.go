package bootstrap

import (
	"context"
	"log"
	"time"

	"ea-licensing-be/internal/config"
	"ea-licensing-be/internal/controller"
	"ea-licensing-be/internal/handler"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/pkg/mailer"
	"ea-licensing-be/internal/repository/memory"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/internal/service"
	"ea-licensing-be/internal/websocket"
	"ea-licensing-be/pkg/events"
	"ea-licensing-be/pkg/lock"
	pktNats "ea-licensing-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	lockExpiry = 10 * time.Second
	lockTries  = 32
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	LicenseController controller.ILicenseController
	PaymentController controller.IPaymentController
	AccessController  controller.IAccessController
	RewardController  controller.IRewardController
	AdminController   controller.IAdminController
	PlanController    controller.PlanController

	// Core services, exposed for cmd/scheduler
	LicenseService      service.ILicenseService
	SubscriptionService service.ISubscriptionService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
	Clock  service.Clock

	closers []func()
}

// Close releases broker connections.
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

// XPWindows turns the promo calendar from config into multiplier windows.
func XPWindows(cfg config.RewardConfig) []service.XPWindow {
	if cfg.PromoStart.IsZero() || cfg.PromoEnd.IsZero() {
		return nil
	}
	return []service.XPWindow{{Start: cfg.PromoStart, End: cfg.PromoEnd}}
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	clock := service.Clock(service.UTCNow)
	c := &Container{Logger: sysLogger, Clock: clock}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	// NATS
	var emitter events.Emitter = events.NopEmitter{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		emitter = events.NewBusEmitter(natsPub, sysLogger)
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
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
	var locker lock.Locker
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-process locks", err)
		locker = lock.NewLocalLocker()
		rdb = nil
	} else {
		locker = lock.NewRedsyncLocker(rdb, lockExpiry, lockTries)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.NotificationLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(context.Background())

	// 3. Notification outbox
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		logger.NewWatermillAdapter(wsLogger, "WATERMILL"),
	)
	var publisher message.Publisher
	if cfg.App.NotificationsEnabled {
		publisher = pubSub
	}
	notifService := service.NewNotificationService(uowFactory, publisher, emitter, clock, wsLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.NotificationTopic,
		emailService,
		wsHub, // Hub implements NotificationDelivery
		wsLogger,
	)

	// 4. Services
	credentialCache := memory.NewCredentialCache(cfg.Auth.ApiKeyCacheTTL)
	windows := XPWindows(cfg.Reward)

	rewardService := service.NewRewardService(uowFactory, locker, notifService, windows, clock, sysLogger)
	authService := service.NewAuthService(
		uowFactory,
		rewardService,
		notifService,
		credentialCache,
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		clock,
		sysLogger,
	)
	licenseService := service.NewLicenseService(uowFactory, notifService, clock, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, notifService, cfg.Scheduler.ReminderWindowDays, clock, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, notifService, windows, clock, sysLogger)
	accessService := service.NewAccessService(uowFactory, clock)
	learningService := service.NewLearningService(uowFactory, clock)
	auditService := service.NewAuditService(uowFactory, clock)
	adminService := service.NewAdminService(uowFactory, emitter, clock, sysLogger)
	planService := service.NewPlanService(uowFactory)

	// A blocked user must not keep working through a cached API key on any instance.
	if natsSub != nil {
		err := natsSub.Subscribe(context.Background(), events.UserStatusChanged, "", func(ctx context.Context, e events.Event) error {
			credentialCache.Flush()
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to %s: %v", events.UserStatusChanged, err)
		}
	}

	c.LicenseService = licenseService
	c.SubscriptionService = subscriptionService

	// 5. Controllers
	secret := cfg.Auth.JWTSecret
	c.NotificationHandler = handler.NewNotificationHandler(notifService, wsHub, secret, wsLogger)
	c.WebSocketHub = wsHub
	c.AuthController = controller.NewAuthController(authService, secret)
	c.LicenseController = controller.NewLicenseController(licenseService, authService, secret)
	c.PaymentController = controller.NewPaymentController(paymentService, subscriptionService, authService, secret)
	c.AccessController = controller.NewAccessController(accessService, learningService, secret)
	c.RewardController = controller.NewRewardController(rewardService, auditService, secret)
	c.AdminController = controller.NewAdminController(adminService, paymentService, licenseService, subscriptionService, clock, secret)
	c.PlanController = controller.NewPlanController(planService)

	return c
}
