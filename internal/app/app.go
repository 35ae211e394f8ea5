package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/damiolat/onboardly/internal/adminauth"
	"github.com/damiolat/onboardly/internal/cache"
	"github.com/damiolat/onboardly/internal/config"
	"github.com/damiolat/onboardly/internal/env"
	"github.com/damiolat/onboardly/internal/errHandler"
	"github.com/damiolat/onboardly/internal/helper"
	"github.com/damiolat/onboardly/internal/identity"
	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/damiolat/onboardly/internal/smtp"
	"github.com/damiolat/onboardly/internal/stream"
	"github.com/damiolat/onboardly/internal/worker"
	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items as and when they need them
type Application struct {
	Config       config.Config
	DB           *repository.DB
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	ErrorHandler *errHandler.ErrorHandler
	Helper       *helper.HelperRepository
	Kafka        *stream.KafkaStream
	Cache        *cache.Cache
	Identity     *identity.Client
	Engine       *kyc.Engine
	AdminAuth    *adminauth.Verifier
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Onboardly <no_reply@example.org>")

	cfg.Kafka.Servers = env.GetString("KAFKA_SERVERS", "localhost:9092")
	cfg.Kafka.VerifiedTopic = env.GetString("KAFKA_TOPIC_KYC_VERIFIED", "kyc.verified")
	cfg.Kafka.RejectedTopic = env.GetString("KAFKA_TOPIC_KYC_REJECTED", "kyc.rejected")
	cfg.Kafka.WorkerConcurrency = env.GetInt("KAFKA_WORKER_CONCURRENCY", 3)

	cfg.Redis.Addr = env.GetString("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Db = env.GetInt("REDIS_DB", 0)

	cfg.AuthService.BaseURL = env.GetString("AUTH_SERVICE_URL", "http://localhost:8081")
	cfg.AuthService.Username = env.GetString("AUTH_SERVICE_USERNAME", "account-service")
	cfg.AuthService.Password = env.GetString("AUTH_SERVICE_PASSWORD", "pa55word")
	cfg.AuthService.TotpSecret = env.GetString("AUTH_SERVICE_TOTP_SECRET", "")

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}

	app.Helper = helper.New(&cfg.BaseURL, &app.WG)
	app.ErrorHandler = errHandler.New(cfg.Notifications.Email, mailer, logger, app.Helper)

	app.Kafka, err = stream.New(cfg.Kafka.Servers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kafka producer: %w", err)
	}

	app.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Db)

	app.Identity = identity.New(
		cfg.AuthService.BaseURL,
		cfg.AuthService.Username,
		cfg.AuthService.Password,
		cfg.AuthService.TotpSecret,
		logger,
	)

	app.AdminAuth = adminauth.New(cfg.Jwt.SecretKey)

	app.Engine = kyc.New(&kyc.Engine{
		CustomerRepo:     repository.NewCustomerRepository(db),
		DocumentRepo:     repository.NewKycDocumentRepository(db),
		VerificationRepo: repository.NewKycVerificationRepository(db),
		DB:               db,
		Producer:         app.Kafka,
		VerifiedTopic:    cfg.Kafka.VerifiedTopic,
		RejectedTopic:    cfg.Kafka.RejectedTopic,
		Logger:           logger,
	})

	return app, nil
}

// StartWorkers launches the provisioning and rejection consumers.
func (app *Application) StartWorkers(ctx context.Context) {
	wk := worker.New(&worker.Worker{
		KafkaStream:   app.Kafka,
		CustomerRepo:  repository.NewCustomerRepository(app.DB),
		AccountRepo:   repository.NewAccountRepository(app.DB),
		Identity:      app.Identity,
		Mailer:        app.Mailer,
		Cache:         app.Cache,
		Helper:        app.Helper,
		Ctx:           ctx,
		Logger:        app.Logger,
		VerifiedTopic: app.Config.Kafka.VerifiedTopic,
		RejectedTopic: app.Config.Kafka.RejectedTopic,
		Concurrency:   app.Config.Kafka.WorkerConcurrency,
	})

	wk.VerifiedEventWorker()
	wk.RejectedEventWorker()
}
