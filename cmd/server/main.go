package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/audit"
	"github.com/ignatzorin/shareholder-portal/internal/config"
	"github.com/ignatzorin/shareholder-portal/internal/db"
	httpHandlers "github.com/ignatzorin/shareholder-portal/internal/http/handlers"
	httpRouter "github.com/ignatzorin/shareholder-portal/internal/http/router"
	"github.com/ignatzorin/shareholder-portal/internal/infrastructure/cooldown"
	"github.com/ignatzorin/shareholder-portal/internal/infrastructure/eventbus"
	"github.com/ignatzorin/shareholder-portal/internal/infrastructure/persistence"
	"github.com/ignatzorin/shareholder-portal/internal/infrastructure/sms"
	"github.com/ignatzorin/shareholder-portal/internal/interface/http/handler"
	"github.com/ignatzorin/shareholder-portal/internal/logger"
	"github.com/ignatzorin/shareholder-portal/internal/metrics"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/contact"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/qrcheck"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/trail"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/verification"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка миграций")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к redis")
		}
		defer redisClient.Close()
	}

	resendCooldown, err := cooldown.New(cfg.TestMode, cfg.ResendCooldown, redisClient)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось подготовить паузу между кодами")
	}

	var publisher eventbus.Publisher = eventbus.Nop{}
	if cfg.NATSURL != "" {
		natsPublisher, err := eventbus.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к NATS")
		}
		publisher = natsPublisher
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Репозитории.
	shareholderRepo := persistence.NewShareholderRepositoryAdapter(dbConn)
	sessionRepo := persistence.NewSessionRepositoryAdapter(dbConn)
	eventRepo := persistence.NewEventRepositoryAdapter(dbConn)
	contactRepo := persistence.NewContactRepositoryAdapter(dbConn)

	recorder := audit.NewRecorder(eventRepo, publisher, m)
	smsClient := sms.NewClient(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSender, cfg.SMSTimeout)

	// Usecases.
	checkUC := qrcheck.NewCheckUseCase(shareholderRepo, sessionRepo, recorder, m, time.Now)
	issueCodeUC := verification.NewIssueCodeUseCase(shareholderRepo, sessionRepo, resendCooldown, smsClient, recorder, m, time.Now, cfg.TestMode)
	verifyUC := verification.NewVerifyUseCase(shareholderRepo, sessionRepo, recorder, m, time.Now)
	updateContactUC := contact.NewUpdateContactUseCase(shareholderRepo, sessionRepo, contactRepo, recorder, m, time.Now)
	getTrailUC := trail.NewGetTrailUseCase(eventRepo, sessionRepo)

	// HTTP хэндлеры.
	verificationHandler := handler.NewVerificationHandler(checkUC, issueCodeUC, verifyUC)
	contactHandler := handler.NewContactHandler(updateContactUC)
	trailHandler := handler.NewTrailHandler(getTrailUC)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, redisClient)

	engine := httpRouter.SetupRouter(cfg, verificationHandler, contactHandler, trailHandler, healthHandler, registry)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"port":      cfg.HTTPPort,
		"env":       cfg.Env,
		"test_mode": cfg.TestMode,
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

func newRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
