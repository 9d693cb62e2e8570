package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
	createCheckoutSessionHandler "github.com/m04kA/StayFinder-BookingService/internal/api/handlers/create_checkout_session"
	getBookingHandler "github.com/m04kA/StayFinder-BookingService/internal/api/handlers/get_booking"
	getBookingStatsHandler "github.com/m04kA/StayFinder-BookingService/internal/api/handlers/get_booking_stats"
	getUserBookingsHandler "github.com/m04kA/StayFinder-BookingService/internal/api/handlers/get_user_bookings"
	paymentWebhookHandler "github.com/m04kA/StayFinder-BookingService/internal/api/handlers/payment_webhook"
	"github.com/m04kA/StayFinder-BookingService/internal/api/middleware"
	"github.com/m04kA/StayFinder-BookingService/internal/config"
	bookingRepo "github.com/m04kA/StayFinder-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/StayFinder-BookingService/internal/infra/storage/migrations"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/mailer"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
	bookingsService "github.com/m04kA/StayFinder-BookingService/internal/service/bookings"
	createCheckoutSessionUC "github.com/m04kA/StayFinder-BookingService/internal/usecase/create_checkout_session"
	recordPaymentUC "github.com/m04kA/StayFinder-BookingService/internal/usecase/record_payment"
	"github.com/m04kA/StayFinder-BookingService/pkg/dbmetrics"
	"github.com/m04kA/StayFinder-BookingService/pkg/logger"
	"github.com/m04kA/StayFinder-BookingService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting StayFinder-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(config.Duration(cfg.Database.ConnMaxLifetime))

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Репозиторий (с метриками или без)
	var bookingRepository *bookingRepo.Repository
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
	}

	// Инициализируем интеграционных клиентов
	stripeClient := stripeclient.NewClient(stripeclient.Config{
		SecretKey:          cfg.Stripe.SecretKey,
		WebhookSecret:      cfg.Stripe.WebhookSecret,
		APIURL:             cfg.Stripe.APIURL,
		Timeout:            config.Duration(cfg.Stripe.Timeout),
		MaxNetworkRetries:  cfg.Stripe.MaxNetworkRetries,
		SignatureTolerance: config.Duration(cfg.Webhook.SignatureTolerance),
		BreakerMaxFailures: cfg.Stripe.BreakerMaxFailures,
		BreakerOpenTimeout: config.Duration(cfg.Stripe.BreakerOpenTimeout),
	}, log)
	log.Info("Stripe client initialized (timeout=%ds, retries=%d)", cfg.Stripe.Timeout, cfg.Stripe.MaxNetworkRetries)

	// Письмо-подтверждение необязательно: без него бронирования всё равно записываются
	var notifier recordPaymentUC.Notifier
	if cfg.Mail.Enabled {
		mailClient, err := mailer.NewClient(mailer.Config{
			Host:        cfg.Mail.Host,
			Port:        cfg.Mail.Port,
			Username:    cfg.Mail.Username,
			Password:    cfg.Mail.Password,
			From:        cfg.Mail.From,
			FrontendURL: cfg.Checkout.FrontendURL,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize mailer: %v", err)
		}
		notifier = mailClient
		log.Info("Mailer initialized (host=%s, port=%d)", cfg.Mail.Host, cfg.Mail.Port)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	createCheckoutSessionUseCase := createCheckoutSessionUC.NewUseCase(
		stripeClient,
		createCheckoutSessionUC.Settings{
			Currency:    cfg.Checkout.Currency,
			ProductName: cfg.Checkout.ProductName,
			SuccessURL:  cfg.Checkout.SuccessURL(),
			CancelURL:   cfg.Checkout.CancelURL(),
		},
		metricsCollector,
		log,
	)

	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		stripeClient,
		bookingRepository,
		notifier,
		metricsCollector,
		recordPaymentUC.Options{AckStoreFailures: cfg.Webhook.AckStoreFailures},
		log,
	)

	// Инициализируем handlers
	createCheckoutSession := createCheckoutSessionHandler.NewHandler(createCheckoutSessionUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(recordPaymentUseCase, cfg.Webhook.MaxBodyBytes, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingStats := getBookingStatsHandler.NewHandler(bookingSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, log)

	// Ограничение частоты для создания сессий
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to parse redis url: %v", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		log.Info("Connected to redis at %s", opts.Addr)
	}

	checkoutLimit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit.Enabled {
		checkoutLimit, err = middleware.NewRateLimit(middleware.RateLimitConfig{
			Rate:               cfg.RateLimit.CheckoutRate,
			Prefix:             cfg.RateLimit.Prefix,
			TrustForwardHeader: cfg.RateLimit.TrustForwardHeader,
		}, redisClient, log)
		if err != nil {
			log.Fatal("Failed to initialize rate limiter: %v", err)
		}
		log.Info("Checkout rate limit enabled: %s (redis=%t)", cfg.RateLimit.CheckoutRate, redisClient != nil)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PAYMENTS
	// ============================================================

	// Вебхук платёжного процессора (аутентификация по подписи тела)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// Создание платёжной сессии (токен необязателен: гостевое бронирование)
	api.Handle("/payments/checkout-sessions",
		checkoutLimit(auth.Optional(http.HandlerFunc(createCheckoutSession.Handle)))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Required)

	// Бронирования арендатора
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Сводка по бронированиям (до /bookings/{bookingId})
	protected.HandleFunc("/bookings/stats", getBookingStats.Handle).Methods(http.MethodGet)

	// Бронирование по ID
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Duration(cfg.Server.IdleTimeout),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся писем-подтверждений для уже записанных бронирований
	if err := recordPaymentUseCase.Wait(shutdownCtx); err != nil {
		log.Warn("Shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
