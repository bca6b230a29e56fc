package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agroledger/server/internal/api"
	"agroledger/server/internal/config"
	"agroledger/server/internal/database"
	"agroledger/server/internal/events"
	"agroledger/server/internal/logger"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"
	"agroledger/server/internal/services"
	"agroledger/server/internal/storage"
	"agroledger/server/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.LogLevel)

	if envErr != nil {
		log.Info().Msg("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Info().Msg("✅ Переменные окружения загружены из .env файла")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище коллекций учета
	store, closeStore, err := openBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msgf("❌ Хранилище %s недоступно", cfg.StorageBackend)
	}
	defer closeStore()

	seed, err := config.LoadSeed(cfg.SeedConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Ошибка загрузки начальных данных")
	}

	ledger, err := repository.Open(store, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Не удалось загрузить учет")
	}

	// События: WebSocket всегда, Kafka если настроена
	hub := api.NewHub()
	go hub.Run(ctx)
	log.Info().Msg("🖥️ WebSocket Hub запущен")

	hubPublisher := api.NewHubPublisher(hub)
	publishers := events.MultiPublisher{hubPublisher}
	if brokers := events.ParseKafkaBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		log.Info().Msgf("📡 KAFKA_BROKERS установлен: %s", cfg.KafkaBrokers)
		instanceID := cfg.InstanceID
		if instanceID == "" {
			instanceID = uuid.NewString()
		}

		transport := events.CreateKafkaTransport(cfg.KafkaUsername, cfg.KafkaPassword, cfg.KafkaCACert)
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic, instanceID, transport)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)

		// События других экземпляров идут своим WebSocket клиентам
		dialer := events.CreateKafkaDialer(cfg.KafkaUsername, cfg.KafkaPassword, cfg.KafkaCACert)
		relay := events.NewKafkaRelay(brokers, cfg.KafkaTopic, instanceID, dialer, hubPublisher)
		defer relay.Close()
		go relay.Run(ctx)
	} else {
		log.Warn().Msg("⚠️ KAFKA_BROKERS не установлен, события учета идут только в WebSocket")
	}

	// Сервисы
	farmerService := services.NewFarmerService(ledger)
	purchaseService := services.NewPurchaseService(ledger)
	categoryService := services.NewCategoryService(ledger)
	inventoryService := services.NewInventoryService(ledger)
	orderService := services.NewOrderService(ledger)
	stockService := services.NewStockService(ledger)
	taxRateService := services.NewTaxRateService(ledger)
	financeService := services.NewFinanceService(ledger)
	forecastService := services.NewDemandForecastService(ledger)

	farmerService.SetPublisher(publishers)
	purchaseService.SetPublisher(publishers)
	categoryService.SetPublisher(publishers)
	inventoryService.SetPublisher(publishers)
	orderService.SetPublisher(publishers)
	stockService.SetPublisher(publishers)
	taxRateService.SetPublisher(publishers)
	financeService.SetPublisher(publishers)

	controllers := api.LedgerControllers{
		Farmers:    api.NewFarmerController(farmerService),
		Purchases:  api.NewPurchaseController(purchaseService, farmerService),
		Categories: api.NewCategoryController(categoryService),
		Inventory:  api.NewInventoryController(inventoryService),
		Orders:     api.NewOrderController(orderService),
		Stock:      api.NewStockController(stockService),
		TaxRates:   api.NewTaxRateController(taxRateService),
		Reports:    api.NewReportController(financeService, forecastService, orderService, categoryService),
		WS:         api.NewLedgerWSController(hub),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "AgroLedger Server",
			"storage": cfg.StorageBackend,
		})
	})

	r.Use(api.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	ledgerGroup := r.Group("/api/v1/ledger")
	ledgerGroup.Use(api.RateLimit(limiter))
	api.RegisterLedgerRoutes(ledgerGroup, controllers)

	// gRPC health для оркестратора
	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			log.Error().Err(err).Msg("❌ failed to listen gRPC")
			return
		}
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		log.Info().Msgf("📡 gRPC health server starting on port %s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("❌ failed to serve gRPC")
		}
	}()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Msgf("🚀 Server starting on port %s", cfg.ServerPort)
		log.Info().Msgf("📡 API доступен на http://0.0.0.0:%s/api/v1/ledger", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Остановка сервера...")

	healthServer.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("⚠️ HTTP сервер остановлен с ошибкой")
	}
	log.Info().Msg("✅ Сервер остановлен")
}

// openBlobStore открывает хранилище коллекций по STORAGE_BACKEND и возвращает функцию закрытия
func openBlobStore(cfg *config.Config) (storage.BlobStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Warn().Msg("⚠️ Хранилище в памяти: данные не сохранятся после перезапуска")
		return storage.NewMemoryStore(), func() {}, nil

	case config.StorageBadger:
		db, err := database.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewBadgerStore(db), func() { database.CloseBadger(db) }, nil

	case config.StorageRedis:
		client, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisSentinelAddrs, cfg.RedisMasterName)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(utils.NewRedisClient(client)), func() { database.CloseRedis(client) }, nil

	case config.StoragePostgres:
		log.Info().Msgf("📋 DATABASE_URL установлен: %s", maskURL(cfg.DatabaseURL))
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			database.ClosePostgres(db)
			return nil, nil, err
		}
		return storage.NewPostgresStore(db), func() { database.ClosePostgres(db) }, nil
	}
	return nil, nil, fmt.Errorf("неизвестное хранилище %q (badger, redis, postgres, memory)", cfg.StorageBackend)
}

// maskURL скрывает логин и пароль в строке подключения
func maskURL(raw string) string {
	at := strings.Index(raw, "@")
	scheme := strings.Index(raw, "://")
	if at > 0 && scheme > 0 && scheme < at {
		return raw[:scheme+3] + "***@" + raw[at+1:]
	}
	return raw
}
