package main

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderguild/config"
	"wanderguild/internal/handlers"
	"wanderguild/internal/repository"
	"wanderguild/internal/routers"
	"wanderguild/internal/services"
	"wanderguild/internal/storage"
	"wanderguild/pkg/logger"
	"wanderguild/pkg/mq"
	"wanderguild/utils/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("failed to initialize postgres: %v", err)
	}

	redisClient, err := storage.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	// Repositories
	stayRepo := repository.NewStayRepository(postgres)
	recommendationRepo := repository.NewRecommendationRepository(postgres)
	membershipRepo := repository.NewGuildMembershipRepository(postgres)
	locationRepo := repository.NewLiveLocationRepository(redisClient)
	txRunner := repository.NewTxRunner(postgres)

	// Award event stream is optional; without it awards are still granted,
	// downstream feeds just see nothing.
	var publisher mq.AwardEventPublisher
	if cfg.Kafka.Enabled {
		kafkaProducer, err := mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			appLogger.Sugar().Warnf("kafka producer unavailable, award events disabled: %v", err)
		} else {
			publisher = kafkaProducer
			defer kafkaProducer.Close()
		}
	}

	// Services
	resolver := services.NewGuildContextService(membershipRepo, locationRepo, cfg.Award.ProximityRadiusMeters, appLogger)
	awardService := services.NewAwardService(stayRepo, recommendationRepo, resolver, txRunner, publisher, cfg.Award.Points, appLogger)

	limiter := ratelimit.NewAttemptLimiter(redisClient, appLogger.Logger, cfg.Award.AttemptLimit, cfg.Award.AttemptWindow)

	// Handlers
	awardHandler := handlers.NewAwardHandler(awardService, resolver, limiter)
	locationHandler := handlers.NewLocationHandler(locationRepo)

	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	routers.SetupRoutes(r, awardHandler, locationHandler)

	appLogger.Sugar().Infof("starting server on port %d", cfg.Server.Port)
	if err := r.Run(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
