package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/config"
	"github.com/fekuna/trimstore-service/internal/cart/storage"
	invListenerPkg "github.com/fekuna/trimstore-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/trimstore-service/internal/inventory/repository"
	orderRepoPkg "github.com/fekuna/trimstore-service/internal/order/repository"
	prodRepoPkg "github.com/fekuna/trimstore-service/internal/product/repository"
	"github.com/fekuna/trimstore-service/internal/server"
	"github.com/fekuna/trimstore-service/pkg/broker"
	"github.com/fekuna/trimstore-service/pkg/cache"
	"github.com/fekuna/trimstore-service/pkg/database/mongodb"
	"github.com/fekuna/trimstore-service/pkg/database/postgres"
	"github.com/fekuna/trimstore-service/pkg/logger"
	"github.com/fekuna/trimstore-service/pkg/search"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	infra := openStore(cfg, appLogger)

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

		infra.Cache = redisClient
		infra.Carts = storage.NewRedisStore(redisClient, cfg.Cart.TTL)
	}

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		infra.Search = esClient
	}

	var workers []server.Worker
	kafkaCfg := &broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		infra.Publisher = producer
	}

	app := server.NewApp(infra, cfg.Server.AllowedOrigins, appLogger)

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewConsumer(kafkaCfg)
		defer consumer.Close()
		workers = append(workers, invListenerPkg.NewInventoryListener(consumer, app.Inventory, appLogger))
		appLogger.Info("Kafka enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		appLogger.Warn("Kafka disabled: orders will not deduct stock")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		HTTPPort:        cfg.Server.HTTPPort,
		GRPCPort:        cfg.Server.GRPCPort,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, app.Router, appLogger, workers...)

	if err := srv.Run(ctx); err != nil {
		appLogger.Error("server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server stopped")
}

// openStore connects the configured persistence driver. Closing is left to
// process exit.
func openStore(cfg *config.Config, appLogger logger.ZapLogger) *server.Infra {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		appLogger.Warn("Using in-memory store, data is lost on restart")
		return server.NewMemoryInfra()

	case config.StoreDriverMongo:
		client, err := mongodb.NewMongo(&mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to MongoDB", zap.Error(err))
		}
		appLogger.Info("Connected to MongoDB", zap.String("db_name", cfg.Mongo.Database))
		return &server.Infra{
			Products:  prodRepoPkg.NewMongoRepository(client.DB),
			Inventory: invRepoPkg.NewMongoRepository(client.DB),
			Orders:    orderRepoPkg.NewMongoRepository(client.DB),
			Carts:     storage.NewMemoryStore(),
		}

	case config.StoreDriverPostgres:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return &server.Infra{
			Products:  prodRepoPkg.NewPGRepository(db),
			Inventory: invRepoPkg.NewPGRepository(db),
			Orders:    orderRepoPkg.NewPGRepository(db),
			Carts:     storage.NewMemoryStore(),
		}
	}

	appLogger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.Store.Driver))
	return nil
}
