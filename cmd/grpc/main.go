package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/ValentynKoval/easybuy-catalog-service/config"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute"
	attrH "github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/handler"
	attrRepoPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/repository"
	attrUCPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/cache"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	catH "github.com/ValentynKoval/easybuy-catalog-service/internal/category/handler"
	catRepoPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/category/repository"
	catUCPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/category/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	goodsH "github.com/ValentynKoval/easybuy-catalog-service/internal/goods/handler"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/indexer"
	goodsListenerPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/goods/listener"
	goodsRepoPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/goods/repository"
	goodsUCPkg "github.com/ValentynKoval/easybuy-catalog-service/internal/goods/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/broker"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/database/postgres"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
	grpcmw "github.com/ValentynKoval/easybuy-catalog-service/pkg/middleware"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/search"
)

type repositories struct {
	categories  category.Repository
	goods       goods.Repository
	images      goods.ImageRepository
	definitions attribute.DefinitionRepository
	values      attribute.ValueRepository
	close       func() error
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	// 3. Initialize Store
	repos, err := openRepositories(cfg)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer repos.close()
	appLogger.Info("Store ready", zap.String("driver", cfg.Store.Driver))

	// 4. Initialize Cache
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Driver == config.CacheDriverRedis {
		redisStore, err := cache.NewRedisStore(ctx, &cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Cache.KeyPrefix,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}
	readCache := cache.New(store, appLogger, m)

	// 5. Initialize Elasticsearch
	var goodsIndexer *indexer.Indexer
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, goods indexing disabled", zap.Error(err))
	} else {
		goodsIndexer = indexer.New(esClient, cfg.Elastic.GoodsIndex, appLogger)
		if err := goodsIndexer.EnsureIndex(ctx); err != nil {
			appLogger.Warn("Could not create goods index", zap.String("index", cfg.Elastic.GoodsIndex), zap.Error(err))
		}
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(repos.categories, readCache, appLogger, m)
	goodsUC := goodsUCPkg.NewGoodsUseCase(goodsUCPkg.Deps{
		Repo:       repos.goods,
		Images:     repos.images,
		Categories: repos.categories,
		Closures:   catUC,
		Cache:      readCache,
		Indexer:    goodsIndexer,
		Logger:     appLogger,
	})
	attrUC := attrUCPkg.NewAttributeUseCase(attrUCPkg.Deps{
		Definitions: repos.definitions,
		Values:      repos.values,
		Categories:  repos.categories,
		Goods:       repos.goods,
		Cache:       readCache,
		Logger:      appLogger,
	})

	// 7. Initialize Listeners
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		stockListener := goodsListenerPkg.NewStockListener(kafkaConsumer, goodsUC, appLogger)
		go stockListener.Start(ctx)
	}

	// 8. Start gRPC Server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", cfg.Server.GRPCPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcmw.MetricsInterceptor(m),
			grpcmw.ContextInterceptor(),
			grpcmw.ErrorInterceptor(appLogger),
		),
	)

	err = transport.Register(grpcServer,
		catH.NewCategoryHandler(catUC, appLogger),
		goodsH.NewGoodsHandler(goodsUC, appLogger),
		attrH.NewAttributeHandler(attrUC, appLogger),
	)
	if err != nil {
		appLogger.Fatal("failed to register services", zap.Error(err))
	}

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	for _, name := range []string{catH.ServiceName, goodsH.ServiceName, attrH.ServiceName} {
		healthServer.SetServingStatus(transport.FullName(name), healthpb.HealthCheckResponse_SERVING)
	}

	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 9. Start metrics server
	metricsServer := &http.Server{
		Addr:              listenAddr(cfg.Server.MetricsPort),
		Handler:           opsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting metrics server", zap.String("port", cfg.Server.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("metrics server shutdown", zap.Error(err))
	}
	goodsIndexer.Wait()
	appLogger.Info("Server stopped")
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		db := memory.NewDB()
		return &repositories{
			categories:  catRepoPkg.NewMemoryRepository(db),
			goods:       goodsRepoPkg.NewMemoryRepository(db),
			images:      goodsRepoPkg.NewMemoryImageRepository(db),
			definitions: attrRepoPkg.NewMemoryDefinitionRepository(db),
			values:      attrRepoPkg.NewMemoryValueRepository(db),
			close:       func() error { return nil },
		}, nil
	}

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
		return nil, err
	}
	return pgRepositories(db), nil
}

func pgRepositories(db *sqlx.DB) *repositories {
	return &repositories{
		categories:  catRepoPkg.NewPGRepository(db),
		goods:       goodsRepoPkg.NewPGRepository(db),
		images:      goodsRepoPkg.NewPGImageRepository(db),
		definitions: attrRepoPkg.NewPGDefinitionRepository(db),
		values:      attrRepoPkg.NewPGValueRepository(db),
		close:       db.Close,
	}
}

func opsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
