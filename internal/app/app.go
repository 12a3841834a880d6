package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/ecosort-tech/go-backend/internal/cfg"
	v1Http "github.com/ecosort-tech/go-backend/internal/delivery/v1/http"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/auth"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/inference"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/kafka"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/metrics"
	"github.com/ecosort-tech/go-backend/internal/infrastructure/objectstore"
	"github.com/ecosort-tech/go-backend/internal/proto"
	firestoreRepo "github.com/ecosort-tech/go-backend/internal/repository/firestore"
	gcsRepo "github.com/ecosort-tech/go-backend/internal/repository/gcs"
	s3Repo "github.com/ecosort-tech/go-backend/internal/repository/minio"
	"github.com/ecosort-tech/go-backend/internal/repository/pgdb"
	"github.com/ecosort-tech/go-backend/internal/repository/redis"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/clients"
	"github.com/ecosort-tech/go-backend/pkg/closer"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/ecosort-tech/go-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App собирает зависимости и управляет жизненным циклом процесса.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	outboxWorker *kafka.OutboxWorker
}

// docStore — журнал и индекс пользователей выбранного бэкенда.
type docStore struct {
	history   usecase.HistoryRepository
	users     usecase.UserIndexRepository
	outbox    usecase.OutboxRepository
	dbConnStr string
}

func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	// При ошибке инициализации закрываем то, что уже успели открыть
	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if closeErr := a.closer.Close(ctx); closeErr != nil {
				logger.Warnf("%v", closeErr)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	imageRepo, err := a.initImageRepo(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	store, err := a.initDocStore(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo, err := a.initCache(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	inferenceClient, err := a.initInference()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	verifier, err := a.initAuth()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics, err := metrics.NewPipelineMetrics(registry)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initOutbox(store); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	predictionUC := usecase.NewPredictionUC(
		objectstore.NewGateway(imageRepo, cfg.Storage, logger),
		inferenceClient,
		store.history,
		store.users,
		cacheRepo,
		pipelineMetrics,
		logger,
		cfg.Storage.CleanupTimeout,
	)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(v1Http.Deps{
		PredictionUC:  predictionUC,
		Verifier:      verifier,
		Gatherer:      registry,
		MaxUploadSize: cfg.Http.MaxUploadSize,
		SwaggerURL:    cfg.Http.SwaggerURL,
	})

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает сервер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	if a.outboxWorker != nil {
		a.outboxWorker.Start(context.Background())
		a.logger.Infof("Outbox worker started")
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initImageRepo(ctx context.Context) (usecase.ImageRepository, error) {
	switch a.cfg.Storage.Backend {
	case config.StorageBackendGCS:
		client, err := clients.NewGCSClient(ctx, a.cfg.GCS)
		if err != nil {
			return nil, err
		}
		a.closer.AddSimple("gcs", client.Close)

		return gcsRepo.NewImageRepo(client, a.cfg.GCS)
	default:
		client, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			return nil, err
		}

		if err := clients.EnsureBucket(ctx, client, a.cfg.Minio.BucketName); err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO bucket: %w", err)
		}

		return s3Repo.NewImageRepo(client, a.cfg.Minio), nil
	}
}

func (a *App) initDocStore(ctx context.Context) (*docStore, error) {
	switch a.cfg.DocStore.Backend {
	case config.DocStoreBackendFirestore:
		client, err := clients.NewFirestoreClient(ctx, a.cfg.Firestore)
		if err != nil {
			return nil, err
		}
		a.closer.AddSimple("firestore", client.Close)

		return &docStore{
			history: firestoreRepo.NewHistoryRepo(client, a.cfg.Firestore.HistoryCollection),
			users:   firestoreRepo.NewUserRepo(client, a.cfg.Firestore.UsersCollection),
		}, nil
	default:
		db, err := initPGDB(a.logger, a.cfg)
		if err != nil {
			return nil, err
		}
		a.closer.AddSimple("postgres", func() error {
			db.Close()
			return nil
		})

		store := &docStore{
			users:     pgdb.NewUserRepo(db.Pool),
			dbConnStr: db.Dsn,
		}
		if a.cfg.Kafka.Enabled {
			store.outbox = pgdb.NewOutboxEventRepo(db.Pool)
		}
		store.history = pgdb.NewHistoryRepo(db.Pool, store.outbox)

		return store, nil
	}
}

func (a *App) initCache(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled {
		a.logger.Infof("Redis cache disabled")
		return redis.NopCacheRepo{}, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.AddSimple("redis", redisClient.Client.Close)

	if err := redisClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redis.NewCacheRepo(redisClient, a.cfg.Redis, a.logger), nil
}

func (a *App) initInference() (usecase.InferenceClient, error) {
	switch a.cfg.Inference.Transport {
	case config.InferenceTransportGRPC:
		conn, err := inference.NewGRPCConn(a.cfg.Inference)
		if err != nil {
			return nil, err
		}
		a.closer.AddSimple("inference grpc", conn.Close)

		return inference.NewGRPCClient(proto.NewWastePredictionClient(conn), a.cfg.Inference, a.logger), nil
	default:
		return inference.NewHTTPClient(nil, a.cfg.Inference, a.logger), nil
	}
}

func (a *App) initAuth() (*auth.TokenVerifier, error) {
	jwks, err := auth.NewJWKSKeyfunc(a.cfg.Auth, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}
	a.closer.AddSimple("jwks", func() error {
		jwks.EndBackground()
		return nil
	})

	return auth.NewTokenVerifier(jwks.Keyfunc, a.cfg.Auth), nil
}

// initOutbox поднимает продюсер и воркер outbox. Работает только с PostgreSQL.
func (a *App) initOutbox(store *docStore) error {
	if !a.cfg.Kafka.Enabled {
		return nil
	}
	if store.outbox == nil {
		a.logger.Warnf("Kafka enabled but outbox requires the postgres docstore, events are not published")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddSimple("kafka producer", producer.Close)

	if err := producer.EnsureTopic(initTimeout); err != nil {
		// топик может создать и сам брокер, outbox дождётся
		a.logger.Warnf("Failed to ensure kafka topic: %v", err)
	}

	a.outboxWorker = kafka.NewOutboxWorker(store.outbox, a.logger, producer, store.dbConnStr)
	a.closer.AddSimple("outbox worker", func() error {
		a.outboxWorker.Stop()
		return nil
	})

	return nil
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
