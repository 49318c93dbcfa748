package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/config"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/geometry"
	"github.com/railatlas-loader/internal/importer"
	"github.com/railatlas-loader/internal/pkg/logger"
	"github.com/railatlas-loader/internal/repository/cache"
	"github.com/railatlas-loader/internal/repository/postgres"
	"github.com/railatlas-loader/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting rail atlas reload",
		zap.String("lines", cfg.Source.LinesShapefile),
		zap.String("stops", cfg.Source.StopsShapefile),
		zap.String("crosswalk", cfg.Source.CrosswalkCSV),
		zap.Float64("simplify_tolerance", cfg.Reload.SimplifyTolerance),
		zap.String("transform_backend", cfg.Reload.TransformBackend))

	// 3. Connect to PostgreSQL and prepare the schema
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate geometry store", zap.Error(err))
	}

	// 4. Connect to Redis (reload lock)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and primitives
	lineRepo := postgres.NewLineRepository(db)
	stopRepo := postgres.NewStopRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	generationRepo := postgres.NewGenerationRepository(db)
	locker := cache.NewReloadLock(redisClient, cfg.Reload.LockTTL, log)

	var transformer repository.Transformer
	if cfg.Reload.TransformBackend == "proj" {
		projTransformer, err := geometry.NewProjTransformer()
		if err != nil {
			log.Fatal("Failed to initialize PROJ transformer", zap.Error(err))
		}
		defer projTransformer.Close()
		transformer = projTransformer
	} else {
		transformer = postgres.NewTransformer(db)
	}

	features := importer.NewShapefileSource(&cfg.Source, log)
	crosswalk := importer.NewCrosswalkSource(&cfg.Source, log)

	// 6. Initialize use cases
	syncUC := usecase.NewSyncUseCase(transformer, log)
	simplifyUC := usecase.NewSimplifyUseCase(transformer, geometry.NewSimplifier(), log)
	consolidateUC := usecase.NewConsolidateUseCase(lineRepo, log)
	rollupUC := usecase.NewRollupUseCase(stopRepo, stationRepo, lineRepo, log)

	reloadUC := usecase.NewReloadUseCase(
		features,
		crosswalk,
		lineRepo,
		stopRepo,
		generationRepo,
		locker,
		consolidateUC,
		syncUC,
		simplifyUC,
		rollupUC,
		cfg.Reload.SimplifyTolerance,
		log,
	)

	// 7. Run the reload
	if err := reloadUC.Run(ctx); err != nil {
		log.Fatal("Reload did not complete", zap.Error(err))
	}
}
