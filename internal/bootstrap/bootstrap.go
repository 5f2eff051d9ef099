package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/image-lens/internal/application"
	appimages "github.com/bryanwahyu/image-lens/internal/application/images"
	"github.com/bryanwahyu/image-lens/internal/config"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
	"github.com/bryanwahyu/image-lens/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/image-lens/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/image-lens/internal/infra/db/postgres"
	minioStore "github.com/bryanwahyu/image-lens/internal/infra/storage"
)

// App holds the wired service and the resources behind it.
type App struct {
	Service *appimages.Service
	DB      *sql.DB
	Store   *minioStore.Store
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Open connects the database and object store and builds the service.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, repo, failures, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).Msg("database connected")

	store, err := minioStore.New(ctx, minioStore.Options{
		Endpoint:  cfg.Minio.Endpoint,
		Region:    cfg.Minio.Region,
		Bucket:    cfg.Minio.BucketName,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("minio init: %w", err)
	}
	logger.Info().Str("endpoint", cfg.Minio.Endpoint).Str("bucket", cfg.Minio.BucketName).Msg("object store ready")

	analyzer := openai.NewClient(
		cfg.Analysis.APIKey,
		cfg.Analysis.Model,
		cfg.Analysis.BaseURL,
		cfg.Analysis.MinLabelConfidence,
		cfg.Analysis.MaxLabels,
	)

	svc := &appimages.Service{
		Repo:     repo,
		Objects:  store,
		Signer:   store,
		Analyzer: analyzer,
		Failures: failures,
		Clock:    application.SystemClock{},
		IDs:      application.UUIDGenerator{},
		Bucket:   cfg.Minio.BucketName,
		Log:      logger,
	}
	return &App{Service: svc, DB: db, Store: store}, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, ingestfailures.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := pgp.EnsureSchema(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return db, pgp.NewImageRepository(db), pgp.NewFailureRepository(db), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := mysqlp.EnsureSchema(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return db, mysqlp.NewImageRepository(db), mysqlp.NewFailureRepository(db), nil
	}
}
