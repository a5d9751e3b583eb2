package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/nanobridge/internal/config"
	"github.com/sandevgo/nanobridge/internal/core"
	"github.com/sandevgo/nanobridge/internal/providers/engine"
	"github.com/sandevgo/nanobridge/internal/service/chat"
	"github.com/sandevgo/nanobridge/internal/storage/sqlite"
	"github.com/sandevgo/nanobridge/internal/transport/cli"
	"github.com/sandevgo/nanobridge/pkg/log"
	"github.com/sandevgo/nanobridge/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	convCfg := config.NewConversationConfig(ctx)
	engCfg := config.NewEngineConfig(ctx)

	// 2. Snapshot archive
	var archive core.ArchiveRepository
	if appCfg.ArchiveEnabled {
		db, repo, err := initStorage(ctx, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		services = append(services, srv.NewCleanup(db.Close))
		archive = repo
	}

	// 3. Engine
	gen, err := engine.NewGenerator(ctx, appCfg, engCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize engine")
	}

	// 4. Chat service
	svc := chat.NewService(convCfg, gen, archive, nil)

	// 5. Transport
	repl, err := cli.NewReadLine(svc, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize chat transport")
	}
	services = append(services, repl)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.ArchiveRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewArchiveRepo(db), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	envPath := filepath.Join(runtimePath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.FromCtx(ctx).Debug().Str("path", envPath).Msg("no .env file, using process environment")
			return nil
		}
		return err
	}
	return nil
}
