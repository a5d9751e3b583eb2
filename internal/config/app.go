package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/nanobridge/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"NANOBRIDGE_RUNTIME_PATH" envDefault:".nanobridge"`

	// Engine selects the generation backend; only "loopback" ships in-repo,
	// the native engines live behind the platform bindings.
	Engine string `env:"ENGINE" envDefault:"loopback"`

	// ArchiveEnabled persists conversation snapshots to sqlite.
	ArchiveEnabled bool `env:"ARCHIVE_ENABLED" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "nanobridge.db")
}
