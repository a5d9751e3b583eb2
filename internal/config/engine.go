package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/nanobridge/pkg/log"
)

type EngineConfig struct {
	// Model is a display label only; the on-device engines pick the model
	// themselves.
	Model string `env:"ENGINE_MODEL" envDefault:"on-device"`
}

func NewEngineConfig(ctx context.Context) *EngineConfig {
	c := &EngineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Engine config")
	}
	return c
}
