package engine

import (
	"context"
	"fmt"

	"github.com/sandevgo/nanobridge/internal/config"
	"github.com/sandevgo/nanobridge/internal/core"
	"github.com/sandevgo/nanobridge/pkg/log"
)

const EngineLoopback = "loopback"

// NewGenerator selects the generation backend from configuration.
func NewGenerator(ctx context.Context, appCfg *config.AppConfig, engCfg *config.EngineConfig) (core.Generator, error) {
	switch appCfg.Engine {
	case EngineLoopback:
		log.FromCtx(ctx).Info().Str("model", engCfg.Model).Msg("using loopback engine")
		return NewLoopback(engCfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown engine: %q", appCfg.Engine)
	}
}
