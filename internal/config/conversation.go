package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/nanobridge/pkg/log"
)

type ConversationConfig struct {
	// TurnLimit caps the number of retained user messages per conversation.
	TurnLimit int `env:"TURN_LIMIT" envDefault:"10"`

	// SystemDirective seeds new conversations; empty means none.
	SystemDirective string `env:"SYSTEM_DIRECTIVE"`

	// ContextBudget is the engine context window in tokens, used for
	// near-limit warnings before a generation call.
	ContextBudget int `env:"CONTEXT_BUDGET" envDefault:"4096"`
}

func NewConversationConfig(ctx context.Context) *ConversationConfig {
	c := &ConversationConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Conversation config")
	}
	return c
}
