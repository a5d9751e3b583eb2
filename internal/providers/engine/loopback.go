// Package engine holds the generation boundary. The real inference engines
// are the platform's on-device models and stay behind the native bindings;
// this package only selects and constructs core.Generator implementations.
package engine

import (
	"context"
	"fmt"

	"github.com/sandevgo/nanobridge/internal/core"
)

// Loopback is a deterministic stand-in engine for development and tests. It
// echoes the latest user message back, prefixed with the model label, and is
// always available.
type Loopback struct {
	model string
}

func NewLoopback(model string) *Loopback {
	return &Loopback{model: model}
}

func (l *Loopback) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s] %s", l.model, lastUserLine(prompt)), nil
}

func (l *Loopback) GenerateMessages(ctx context.Context, history []core.Message, directive string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	last := ""
	for _, msg := range history {
		if msg.Role == core.RoleUser {
			last = msg.Content
		}
	}
	return fmt.Sprintf("[%s] %s", l.model, last), nil
}

func (l *Loopback) Check(ctx context.Context) error {
	return ctx.Err()
}
