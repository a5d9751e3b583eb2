package config

import (
	"context"
	"testing"
)

func TestConversationConfigDefaults(t *testing.T) {
	cfg := NewConversationConfig(context.Background())

	if cfg.TurnLimit != 10 {
		t.Errorf("TurnLimit = %d, want 10", cfg.TurnLimit)
	}
	if cfg.ContextBudget != 4096 {
		t.Errorf("ContextBudget = %d, want 4096", cfg.ContextBudget)
	}
	if cfg.SystemDirective != "" {
		t.Errorf("SystemDirective = %q, want empty", cfg.SystemDirective)
	}
}

func TestConversationConfigFromEnv(t *testing.T) {
	t.Setenv("TURN_LIMIT", "3")
	t.Setenv("SYSTEM_DIRECTIVE", "Be brief.")
	t.Setenv("CONTEXT_BUDGET", "512")

	cfg := NewConversationConfig(context.Background())

	if cfg.TurnLimit != 3 {
		t.Errorf("TurnLimit = %d, want 3", cfg.TurnLimit)
	}
	if cfg.SystemDirective != "Be brief." {
		t.Errorf("SystemDirective = %q, want %q", cfg.SystemDirective, "Be brief.")
	}
	if cfg.ContextBudget != 512 {
		t.Errorf("ContextBudget = %d, want 512", cfg.ContextBudget)
	}
}
