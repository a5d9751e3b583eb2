package engine

import (
	"context"
	"testing"

	"github.com/sandevgo/nanobridge/internal/core"
)

func TestLoopback_GenerateMessages(t *testing.T) {
	l := NewLoopback("test-model")

	history := []core.Message{
		{Role: core.RoleUser, Content: "first"},
		{Role: core.RoleAssistant, Content: "[test-model] first"},
		{Role: core.RoleUser, Content: "second"},
	}
	got, err := l.GenerateMessages(context.Background(), history, "Be brief.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "[test-model] second"; got != want {
		t.Errorf("GenerateMessages() = %q, want %q", got, want)
	}
}

func TestLoopback_Generate(t *testing.T) {
	l := NewLoopback("test-model")

	got, err := l.Generate(context.Background(), "SYSTEM: sys\nUSER: hello\nASSISTANT: hi\nUSER: bye")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "[test-model] bye"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestLoopback_CancelledContext(t *testing.T) {
	l := NewLoopback("test-model")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Generate(ctx, "USER: hi"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
