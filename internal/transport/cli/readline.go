package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/nanobridge/internal/config"
	"github.com/sandevgo/nanobridge/internal/service/chat"
	"github.com/sandevgo/nanobridge/internal/service/ui"
	"github.com/sandevgo/nanobridge/pkg/conv"
	"github.com/sandevgo/nanobridge/pkg/log"
)

type ReadLine struct {
	cfg       *config.AppConfig
	svc       *chat.Service
	rl        *readline.Instance
	sessionID string
}

func NewReadLine(svc *chat.Service, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg: cfg,
		svc: svc,
		rl:  rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	r.sessionID = r.svc.NewSession(ctx)
	logger.Info().Str("session", r.sessionID).Msg("chat started; type 'exit' to quit, '/help' for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			r.handleCommand(ctx, line)
			continue
		}

		reply, err := r.svc.Send(ctx, r.sessionID, line)
		if err != nil {
			logger.Error().Err(err).Msg("send failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), ui.AssistantStyle.Render(conv.MarkdownToText([]byte(reply))))
	}
}

// handleCommand maps slash commands onto the conversation store.
func (r *ReadLine) handleCommand(ctx context.Context, line string) {
	out := r.rl.Stdout()
	store, ok := r.svc.Session(r.sessionID)
	if !ok {
		fmt.Fprintln(out, "no active session")
		return
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		fmt.Fprintln(out, strings.Join([]string{
			"/history          show retained turns",
			"/prompt           show the rendered prompt sent to the engine",
			"/snapshot         show turn count, limit and directive",
			"/system <text>    set the system directive (empty clears it)",
			"/limit <n>        change how many user turns are retained",
			"/clear            drop the turns, keep the directive",
			"/reset            drop everything",
			"/new              start a fresh session",
		}, "\n"))
	case "/history":
		for _, msg := range store.HistoryOnly() {
			fmt.Fprintf(out, "%s: %s\n", msg.Role.Label(), msg.Content)
		}
	case "/prompt":
		fmt.Fprintln(out, store.RenderPrompt())
	case "/snapshot":
		snap := store.Snapshot()
		fmt.Fprintf(out, "turns: %d/%d, directive: %q, messages: %d\n",
			snap.TurnCount, snap.TurnLimit, snap.SystemDirective, len(snap.Messages))
	case "/system":
		store.SetSystemDirective(arg)
		if arg == "" {
			fmt.Fprintln(out, "directive cleared")
		} else {
			fmt.Fprintln(out, "directive set")
		}
	case "/limit":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(out, "invalid limit: %q\n", arg)
			return
		}
		store.SetTurnLimit(n)
		fmt.Fprintf(out, "turn limit set to %d, %d turn(s) retained\n", n, store.TurnCount())
	case "/clear":
		store.Clear()
		fmt.Fprintln(out, "turns cleared")
	case "/reset":
		store.Reset()
		fmt.Fprintln(out, "conversation reset")
	case "/new":
		r.svc.EndSession(ctx, r.sessionID)
		r.sessionID = r.svc.NewSession(ctx)
		fmt.Fprintf(out, "new session %s\n", r.sessionID)
	default:
		fmt.Fprintf(out, "unknown command %q, try /help\n", cmd)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
