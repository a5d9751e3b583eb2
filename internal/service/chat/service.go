// Package chat orchestrates multi-turn conversations over a stateless
// generation engine. Each session owns one conversation.Store; the service
// relays user input to the engine, feeds replies back into the store, and
// archives snapshots for later restoration.
package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/nanobridge/internal/config"
	"github.com/sandevgo/nanobridge/internal/conversation"
	"github.com/sandevgo/nanobridge/internal/core"
	"github.com/sandevgo/nanobridge/pkg/log"
	"github.com/sandevgo/nanobridge/pkg/retry"
	"github.com/sandevgo/nanobridge/pkg/tokens"
)

type Service struct {
	cfg     *config.ConversationConfig
	gen     core.Generator
	archive core.ArchiveRepository
	retrier *retry.Retrier
	newID   func() string

	// mu guards the session registry only. A Store is single-owner: the
	// caller driving a session must not issue concurrent Sends for the same
	// session id.
	mu       sync.Mutex
	sessions map[string]*conversation.Store
}

// NewService wires the conversation manager. archive may be nil to disable
// persistence; newID may be nil to use random UUIDs.
func NewService(
	cfg *config.ConversationConfig,
	gen core.Generator,
	archive core.ArchiveRepository,
	newID func() string,
) *Service {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		cfg:      cfg,
		gen:      gen,
		archive:  archive,
		retrier:  retry.NewDefaultRetrier(),
		newID:    newID,
		sessions: make(map[string]*conversation.Store),
	}
}

// NewSession creates a fresh conversation seeded from configuration and
// returns its id.
func (s *Service) NewSession(ctx context.Context) string {
	id := s.newID()

	s.mu.Lock()
	s.sessions[id] = s.newStore()
	s.mu.Unlock()

	log.FromCtx(ctx).Debug().Str("session", id).Msg("created session")
	return id
}

// Session returns the live store for id, if any.
func (s *Service) Session(id string) (*conversation.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.sessions[id]
	return store, ok
}

// EndSession drops the live store. Archived snapshots are kept.
func (s *Service) EndSession(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	log.FromCtx(ctx).Debug().Str("session", id).Msg("ended session")
}

// Restore rebuilds a session from its archived snapshot by replaying the
// messages through the store, so the restored state satisfies the same
// trimming invariants as a live conversation.
func (s *Service) Restore(ctx context.Context, id string) error {
	if s.archive == nil {
		return core.ErrSessionNotFound
	}

	snap, err := s.archive.LoadSnapshot(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	store := conversation.New(conversation.Options{
		TurnLimit:       snap.TurnLimit,
		SystemDirective: snap.SystemDirective,
	})
	for _, msg := range snap.Messages {
		if msg.Role == core.RoleSystem {
			continue
		}
		store.AppendMessage(msg)
	}

	s.mu.Lock()
	s.sessions[id] = store
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Str("session", id).Int("turns", store.TurnCount()).Msg("restored session")
	return nil
}

// Send appends the user input, runs one generation call and appends the
// reply. Streamed engines are handled upstream: the transport accumulates
// the streamed text and Send sees only complete inputs and replies.
func (s *Service) Send(ctx context.Context, sessionID, input string) (string, error) {
	logger := log.FromCtx(ctx)
	store := s.getOrCreate(sessionID)

	store.AppendUser(input)

	prompt := store.RenderPrompt()
	if tokens.NearBudget(prompt, s.cfg.ContextBudget) {
		logger.Warn().
			Str("session", sessionID).
			Int("tokens", tokens.Count(prompt)).
			Int("budget", s.cfg.ContextBudget).
			Msg("prompt close to engine context window")
	}

	var reply string
	err := s.retrier.Do(ctx, func() error {
		var genErr error
		if directive := store.SystemDirective(); directive != "" {
			reply, genErr = s.gen.GenerateMessages(ctx, store.HistoryOnly(), directive)
		} else {
			// Without a directive there is nothing to pass in the structured
			// system slot; use the rendered single-prompt convention.
			reply, genErr = s.gen.Generate(ctx, prompt)
		}
		return genErr
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	store.AppendAssistant(reply)

	if s.archive != nil {
		if err := s.archive.SaveSnapshot(ctx, sessionID, store.Snapshot()); err != nil {
			logger.Error().Err(err).Str("session", sessionID).Msg("failed to archive conversation")
		}
	}

	return reply, nil
}

func (s *Service) newStore() *conversation.Store {
	return conversation.New(conversation.Options{
		TurnLimit:       s.cfg.TurnLimit,
		SystemDirective: s.cfg.SystemDirective,
	})
}

func (s *Service) getOrCreate(id string) *conversation.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.sessions[id]
	if !ok {
		store = s.newStore()
		s.sessions[id] = store
	}
	return store
}
