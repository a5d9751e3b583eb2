// Package conversation turns a sequence of isolated single-turn generation
// calls into a stateful multi-turn chat. The native engines behind the bridge
// keep no history of their own, so the Store owns the full transcript, bounds
// it to a configured number of user turns, and serializes it into the forms a
// stateless generator can consume.
package conversation

import (
	"strings"

	"github.com/sandevgo/nanobridge/internal/core"
)

const DefaultTurnLimit = 10

// Options configures a new Store. Defaults are resolved once in New, not
// scattered at call sites.
type Options struct {
	// TurnLimit is the maximum number of retained user messages. Zero means
	// DefaultTurnLimit; a negative value retains no turns at all.
	TurnLimit int

	// SystemDirective is held outside the turn sequence and is exempt from
	// trimming.
	SystemDirective string
}

// Store is a bounded, ordered conversation history. It is a plain
// single-owner data structure: no locks, no I/O, and every operation is a
// total function that runs to completion. Callers that share one Store
// across goroutines must synchronize externally.
type Store struct {
	turns     []core.Message
	directive string
	turnLimit int
}

func New(opts Options) *Store {
	limit := opts.TurnLimit
	if limit == 0 {
		limit = DefaultTurnLimit
	}
	return &Store{
		directive: opts.SystemDirective,
		turnLimit: limit,
	}
}

// AppendUser records a user message and evicts the oldest complete turns if
// the turn limit is now exceeded. Empty content is accepted; validation
// belongs to the caller.
func (s *Store) AppendUser(content string) {
	s.turns = append(s.turns, core.Message{Role: core.RoleUser, Content: content})
	s.trim()
}

// AppendAssistant records an assistant reply. The trim is re-evaluated even
// though an assistant append cannot raise the user count: a caller may have
// lowered the limit between appends.
func (s *Store) AppendAssistant(content string) {
	s.turns = append(s.turns, core.Message{Role: core.RoleAssistant, Content: content})
	s.trim()
}

// AppendMessage dispatches on role: a system message overwrites the directive
// and never enters the turn sequence, user and assistant messages append as
// usual. Messages with an unknown role are dropped, keeping the turn sequence
// closed over the two conversational roles. This is the entry point for
// relaying a heterogeneous message slice the caller did not construct itself.
func (s *Store) AppendMessage(msg core.Message) {
	switch msg.Role {
	case core.RoleSystem:
		s.directive = msg.Content
	case core.RoleUser:
		s.AppendUser(msg.Content)
	case core.RoleAssistant:
		s.AppendAssistant(msg.Content)
	}
}

// AllMessages materializes the full sequence: the system directive first (if
// set), then the retained turns in insertion order. The result is a fresh
// copy; mutating it does not touch the Store.
func (s *Store) AllMessages() []core.Message {
	out := make([]core.Message, 0, len(s.turns)+1)
	if s.directive != "" {
		out = append(out, core.Message{Role: core.RoleSystem, Content: s.directive})
	}
	return append(out, s.turns...)
}

// HistoryOnly returns a copy of the retained turns without the directive.
func (s *Store) HistoryOnly() []core.Message {
	out := make([]core.Message, len(s.turns))
	copy(out, s.turns)
	return out
}

// RenderPrompt serializes AllMessages into the single text block expected by
// engines that accept only a plain prompt: one "LABEL: content" line per
// message, joined with newlines, no trailing newline. An empty conversation
// renders to an empty string.
func (s *Store) RenderPrompt() string {
	msgs := s.AllMessages()
	if len(msgs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(msg.Role.Label())
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// TurnCount reports how many user messages are currently retained. This is
// the quantity the trim compares against the limit.
func (s *Store) TurnCount() int {
	n := 0
	for _, msg := range s.turns {
		if msg.Role == core.RoleUser {
			n++
		}
	}
	return n
}

// SetSystemDirective overwrites the directive without touching the turns.
// An empty value clears it.
func (s *Store) SetSystemDirective(text string) {
	s.directive = text
}

func (s *Store) SystemDirective() string {
	return s.directive
}

func (s *Store) TurnLimit() int {
	return s.turnLimit
}

// SetTurnLimit changes the limit and re-trims immediately, so lowering it
// evicts on the spot. A non-positive limit retains zero turns rather than
// being rejected.
func (s *Store) SetTurnLimit(limit int) {
	s.turnLimit = limit
	s.trim()
}

// Clear empties the turns and keeps the directive.
func (s *Store) Clear() {
	s.turns = nil
}

// Reset empties the turns and clears the directive.
func (s *Store) Reset() {
	s.turns = nil
	s.directive = ""
}

// Snapshot returns a read-only composite of the current state for
// diagnostics or persistence by the caller.
func (s *Store) Snapshot() core.Snapshot {
	return core.Snapshot{
		Messages:        s.AllMessages(),
		SystemDirective: s.directive,
		TurnCount:       s.TurnCount(),
		TurnLimit:       s.turnLimit,
	}
}

// trim evicts the oldest complete turns until no more than turnLimit user
// messages remain. A complete turn is one user message plus every assistant
// message that immediately follows it, so the retained sequence never starts
// with a dangling assistant reply. Relative order of retained messages is
// unchanged.
func (s *Store) trim() {
	limit := s.turnLimit
	if limit < 0 {
		limit = 0
	}

	var users []int
	for i, msg := range s.turns {
		if msg.Role == core.RoleUser {
			users = append(users, i)
		}
	}

	excess := len(users) - limit
	if excess <= 0 {
		return
	}

	// Cut just past the excess-th oldest user message, then extend the cut
	// over the assistant replies that belong to that turn.
	cut := users[excess-1] + 1
	for cut < len(s.turns) && s.turns[cut].Role == core.RoleAssistant {
		cut++
	}
	s.turns = s.turns[cut:]
}
