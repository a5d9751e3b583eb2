package conversation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sandevgo/nanobridge/internal/core"
)

func user(content string) core.Message {
	return core.Message{Role: core.RoleUser, Content: content}
}

func assistant(content string) core.Message {
	return core.Message{Role: core.RoleAssistant, Content: content}
}

func system(content string) core.Message {
	return core.Message{Role: core.RoleSystem, Content: content}
}

func TestStore_TrimEvictsOldestCompleteTurn(t *testing.T) {
	s := New(Options{TurnLimit: 2})

	s.AppendUser("Hi")
	s.AppendAssistant("Hello")
	s.AppendUser("How are you?")
	s.AppendAssistant("Fine")
	s.AppendUser("Bye")

	want := []core.Message{user("How are you?"), assistant("Fine"), user("Bye")}
	if got := s.HistoryOnly(); !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryOnly() = %v, want %v", got, want)
	}
	if got := s.TurnCount(); got != 2 {
		t.Errorf("TurnCount() = %d, want 2", got)
	}
}

func TestStore_TrimConsumesTrailingAssistants(t *testing.T) {
	s := New(Options{TurnLimit: 1})

	// A turn may carry several assistant messages; eviction must take them
	// all with their user message.
	s.AppendUser("first")
	s.AppendAssistant("part one")
	s.AppendAssistant("part two")
	s.AppendUser("second")

	want := []core.Message{user("second")}
	if got := s.HistoryOnly(); !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryOnly() = %v, want %v", got, want)
	}
}

func TestStore_BoundedTurnsInvariant(t *testing.T) {
	s := New(Options{TurnLimit: 3})

	for i := 0; i < 25; i++ {
		s.AppendUser("question")
		if s.TurnCount() > 3 {
			t.Fatalf("after append %d: TurnCount() = %d exceeds limit 3", i, s.TurnCount())
		}
		s.AppendAssistant("answer")
		if s.TurnCount() > 3 {
			t.Fatalf("after reply %d: TurnCount() = %d exceeds limit 3", i, s.TurnCount())
		}
	}
}

func TestStore_NoDanglingAssistantPrefix(t *testing.T) {
	s := New(Options{TurnLimit: 2})

	for i := 0; i < 10; i++ {
		s.AppendUser("q")
		s.AppendAssistant("a")
		s.AppendAssistant("a2")

		turns := s.HistoryOnly()
		if len(turns) > 0 && turns[0].Role != core.RoleUser {
			t.Fatalf("iteration %d: history starts with %s, want user", i, turns[0].Role)
		}
	}
}

func TestStore_AppendMessageDispatch(t *testing.T) {
	tests := []struct {
		name          string
		msg           core.Message
		wantTurns     []core.Message
		wantDirective string
	}{
		{
			name:          "system message becomes directive",
			msg:           system("Be brief."),
			wantTurns:     []core.Message{},
			wantDirective: "Be brief.",
		},
		{
			name:      "user message enters turns",
			msg:       user("hello"),
			wantTurns: []core.Message{user("hello")},
		},
		{
			name:      "assistant message enters turns",
			msg:       assistant("hi there"),
			wantTurns: []core.Message{assistant("hi there")},
		},
		{
			name:      "unknown role is dropped",
			msg:       core.Message{Role: "tool", Content: "result"},
			wantTurns: []core.Message{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{})
			s.AppendMessage(tt.msg)

			got := s.HistoryOnly()
			if len(got) != len(tt.wantTurns) {
				t.Fatalf("turns = %v, want %v", got, tt.wantTurns)
			}
			if len(tt.wantTurns) > 0 && !reflect.DeepEqual(got, tt.wantTurns) {
				t.Errorf("turns = %v, want %v", got, tt.wantTurns)
			}
			if s.SystemDirective() != tt.wantDirective {
				t.Errorf("SystemDirective() = %q, want %q", s.SystemDirective(), tt.wantDirective)
			}
		})
	}
}

func TestStore_SystemIsolation(t *testing.T) {
	s := New(Options{TurnLimit: 2})
	s.AppendUser("hi")

	before := s.TurnCount()
	s.AppendMessage(system("You are terse."))

	if s.TurnCount() != before {
		t.Errorf("system append changed TurnCount: %d -> %d", before, s.TurnCount())
	}
	if s.SystemDirective() != "You are terse." {
		t.Errorf("SystemDirective() = %q", s.SystemDirective())
	}
}

func TestStore_AllMessagesIncludesDirectiveFirst(t *testing.T) {
	s := New(Options{SystemDirective: "Be brief."})

	if got, want := s.AllMessages(), []core.Message{system("Be brief.")}; !reflect.DeepEqual(got, want) {
		t.Errorf("AllMessages() = %v, want %v", got, want)
	}
	if got, want := s.RenderPrompt(), "SYSTEM: Be brief."; got != want {
		t.Errorf("RenderPrompt() = %q, want %q", got, want)
	}

	s.AppendUser("hello")
	msgs := s.AllMessages()
	if msgs[0].Role != core.RoleSystem {
		t.Errorf("first message role = %s, want system", msgs[0].Role)
	}
}

func TestStore_AllMessagesReturnsCopy(t *testing.T) {
	s := New(Options{SystemDirective: "d"})
	s.AppendUser("original")

	first := s.AllMessages()
	first[1].Content = "mutated"
	first[0].Content = "mutated"

	second := s.AllMessages()
	if second[1].Content != "original" || second[0].Content != "d" {
		t.Errorf("mutation of returned slice leaked into store: %v", second)
	}
	if !reflect.DeepEqual(second, s.AllMessages()) {
		t.Error("repeated AllMessages() calls disagree without mutation")
	}
}

func TestStore_RenderPrompt(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
		want  string
	}{
		{
			name:  "empty store renders empty string",
			setup: func(s *Store) {},
			want:  "",
		},
		{
			name: "full conversation",
			setup: func(s *Store) {
				s.SetSystemDirective("Be brief.")
				s.AppendUser("Hi")
				s.AppendAssistant("Hello")
			},
			want: "SYSTEM: Be brief.\nUSER: Hi\nASSISTANT: Hello",
		},
		{
			name: "empty content keeps its line",
			setup: func(s *Store) {
				s.AppendUser("")
			},
			want: "USER: ",
		},
		{
			name: "no directive means no system line",
			setup: func(s *Store) {
				s.AppendUser("Hi")
			},
			want: "USER: Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{})
			tt.setup(s)
			if got := s.RenderPrompt(); got != tt.want {
				t.Errorf("RenderPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStore_RenderPromptLineCountMatchesMessages(t *testing.T) {
	s := New(Options{SystemDirective: "sys"})
	s.AppendUser("one")
	s.AppendAssistant("two")
	s.AppendUser("three")

	lines := strings.Split(s.RenderPrompt(), "\n")
	msgs := s.AllMessages()
	if len(lines) != len(msgs) {
		t.Fatalf("rendered %d lines for %d messages", len(lines), len(msgs))
	}
	for i, line := range lines {
		prefix := msgs[i].Role.Label() + ": "
		if !strings.HasPrefix(line, prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, line, prefix)
		}
	}
}

func TestStore_SetTurnLimit(t *testing.T) {
	tests := []struct {
		name      string
		newLimit  int
		wantTurns []core.Message
	}{
		{
			name:      "lowering evicts immediately",
			newLimit:  1,
			wantTurns: []core.Message{user("second"), assistant("reply two")},
		},
		{
			name:      "zero retains nothing",
			newLimit:  0,
			wantTurns: nil,
		},
		{
			name:      "negative retains nothing",
			newLimit:  -3,
			wantTurns: nil,
		},
		{
			name:     "raising keeps everything",
			newLimit: 5,
			wantTurns: []core.Message{
				user("first"), assistant("reply one"),
				user("second"), assistant("reply two"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{TurnLimit: 2})
			s.AppendUser("first")
			s.AppendAssistant("reply one")
			s.AppendUser("second")
			s.AppendAssistant("reply two")

			s.SetTurnLimit(tt.newLimit)

			got := s.HistoryOnly()
			if len(tt.wantTurns) == 0 {
				if len(got) != 0 {
					t.Errorf("HistoryOnly() = %v, want empty", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.wantTurns) {
				t.Errorf("HistoryOnly() = %v, want %v", got, tt.wantTurns)
			}
		})
	}
}

func TestStore_AppendAssistantAfterLimitDrop(t *testing.T) {
	s := New(Options{TurnLimit: 2})
	s.AppendUser("first")
	s.AppendUser("second")
	s.AppendUser("third") // evicts "first"

	// Assistant appends alone never evict; they only re-run the check.
	s.AppendAssistant("reply")
	want := []core.Message{user("second"), user("third"), assistant("reply")}
	if got := s.HistoryOnly(); !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryOnly() = %v, want %v", got, want)
	}
}

func TestStore_ClearKeepsDirective(t *testing.T) {
	s := New(Options{SystemDirective: "Be brief."})
	s.AppendUser("hi")
	s.AppendAssistant("hello")

	s.Clear()

	if got := s.HistoryOnly(); len(got) != 0 {
		t.Errorf("HistoryOnly() = %v, want empty", got)
	}
	if s.SystemDirective() != "Be brief." {
		t.Errorf("SystemDirective() = %q, want unchanged", s.SystemDirective())
	}
}

func TestStore_ResetClearsEverything(t *testing.T) {
	s := New(Options{SystemDirective: "Be brief."})
	s.AppendUser("hi")

	s.Reset()

	if got := s.HistoryOnly(); len(got) != 0 {
		t.Errorf("HistoryOnly() = %v, want empty", got)
	}
	if s.SystemDirective() != "" {
		t.Errorf("SystemDirective() = %q, want empty", s.SystemDirective())
	}
}

func TestStore_DefaultTurnLimit(t *testing.T) {
	s := New(Options{})
	if s.TurnLimit() != DefaultTurnLimit {
		t.Errorf("TurnLimit() = %d, want %d", s.TurnLimit(), DefaultTurnLimit)
	}

	for i := 0; i < 15; i++ {
		s.AppendUser("q")
	}
	if s.TurnCount() != DefaultTurnLimit {
		t.Errorf("TurnCount() = %d, want %d", s.TurnCount(), DefaultTurnLimit)
	}
}

func TestStore_Snapshot(t *testing.T) {
	s := New(Options{TurnLimit: 4, SystemDirective: "sys"})
	s.AppendUser("q1")
	s.AppendAssistant("a1")
	s.AppendUser("q2")

	snap := s.Snapshot()

	if snap.TurnCount != 2 {
		t.Errorf("snap.TurnCount = %d, want 2", snap.TurnCount)
	}
	if snap.TurnLimit != 4 {
		t.Errorf("snap.TurnLimit = %d, want 4", snap.TurnLimit)
	}
	if snap.SystemDirective != "sys" {
		t.Errorf("snap.SystemDirective = %q, want %q", snap.SystemDirective, "sys")
	}
	if !reflect.DeepEqual(snap.Messages, s.AllMessages()) {
		t.Errorf("snap.Messages = %v, want %v", snap.Messages, s.AllMessages())
	}

	// Snapshot is a detached copy.
	snap.Messages[0].Content = "mutated"
	if s.SystemDirective() != "sys" || s.AllMessages()[0].Content != "sys" {
		t.Error("snapshot mutation leaked into store")
	}
}
