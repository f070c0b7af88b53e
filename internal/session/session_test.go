package session

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

type fakePlayer struct {
	id   uuid.UUID
	msgs []string
}

func (p *fakePlayer) ID() uuid.UUID             { return p.id }
func (p *fakePlayer) Name() string              { return "tester" }
func (p *fakePlayer) HasPermission(string) bool { return true }
func (p *fakePlayer) SendMessage(text string)   { p.msgs = append(p.msgs, text) }

type fakeCommitter struct {
	specs []model.EditSpec
	err   error
}

func (c *fakeCommitter) CommitEdit(spec model.EditSpec) error {
	c.specs = append(c.specs, spec)
	return c.err
}

func newFixture() (*Manager, *fakePlayer, *fakeCommitter) {
	committer := &fakeCommitter{}
	return NewManager(committer, nil), &fakePlayer{id: uuid.New()}, committer
}

func TestFullAuthoringScenario(t *testing.T) {
	m, p, committer := newFixture()

	m.Start(p, message.Data{Surface: message.GameChat, Text: "Hello"})
	s, ok := m.Get(p.ID())
	if !ok || s.Mode() != ModePatternKey {
		t.Fatalf("session mode = %v, want pattern key", s.Mode())
	}
	if s.Pattern() != "Hello" {
		t.Fatalf("default pattern = %q, want escaped original", s.Pattern())
	}

	steps := []struct {
		input string
		mode  Mode
	}{
		{"-", ModePatternValue},
		{"Hel+o", ModeReplacement},
		{"-", ModeDestination},
	}
	for _, step := range steps {
		if !m.HandleChat(p, step.input) {
			t.Fatalf("input %q should be consumed", step.input)
		}
		if s.Mode() != step.mode {
			t.Fatalf("after %q: mode = %v, want %v", step.input, s.Mode(), step.mode)
		}
	}

	if !m.HandleChat(p, "-") {
		t.Fatal("final input should be consumed")
	}
	if len(committer.specs) != 1 {
		t.Fatalf("committed specs = %d, want 1", len(committer.specs))
	}
	got := committer.specs[0]
	want := model.EditSpec{
		Pattern:     "Hel+o",
		BeforePlace: "GC",
		After:       "Hello",
		AfterPlace:  "GC",
	}
	if got != want {
		t.Errorf("committed spec = %+v, want %+v", got, want)
	}
	if m.Len() != 0 {
		t.Error("session should be destroyed after commit")
	}
}

func TestPatternKeySplicing(t *testing.T) {
	m, p, committer := newFixture()
	m.Start(p, message.Data{Surface: message.SystemChat, Text: "Steve joined the game"})

	// 键 "Steve" 标记出被下一步输入替换的片段
	m.HandleChat(p, "Steve")
	m.HandleChat(p, `(\w+)`)
	m.HandleChat(p, "$1 is here")
	m.HandleChat(p, "AB")

	if len(committer.specs) != 1 {
		t.Fatalf("committed specs = %d, want 1", len(committer.specs))
	}
	got := committer.specs[0]
	if got.Pattern != `(\w+) joined the game` {
		t.Errorf("pattern = %q", got.Pattern)
	}
	if got.Name != "Steve" || got.After != "$1 is here" || got.AfterPlace != "AB" {
		t.Errorf("spec = %+v", got)
	}
}

func TestCancelFromAnyState(t *testing.T) {
	for _, inputs := range [][]string{
		{"c"},
		{"-", "cancel"},
		{"-", "pat", "C"},
		{"-", "pat", "-", "Cancel"},
	} {
		m, p, committer := newFixture()
		m.Start(p, message.Data{Surface: message.GameChat, Text: "x"})
		for _, in := range inputs {
			m.HandleChat(p, in)
		}
		if m.Len() != 0 {
			t.Errorf("inputs %v: session should be destroyed", inputs)
		}
		if len(committer.specs) != 0 {
			t.Errorf("inputs %v: nothing should be committed", inputs)
		}
	}
}

func TestPatternValueValidation(t *testing.T) {
	m, p, _ := newFixture()
	m.Start(p, message.Data{Surface: message.GameChat, Text: "Hello"})
	m.HandleChat(p, "-")
	s, _ := m.Get(p.ID())

	// 空输入被拒绝，停留原状态
	m.HandleChat(p, "")
	if s.Mode() != ModePatternValue {
		t.Fatalf("empty input: mode = %v, want pattern value", s.Mode())
	}

	// 编译失败被拒绝并提示重试
	before := len(p.msgs)
	m.HandleChat(p, "(")
	if s.Mode() != ModePatternValue {
		t.Fatalf("bad pattern: mode = %v, want pattern value", s.Mode())
	}
	if len(p.msgs) == before {
		t.Error("bad pattern should produce an error prompt")
	}

	// 合法输入推进
	m.HandleChat(p, "Hel+o")
	if s.Mode() != ModeReplacement {
		t.Fatalf("valid pattern: mode = %v, want replacement", s.Mode())
	}
}

func TestDestinationValidation(t *testing.T) {
	m, p, committer := newFixture()
	m.Start(p, message.Data{Surface: message.GameChat, Text: "x"})
	m.HandleChat(p, "-")
	m.HandleChat(p, "x")
	m.HandleChat(p, "-")
	s, _ := m.Get(p.ID())

	m.HandleChat(p, "outer space")
	if s.Mode() != ModeDestination {
		t.Fatalf("invalid surface: mode = %v, want destination", s.Mode())
	}
	last := p.msgs[len(p.msgs)-1]
	if !strings.Contains(last, "GC") || !strings.Contains(last, "BB") {
		t.Errorf("error prompt should list valid surfaces: %q", last)
	}

	m.HandleChat(p, "BB")
	if len(committer.specs) != 1 || committer.specs[0].AfterPlace != "BB" {
		t.Errorf("specs = %+v", committer.specs)
	}
}

func TestStartReplacesExistingSession(t *testing.T) {
	m, p, _ := newFixture()
	m.Start(p, message.Data{Surface: message.GameChat, Text: "first"})
	m.Start(p, message.Data{Surface: message.SystemChat, Text: "second"})

	if m.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", m.Len())
	}
	s, _ := m.Get(p.ID())
	if s.Pattern() != "second" {
		t.Errorf("pattern = %q, want the newer session's", s.Pattern())
	}
}

func TestChatWithoutSessionNotConsumed(t *testing.T) {
	m, p, _ := newFixture()
	if m.HandleChat(p, "hello") {
		t.Error("chat without a session should pass through")
	}
}

func TestRemoveOnQuit(t *testing.T) {
	m, p, _ := newFixture()
	m.Start(p, message.Data{Surface: message.GameChat, Text: "x"})
	m.Remove(p.ID())
	if m.Len() != 0 {
		t.Error("session should be removed on quit")
	}
	// 二次移除应当无害
	m.Remove(p.ID())
}
