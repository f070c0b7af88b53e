package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"messageeditor/internal/config"
	"messageeditor/internal/packet"
	"messageeditor/internal/surface"
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

type fakeNotifier struct{ msg string }

func (n *fakeNotifier) UpdateMessage() string { return n.msg }

func newService(t *testing.T, mutate func(*config.Config)) *Service {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Sqlite.Dsn = filepath.Join(t.TempDir(), "edits.sqlite3")
	cfg.AttachHoverAndClick = false
	if mutate != nil {
		mutate(cfg)
	}
	svc, err := New(Config{Config: cfg, Notifier: &fakeNotifier{msg: "update available"}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func gameChatEvent(t *testing.T, text string) *packet.Event {
	t.Helper()
	v := message.Version{Major: 1, Minor: 16}
	c := packet.NewRegistry(v).New(packet.TypeChat)
	if err := surface.NewSet(v).WriteChatType(c, message.GameChat); err != nil {
		t.Fatal(err)
	}
	if err := c.Components().Write(0, text); err != nil {
		t.Fatal(err)
	}
	return packet.NewEvent(c)
}

func TestSeedEditsOnEmptyStore(t *testing.T) {
	svc := newService(t, func(cfg *config.Config) {
		cfg.Edits = []model.EditSpec{{Name: "seed", Pattern: "x", After: "y"}}
	})
	specs := svc.Edits()
	if len(specs) != 1 || specs[0].Name != "seed" {
		t.Errorf("seeded edits = %+v", specs)
	}
}

func TestInteractiveAuthoringEndToEnd(t *testing.T) {
	svc := newService(t, nil)
	p := &fakePlayer{id: uuid.New()}

	// 流量先经过流水线，解码缓存才有可编辑的条目
	ev := gameChatEvent(t, "Hello")
	if err := svc.HandlePacket(p, ev); err != nil {
		t.Fatal(err)
	}
	id := message.ComposeID(message.GameChat, "Hello")

	if err := svc.StartEdit(p, id); err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{"-", "Hel+o", "Howdy", "-"} {
		if !svc.HandleChat(p, line) {
			t.Fatalf("input %q should be consumed by the session", line)
		}
	}

	// 规则立即生效
	ev = gameChatEvent(t, "Hello")
	if err := svc.HandlePacket(p, ev); err != nil {
		t.Fatal(err)
	}
	if !ev.Replaced() {
		t.Fatal("new rule should rewrite fresh traffic")
	}

	// 并已持久化：重载后仍在
	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}
	specs := svc.Edits()
	if len(specs) != 1 || specs[0].Pattern != "Hel+o" || specs[0].After != "Howdy" {
		t.Errorf("persisted specs = %+v", specs)
	}
}

func TestStartEditUnknownID(t *testing.T) {
	svc := newService(t, nil)
	err := svc.StartEdit(&fakePlayer{id: uuid.New()}, "GC-deadbeef")
	if !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("err = %v, want ErrUnknownMessage", err)
	}
}

func TestClearCachesIndependently(t *testing.T) {
	svc := newService(t, func(cfg *config.Config) {
		cfg.Edits = []model.EditSpec{{Pattern: "secret", After: "hidden"}}
	})
	p := &fakePlayer{id: uuid.New()}
	if err := svc.HandlePacket(p, gameChatEvent(t, "secret")); err != nil {
		t.Fatal(err)
	}
	if len(svc.pipe.Caches().RewriteKeys()) == 0 || len(svc.pipe.Caches().DataKeys()) == 0 {
		t.Fatal("both caches should be populated")
	}

	svc.ClearMessages()
	if len(svc.pipe.Caches().RewriteKeys()) != 0 {
		t.Error("rewrite cache should be empty")
	}
	if len(svc.pipe.Caches().DataKeys()) == 0 {
		t.Error("data cache must survive ClearMessages")
	}

	svc.ClearMessageData()
	if len(svc.pipe.Caches().DataKeys()) != 0 {
		t.Error("data cache should be empty")
	}
}

func TestSetAnalyzeValidation(t *testing.T) {
	svc := newService(t, nil)
	if err := svc.SetAnalyze("GC", true); err != nil {
		t.Errorf("valid surface: %v", err)
	}
	if err := svc.SetAnalyze("nope", true); !errors.Is(err, ErrUnknownSurface) {
		t.Errorf("err = %v, want ErrUnknownSurface", err)
	}
}

func TestJoinAndQuit(t *testing.T) {
	svc := newService(t, nil)
	p := &fakePlayer{id: uuid.New()}

	svc.HandleJoin(p)
	if len(p.msgs) != 1 || p.msgs[0] != "update available" {
		t.Errorf("join messages = %v", p.msgs)
	}

	// 退出销毁会话
	if err := svc.HandlePacket(p, gameChatEvent(t, "Hi")); err != nil {
		t.Fatal(err)
	}
	if err := svc.StartEdit(p, message.ComposeID(message.GameChat, "Hi")); err != nil {
		t.Fatal(err)
	}
	if svc.Sessions() != 1 {
		t.Fatal("session should be active")
	}
	svc.HandleQuit(p)
	if svc.Sessions() != 0 {
		t.Error("quit should destroy the session")
	}
}

func TestNotifyDisabled(t *testing.T) {
	svc := newService(t, func(cfg *config.Config) { cfg.Update.Notify = false })
	p := &fakePlayer{id: uuid.New()}
	svc.HandleJoin(p)
	if len(p.msgs) != 0 {
		t.Errorf("notify disabled, got %v", p.msgs)
	}
}
