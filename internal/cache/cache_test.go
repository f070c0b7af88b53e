package cache

import (
	"testing"
	"time"

	"messageeditor/internal/rules"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

func TestRewriteNamespace(t *testing.T) {
	c := New(time.Minute)
	e, err := rules.Compile(model.EditSpec{Pattern: "x", After: "y"})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.GetRewrite("raw"); ok {
		t.Fatal("empty cache should miss")
	}
	c.PutRewrite("raw", Rewrite{Edit: e, After: "rewritten"})
	rw, ok := c.GetRewrite("raw")
	if !ok || rw.After != "rewritten" || rw.Edit != e {
		t.Fatalf("GetRewrite = %+v, %v", rw, ok)
	}

	c.InvalidateRewrite("raw")
	if _, ok := c.GetRewrite("raw"); ok {
		t.Error("invalidated entry should miss")
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	c := New(time.Minute)
	c.PutRewrite("text", Rewrite{After: "a"})
	c.PutData("GC-123", message.Data{Surface: message.GameChat, Text: "t"})

	c.InvalidateRewrites()
	if _, ok := c.GetRewrite("text"); ok {
		t.Error("rewrite namespace should be cleared")
	}
	if _, ok := c.GetData("GC-123"); !ok {
		t.Error("data namespace must survive a rewrite clear")
	}

	c.PutRewrite("text", Rewrite{After: "a"})
	c.InvalidateAllData()
	if _, ok := c.GetData("GC-123"); ok {
		t.Error("data namespace should be cleared")
	}
	if _, ok := c.GetRewrite("text"); !ok {
		t.Error("rewrite namespace must survive a data clear")
	}
}

func TestKeysSnapshot(t *testing.T) {
	c := New(time.Minute)
	c.PutRewrite("a", Rewrite{})
	c.PutRewrite("b", Rewrite{})
	c.PutData("id", message.Data{})

	if got := len(c.RewriteKeys()); got != 2 {
		t.Errorf("RewriteKeys len = %d, want 2", got)
	}
	if got := len(c.DataKeys()); got != 1 {
		t.Errorf("DataKeys len = %d, want 1", got)
	}
}

func TestDefaultTTL(t *testing.T) {
	// 非正值回落到默认 15 分钟，不会 panic、条目可用
	c := New(0)
	c.PutData("id", message.Data{Text: "x"})
	if _, ok := c.GetData("id"); !ok {
		t.Error("entry should be present under the default ttl")
	}
}
