package storage

import (
	"path/filepath"
	"testing"

	"messageeditor/pkg/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "edits.sqlite3"), "messageeditor_", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndLoadKeepOrder(t *testing.T) {
	s := openStore(t)

	specs := []model.EditSpec{
		{Name: "a", Pattern: "one", After: "1"},
		{Name: "b", Pattern: "two", BeforePlace: "GC", After: "2", AfterPlace: "AB"},
		{Name: "c", Pattern: "three", After: "3"},
	}
	for _, spec := range specs {
		if err := s.Append(spec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(specs) {
		t.Fatalf("loaded %d specs, want %d", len(got), len(specs))
	}
	for i := range specs {
		if got[i] != specs[i] {
			t.Errorf("spec %d = %+v, want %+v (insertion order is rule priority)", i, got[i], specs[i])
		}
	}
}

func TestReplace(t *testing.T) {
	s := openStore(t)
	if err := s.Append(model.EditSpec{Name: "old", Pattern: "x"}); err != nil {
		t.Fatal(err)
	}

	next := []model.EditSpec{
		{Name: "n1", Pattern: "a"},
		{Name: "n2", Pattern: "b"},
	}
	if err := s.Replace(next); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "n1" || got[1].Name != "n2" {
		t.Errorf("after replace: %+v", got)
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openStore(t)
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("fresh store should be empty, got %+v", got)
	}
}
