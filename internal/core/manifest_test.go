package core

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManifestStore_LoadMissingFile(t *testing.T) {
	store := ProjectManifestStore(t.TempDir())
	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(m.Sources) != 0 {
		t.Errorf("expected empty manifest, got %d sources", len(m.Sources))
	}
}

func TestManifestStore_SaveLoadRoundTrip(t *testing.T) {
	store := ProjectManifestStore(t.TempDir())

	m := NewManifest()
	m.Sources["github.com/owner/repo"] = &ManifestEntry{
		SourceType: "git",
		Branch:     "main",
		Subpath:    "skills",
		Revision:   "abc123def456",
		Mode:       "symlink",
		FullDepth:  true,
		Skills:     []string{"beta", "alpha"},
		Agents:     []string{"codex", "claude-code"},
	}
	if err := store.Save(m); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	entry := loaded.Sources["github.com/owner/repo"]
	if entry == nil {
		t.Fatal("entry missing after round trip")
	}
	if entry.Revision != "abc123def456" || entry.Branch != "main" || entry.Subpath != "skills" {
		t.Errorf("entry = %+v", entry)
	}
	if !entry.FullDepth {
		t.Error("FullDepth lost in round trip")
	}
	// Lists come back sorted.
	if entry.Skills[0] != "alpha" || entry.Skills[1] != "beta" {
		t.Errorf("Skills = %v, want sorted", entry.Skills)
	}
}

func TestManifestStore_SaveIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	store := ProjectManifestStore(dir)

	m := NewManifest()
	m.Sources["github.com/b/second"] = &ManifestEntry{
		SourceType: "git", Revision: "rev2", Skills: []string{"two"}, Agents: []string{"codex"},
	}
	m.Sources["github.com/a/first"] = &ManifestEntry{
		SourceType: "git", Revision: "rev1", Skills: []string{"one"}, Agents: []string{"codex"},
	}
	if err := store.Save(m); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	first, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}

	// Load and re-save without changes: bytes must be identical.
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := store.Save(loaded); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	second, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("re-save changed bytes:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

func TestManifestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := ProjectManifestStore(dir)
	if err := os.WriteFile(store.Path, []byte("[source\nnot toml at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load()
	if err == nil {
		t.Fatal("expected error for corrupt manifest")
	}
	var ce *ManifestCorruptError
	if !errors.As(err, &ce) {
		t.Errorf("error = %T, want *ManifestCorruptError", err)
	}
}

func TestManifest_UpsertMergesEntry(t *testing.T) {
	m := NewManifest()
	src := &ParsedSource{Kind: SourceGit, ID: "github.com/owner/repo"}

	m.Upsert(src, "rev1", ModeSymlink, false, []string{"alpha"}, []string{"codex"})
	m.Upsert(src, "rev2", ModeSymlink, false, []string{"beta"}, []string{"claude-code"})

	if len(m.Sources) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Sources))
	}
	entry := m.Sources[src.ID]
	if entry.Revision != "rev2" {
		t.Errorf("Revision = %q, want rev2", entry.Revision)
	}
	if len(entry.Skills) != 2 || entry.Skills[0] != "alpha" || entry.Skills[1] != "beta" {
		t.Errorf("Skills = %v", entry.Skills)
	}
	if len(entry.Agents) != 2 {
		t.Errorf("Agents = %v", entry.Agents)
	}
}

func TestManifest_UpsertIsIdempotent(t *testing.T) {
	m := NewManifest()
	src := &ParsedSource{Kind: SourceGit, ID: "github.com/owner/repo"}

	m.Upsert(src, "rev1", ModeSymlink, false, []string{"alpha"}, []string{"codex"})
	m.Upsert(src, "rev1", ModeSymlink, false, []string{"alpha"}, []string{"codex"})

	entry := m.Sources[src.ID]
	if len(entry.Skills) != 1 || len(entry.Agents) != 1 {
		t.Errorf("duplicate entries after idempotent upsert: %+v", entry)
	}
}

func TestManifest_RemoveLastSkillDropsEntry(t *testing.T) {
	m := NewManifest()
	m.Sources["src"] = &ManifestEntry{Skills: []string{"alpha", "beta"}}

	m.RemoveSkill("src", "alpha")
	if len(m.Sources["src"].Skills) != 1 {
		t.Fatalf("Skills = %v", m.Sources["src"].Skills)
	}

	m.RemoveSkill("src", "beta")
	if _, ok := m.Sources["src"]; ok {
		t.Error("entry should be dropped with its last skill")
	}
}

func TestManifest_FindSkill(t *testing.T) {
	m := NewManifest()
	m.Sources["a"] = &ManifestEntry{Skills: []string{"one"}}
	m.Sources["b"] = &ManifestEntry{Skills: []string{"two"}}

	id, entry := m.FindSkill("two")
	if id != "b" || entry == nil {
		t.Errorf("FindSkill(two) = %q, %v", id, entry)
	}
	id, entry = m.FindSkill("missing")
	if id != "" || entry != nil {
		t.Errorf("FindSkill(missing) = %q, %v", id, entry)
	}
}

func TestManifestStore_SaveCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	store := &ManifestStore{Path: filepath.Join(dir, "nested", "skil", "config.toml")}
	if err := store.Save(NewManifest()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(store.Path); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}
