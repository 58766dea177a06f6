package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"My Skill", "my-skill"},
		{"UPPER_case", "upper_case"},
		{"dots.and-dashes", "dots.and-dashes"},
		{"..leading-dots", "leading-dots"},
		{"trailing---", "trailing"},
		{"", "unnamed-skill"},
		{"///", "unnamed-skill"},
	}

	for _, tt := range tests {
		if got := SanitizeName(tt.input); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeName_LengthCap(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := SanitizeName(long); len(got) != 255 {
		t.Errorf("len = %d, want 255", len(got))
	}
}

func TestHashDirectory_Deterministic(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)
	os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("beta"), 0o644)

	h1, err := hashDirectory(dir)
	if err != nil {
		t.Fatalf("hashDirectory() error: %v", err)
	}
	h2, err := hashDirectory(dir)
	if err != nil {
		t.Fatalf("hashDirectory() error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
}

func TestHashDirectory_SensitiveToContent(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)

	before, err := hashDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed"), 0o644)
	after, err := hashDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("hash unchanged after content edit")
	}
}

func TestHashDirectory_IgnoresSkippedDirs(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)

	before, err := hashDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
	os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644)
	after, err := hashDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error(".git contents leaked into the hash")
	}
}

func TestCopyDirectory_SkipsBuildOutput(t *testing.T) {
	src := t.TempDir()
	os.WriteFile(filepath.Join(src, "keep.txt"), []byte("keep"), 0o644)
	os.MkdirAll(filepath.Join(src, "node_modules", "dep"), 0o755)
	os.WriteFile(filepath.Join(src, "node_modules", "dep", "index.js"), []byte("skip"), 0o644)

	dst := filepath.Join(t.TempDir(), "out")
	if err := copyDirectory(src, dst); err != nil {
		t.Fatalf("copyDirectory() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "keep.txt")); err != nil {
		t.Errorf("keep.txt missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "node_modules")); !os.IsNotExist(err) {
		t.Error("node_modules should have been skipped")
	}
}

func TestTruncateRevision(t *testing.T) {
	if got := TruncateRevision("abcdef1234567890"); got != "abcdef1" {
		t.Errorf("TruncateRevision = %q", got)
	}
	if got := TruncateRevision("abc"); got != "abc" {
		t.Errorf("TruncateRevision = %q", got)
	}
}
