package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSource_Shorthand(t *testing.T) {
	src, err := ParseSource("anthropics/skills")
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}
	if src.Kind != SourceGit {
		t.Errorf("Kind = %q, want %q", src.Kind, SourceGit)
	}
	if src.ID != "github.com/anthropics/skills" {
		t.Errorf("ID = %q, want %q", src.ID, "github.com/anthropics/skills")
	}
	if src.CloneURL != "https://github.com/anthropics/skills.git" {
		t.Errorf("CloneURL = %q", src.CloneURL)
	}
}

func TestParseSource_ShorthandWithSubpath(t *testing.T) {
	src, err := ParseSource("owner/repo/path/to/skills")
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}
	if src.ID != "github.com/owner/repo" {
		t.Errorf("ID = %q, want %q", src.ID, "github.com/owner/repo")
	}
	if src.SubPath != "path/to/skills" {
		t.Errorf("SubPath = %q, want %q", src.SubPath, "path/to/skills")
	}
}

func TestParseSource_HostedURLs(t *testing.T) {
	tests := []struct {
		input   string
		id      string
		branch  string
		subPath string
	}{
		{"https://github.com/owner/repo", "github.com/owner/repo", "", ""},
		{"https://github.com/owner/repo.git", "github.com/owner/repo", "", ""},
		{"https://github.com/owner/repo/tree/main/skills", "github.com/owner/repo", "main", "skills"},
		{"https://github.com/owner/repo/blob/dev/sub/dir", "github.com/owner/repo", "dev", "sub/dir"},
		{"https://gitlab.com/owner/repo/-/tree/main/skills", "gitlab.com/owner/repo", "main", "skills"},
		{"https://codeberg.org/owner/repo/src/branch/main/skills", "codeberg.org/owner/repo", "main", "skills"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src, err := ParseSource(tt.input)
			if err != nil {
				t.Fatalf("ParseSource() error: %v", err)
			}
			if src.ID != tt.id {
				t.Errorf("ID = %q, want %q", src.ID, tt.id)
			}
			if src.Branch != tt.branch {
				t.Errorf("Branch = %q, want %q", src.Branch, tt.branch)
			}
			if src.SubPath != tt.subPath {
				t.Errorf("SubPath = %q, want %q", src.SubPath, tt.subPath)
			}
		})
	}
}

func TestParseSource_SameRepoNormalizesToSameID(t *testing.T) {
	// Different spellings of one repository must map to one manifest key.
	inputs := []string{
		"owner/repo",
		"https://github.com/owner/repo",
		"https://github.com/owner/repo.git",
		"https://github.com/owner/repo/tree/main/skills",
		"git@github.com:owner/repo.git",
	}

	want := "github.com/owner/repo"
	for _, input := range inputs {
		src, err := ParseSource(input)
		if err != nil {
			t.Fatalf("ParseSource(%q) error: %v", input, err)
		}
		if src.ID != want {
			t.Errorf("ParseSource(%q).ID = %q, want %q", input, src.ID, want)
		}
	}
}

func TestParseSource_SSH(t *testing.T) {
	src, err := ParseSource("git@example.org:team/tools.git")
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}
	if src.Kind != SourceGit {
		t.Errorf("Kind = %q, want git", src.Kind)
	}
	if src.CloneURL != "git@example.org:team/tools.git" {
		t.Errorf("CloneURL = %q", src.CloneURL)
	}
	// Unknown host keeps the SSH form as identifier.
	if src.ID != "git@example.org:team/tools" {
		t.Errorf("ID = %q", src.ID)
	}
}

func TestParseSource_LocalDirectory(t *testing.T) {
	dir := t.TempDir()

	src, err := ParseSource(dir)
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}
	if src.Kind != SourceLocal {
		t.Errorf("Kind = %q, want local", src.Kind)
	}
	abs, _ := filepath.Abs(dir)
	if src.ID != abs {
		t.Errorf("ID = %q, want %q", src.ID, abs)
	}
}

func TestParseSource_Archive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.tar.gz")
	os.WriteFile(archive, []byte("not really a tarball"), 0o644)

	src, err := ParseSource(archive)
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}
	if src.Kind != SourceArchive {
		t.Errorf("Kind = %q, want archive", src.Kind)
	}
}

func TestParseSource_MissingExplicitPath(t *testing.T) {
	_, err := ParseSource("./does/not/exist")
	if err == nil {
		t.Fatal("expected error for missing explicit path")
	}
	var nf *SourceNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("error = %T, want *SourceNotFoundError", err)
	}
}

func TestParseSource_AmbiguousToken(t *testing.T) {
	tests := []string{"", "justoneword", "has spaces/repo"}
	for _, input := range tests {
		_, err := ParseSource(input)
		if err == nil {
			t.Errorf("ParseSource(%q): expected error", input)
			continue
		}
		var ae *AmbiguousSourceError
		if !errors.As(err, &ae) {
			t.Errorf("ParseSource(%q) error = %T, want *AmbiguousSourceError", input, err)
		}
	}
}

func TestSourceFromManifest_RoundTrip(t *testing.T) {
	src, err := ParseSource("https://github.com/owner/repo/tree/main/skills")
	if err != nil {
		t.Fatalf("ParseSource() error: %v", err)
	}

	entry := &ManifestEntry{
		SourceType: string(src.Kind),
		Branch:     src.Branch,
		Subpath:    src.SubPath,
	}
	back, err := SourceFromManifest(src.ID, entry)
	if err != nil {
		t.Fatalf("SourceFromManifest() error: %v", err)
	}

	if back.ID != src.ID || back.CloneURL != src.CloneURL ||
		back.Branch != src.Branch || back.SubPath != src.SubPath {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, src)
	}
}
