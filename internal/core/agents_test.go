package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAgents_Roster(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("CODEX_HOME", "")
	t.Setenv("CLAUDE_CONFIG_DIR", "")

	agents := DefaultAgents()
	if len(agents) == 0 {
		t.Fatal("empty roster")
	}

	byName := make(map[string]AgentDef)
	for _, a := range agents {
		byName[a.Name] = a
	}
	for _, want := range []string{"codex", "claude-code", "opencode", "cursor", "continue", "github-copilot", "goose", "junie", "windsurf"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("agent %q missing from roster", want)
		}
	}
	if byName["claude-code"].SkillsDir != ".claude/skills" {
		t.Errorf("claude-code SkillsDir = %q", byName["claude-code"].SkillsDir)
	}
}

func TestDefaultAgents_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CODEX_HOME", filepath.Join(home, "custom-codex"))

	agents := DefaultAgents()
	for _, a := range agents {
		if a.Name == "codex" {
			want := filepath.Join(home, "custom-codex", "skills")
			if a.GlobalSkillsDir != want {
				t.Errorf("GlobalSkillsDir = %q, want %q", a.GlobalSkillsDir, want)
			}
			return
		}
	}
	t.Fatal("codex not in roster")
}

func TestResolveAgents_Explicit(t *testing.T) {
	roster := []AgentDef{{Name: "codex"}, {Name: "claude-code"}, {Name: "cursor"}}

	agents, err := ResolveAgents(roster, []string{"cursor", "codex"})
	if err != nil {
		t.Fatalf("ResolveAgents() error: %v", err)
	}
	if len(agents) != 2 || agents[0].Name != "cursor" || agents[1].Name != "codex" {
		t.Errorf("agents = %v", agents)
	}
}

func TestResolveAgents_UnknownFails(t *testing.T) {
	roster := []AgentDef{{Name: "codex"}}
	_, err := ResolveAgents(roster, []string{"nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	var ue *UnknownAgentError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %T, want *UnknownAgentError", err)
	}
	if ue.Name != "nope" {
		t.Errorf("Name = %q", ue.Name)
	}
}

func TestResolveAgents_Wildcard(t *testing.T) {
	roster := []AgentDef{{Name: "codex"}, {Name: "cursor"}}
	agents, err := ResolveAgents(roster, []string{"*"})
	if err != nil {
		t.Fatalf("ResolveAgents() error: %v", err)
	}
	if len(agents) != len(roster) {
		t.Errorf("agents = %d, want %d", len(agents), len(roster))
	}
}

func TestDetectDefaultAgents_ProbesConfigDirs(t *testing.T) {
	base := t.TempDir()
	roster := []AgentDef{
		{Name: "present", GlobalSkillsDir: filepath.Join(base, "present-home", "skills")},
		{Name: "absent", GlobalSkillsDir: filepath.Join(base, "absent-home", "skills")},
	}
	os.MkdirAll(filepath.Join(base, "present-home"), 0o755)

	detected := DetectDefaultAgents(roster)
	if len(detected) != 1 || detected[0].Name != "present" {
		t.Errorf("detected = %v", detected)
	}
}

func TestDetectDefaultAgents_FallbackIsNeverEmpty(t *testing.T) {
	base := t.TempDir()
	roster := []AgentDef{
		{Name: "claude-code", GlobalSkillsDir: filepath.Join(base, "a", "skills")},
		{Name: "codex", GlobalSkillsDir: filepath.Join(base, "b", "skills")},
	}
	detected := DetectDefaultAgents(roster)
	if len(detected) != 1 || detected[0].Name != "codex" {
		t.Errorf("detected = %v, want codex fallback", detected)
	}
}

func TestLoadAgents_JSONCOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	os.MkdirAll(filepath.Join(project, ".skil"), 0o755)

	// JSONC: comments and trailing commas are fine.
	overrides := `[
  // Local fork of an agent
  {
    "name": "codex",
    "displayName": "Codex Fork",
    "skillsDir": ".codex-fork/skills",
    "globalSkillsDir": "~/codex-fork/skills",
  },
  {
    "name": "custom",
    "skillsDir": ".custom/skills",
  },
]`
	if err := os.WriteFile(filepath.Join(project, ".skil", "agents.json"), []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}

	agents, err := LoadAgents(project)
	if err != nil {
		t.Fatalf("LoadAgents() error: %v", err)
	}

	byName := make(map[string]AgentDef)
	for _, a := range agents {
		byName[a.Name] = a
	}
	if byName["codex"].SkillsDir != ".codex-fork/skills" {
		t.Errorf("override not applied: %+v", byName["codex"])
	}
	if byName["codex"].DisplayName != "Codex Fork" {
		t.Errorf("DisplayName = %q", byName["codex"].DisplayName)
	}
	custom, ok := byName["custom"]
	if !ok {
		t.Fatal("custom agent not appended")
	}
	if custom.DisplayName != "custom" {
		t.Errorf("DisplayName defaulting failed: %q", custom.DisplayName)
	}
}

func TestLoadAgents_MissingOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	agents, err := LoadAgents(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAgents() error: %v", err)
	}
	if len(agents) != len(DefaultAgents()) {
		t.Errorf("agents = %d", len(agents))
	}
}

func TestLoadAgents_InvalidOverridesRejected(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	os.MkdirAll(filepath.Join(project, ".skil"), 0o755)
	os.WriteFile(filepath.Join(project, ".skil", "agents.json"), []byte(`[{"name": ""}]`), 0o644)

	if _, err := LoadAgents(project); err == nil {
		t.Error("expected error for entry without name/skillsDir")
	}
}
