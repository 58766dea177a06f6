package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// agentOverridesFile is an optional JSONC file in the project root that
// adds or replaces agent definitions. Comments and trailing commas are
// allowed.
const agentOverridesFile = ".skil/agents.json"

// DefaultAgents returns the built-in agent roster with environment
// overrides ($CODEX_HOME, $CLAUDE_CONFIG_DIR, $XDG_CONFIG_HOME) resolved.
func DefaultAgents() []AgentDef {
	home, _ := os.UserHomeDir()
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	codexHome := os.Getenv("CODEX_HOME")
	if codexHome == "" {
		codexHome = filepath.Join(home, ".codex")
	}
	claudeHome := os.Getenv("CLAUDE_CONFIG_DIR")
	if claudeHome == "" {
		claudeHome = filepath.Join(home, ".claude")
	}

	return []AgentDef{
		{
			Name:            "codex",
			DisplayName:     "Codex",
			SkillsDir:       ".codex/skills",
			GlobalSkillsDir: filepath.Join(codexHome, "skills"),
		},
		{
			Name:            "claude-code",
			DisplayName:     "Claude Code",
			SkillsDir:       ".claude/skills",
			GlobalSkillsDir: filepath.Join(claudeHome, "skills"),
		},
		{
			Name:            "opencode",
			DisplayName:     "OpenCode",
			SkillsDir:       ".opencode/skills",
			GlobalSkillsDir: filepath.Join(configHome, "opencode", "skills"),
		},
		{
			Name:            "cursor",
			DisplayName:     "Cursor",
			SkillsDir:       ".cursor/skills",
			GlobalSkillsDir: filepath.Join(home, ".cursor", "skills"),
		},
		{
			Name:            "continue",
			DisplayName:     "Continue",
			SkillsDir:       ".continue/skills",
			GlobalSkillsDir: filepath.Join(home, ".continue", "skills"),
		},
		{
			Name:            "github-copilot",
			DisplayName:     "GitHub Copilot",
			SkillsDir:       ".github/skills",
			GlobalSkillsDir: filepath.Join(home, ".copilot", "skills"),
		},
		{
			Name:            "goose",
			DisplayName:     "Goose",
			SkillsDir:       ".goose/skills",
			GlobalSkillsDir: filepath.Join(configHome, "goose", "skills"),
		},
		{
			Name:            "junie",
			DisplayName:     "Junie",
			SkillsDir:       ".junie/skills",
			GlobalSkillsDir: filepath.Join(home, ".junie", "skills"),
		},
		{
			Name:            "windsurf",
			DisplayName:     "Windsurf",
			SkillsDir:       ".windsurf/skills",
			GlobalSkillsDir: filepath.Join(home, ".windsurf", "skills"),
		},
	}
}

// LoadAgents returns the agent roster for a project: the defaults merged
// with any overrides from .skil/agents.json. A missing overrides file is
// not an error.
func LoadAgents(projectRoot string) ([]AgentDef, error) {
	agents := DefaultAgents()

	path := filepath.Join(projectRoot, filepath.FromSlash(agentOverridesFile))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agents, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// JSONC: standardize strips comments and trailing commas.
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	var overrides []AgentDef
	if err := json.Unmarshal(std, &overrides); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, o := range overrides {
		if o.Name == "" || o.SkillsDir == "" {
			return nil, fmt.Errorf("%s: agent entries need name and skillsDir", path)
		}
		if o.DisplayName == "" {
			o.DisplayName = o.Name
		}
		o.GlobalSkillsDir = expandPath(o.GlobalSkillsDir)
		replaced := false
		for i := range agents {
			if agents[i].Name == o.Name {
				agents[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			agents = append(agents, o)
		}
	}

	return agents, nil
}

// ResolveAgents maps requested agent names onto the roster. The wildcard
// "*" selects every agent; an empty request selects the detected
// defaults. Unknown names fail with UnknownAgentError, never silently
// dropped.
func ResolveAgents(roster []AgentDef, requested []string) ([]AgentDef, error) {
	if len(requested) == 0 {
		return DetectDefaultAgents(roster), nil
	}
	if len(requested) == 1 && requested[0] == "*" {
		return roster, nil
	}

	known := make([]string, 0, len(roster))
	byName := make(map[string]AgentDef, len(roster))
	for _, a := range roster {
		known = append(known, a.Name)
		byName[a.Name] = a
	}

	var selected []AgentDef
	for _, name := range requested {
		a, ok := byName[name]
		if !ok {
			return nil, &UnknownAgentError{Name: name, Known: known}
		}
		selected = append(selected, a)
	}
	return selected, nil
}

// DetectDefaultAgents picks agents whose global config directory exists on
// this machine. Falls back to codex so the set is never empty.
func DetectDefaultAgents(roster []AgentDef) []AgentDef {
	var detected []AgentDef
	for _, a := range roster {
		probe := filepath.Dir(a.GlobalSkillsDir)
		if dirExists(probe) {
			detected = append(detected, a)
		}
	}
	if len(detected) == 0 {
		for _, a := range roster {
			if a.Name == "codex" {
				return []AgentDef{a}
			}
		}
		if len(roster) > 0 {
			return roster[:1]
		}
	}
	return detected
}

// AgentSkillsRoot returns the directory an agent reads skills from for
// the given scope.
func AgentSkillsRoot(agent AgentDef, scope Scope, projectRoot string) string {
	if scope == ScopeGlobal {
		return agent.GlobalSkillsDir
	}
	return filepath.Join(projectRoot, filepath.FromSlash(agent.SkillsDir))
}
