package core

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const skillFileName = "SKILL.md"

// discoveryMaxDepth bounds the fallback tree walk when no skills sit in a
// conventional location.
const discoveryMaxDepth = 5

// SkillMeta is the YAML front matter parsed from a SKILL.md file.
type SkillMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	License     string `yaml:"license,omitempty"`
}

// DiscoverSkills enumerates candidate skills in a working copy. A skill is
// any directory with a SKILL.md carrying name and description front
// matter. The result is recomputed fresh on every call, deduplicated by
// skill name, and sorted by name; no discovery state is carried across
// commands.
func DiscoverSkills(root string, subPath string) ([]DiscoveredSkill, error) {
	searchRoot := root
	if subPath != "" {
		searchRoot = filepath.Join(root, filepath.FromSlash(subPath))
	}
	if !dirExists(searchRoot) {
		return nil, &SourceNotFoundError{
			Source: searchRoot,
			Err:    fmt.Errorf("subpath %q does not exist", subPath),
		}
	}

	var skills []DiscoveredSkill
	seen := make(map[string]bool)

	add := func(dir string) error {
		meta, err := ParseSkillFile(filepath.Join(dir, skillFileName))
		if err != nil || meta == nil {
			return nil // not a valid skill dir; keep walking
		}
		if seen[meta.Name] {
			return nil
		}
		seen[meta.Name] = true

		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		skills = append(skills, DiscoveredSkill{
			Name:        meta.Name,
			Description: meta.Description,
			Dir:         dir,
			RelPath:     filepath.ToSlash(rel),
		})
		return nil
	}

	// The search root itself may be a single skill.
	if fileExists(filepath.Join(searchRoot, skillFileName)) {
		if err := add(searchRoot); err != nil {
			return nil, err
		}
	}

	// Conventional skill directories are scanned one level deep.
	for _, dir := range prioritySkillDirs(searchRoot) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			candidate := filepath.Join(dir, entry.Name())
			if !fileExists(filepath.Join(candidate, skillFileName)) {
				continue
			}
			if err := add(candidate); err != nil {
				return nil, err
			}
		}
	}

	// Fallback: bounded walk for repositories with unconventional layouts.
	if len(skills) == 0 {
		err := walkToDepth(searchRoot, discoveryMaxDepth, func(path string, d fs.DirEntry) error {
			if d.IsDir() || d.Name() != skillFileName {
				return nil
			}
			return add(filepath.Dir(path))
		})
		if err != nil {
			return nil, fmt.Errorf("discovering skills: %w", err)
		}
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// FindInstalledSkillDir locates the installed directory of a skill under
// an agent skills root by matching SKILL.md front matter. Covers both the
// flattened and full-depth layouts. Symlinked installs are followed, but
// the walk never descends through a symlink.
func FindInstalledSkillDir(root, skillName string) (string, bool) {
	return findSkillDirIn(root, skillName, discoveryMaxDepth)
}

func findSkillDirIn(root, skillName string, depth int) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		candidate := filepath.Join(root, e.Name())
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		meta, err := ParseSkillFile(filepath.Join(candidate, skillFileName))
		if err == nil && meta != nil && meta.Name == skillName {
			return candidate, true
		}
		if e.IsDir() && !shouldSkipComponent(e.Name()) && depth > 1 {
			if found, ok := findSkillDirIn(candidate, skillName, depth-1); ok {
				return found, true
			}
		}
	}
	return "", false
}

// prioritySkillDirs lists the conventional places skill bundles live,
// relative to the search root.
func prioritySkillDirs(base string) []string {
	subdirs := []string{
		".",
		"skills",
		".agents/skills",
		".claude/skills",
		".codex/skills",
		".continue/skills",
		".cursor/skills",
		".github/skills",
		".goose/skills",
		".junie/skills",
		".opencode/skills",
		".windsurf/skills",
	}
	dirs := make([]string, 0, len(subdirs))
	for _, sub := range subdirs {
		dirs = append(dirs, filepath.Join(base, sub))
	}
	return dirs
}

// walkToDepth walks a tree, pruning below maxDepth and skipping VCS/build
// directories.
func walkToDepth(root string, maxDepth int, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		depth := strings.Count(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if shouldSkipComponent(d.Name()) || depth >= maxDepth {
				if rel != "." {
					return filepath.SkipDir
				}
			}
			return nil
		}
		return fn(path, d)
	})
}

// ParseSkillFile reads the YAML front matter from a SKILL.md file.
// Returns (nil, nil) when the file has no front matter or lacks the
// required name/description fields, since such directories simply don't
// qualify as skills.
func ParseSkillFile(path string) (*SkillMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, nil
	}

	var frontmatter strings.Builder
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		frontmatter.WriteString(line)
		frontmatter.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !closed {
		return nil, nil
	}

	var meta SkillMeta
	if err := yaml.Unmarshal([]byte(frontmatter.String()), &meta); err != nil {
		return nil, fmt.Errorf("parsing front matter in %s: %w", path, err)
	}
	if meta.Name == "" || meta.Description == "" {
		return nil, nil
	}
	return &meta, nil
}
