package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ProjectManifestName is the per-project manifest file name.
const ProjectManifestName = ".skil.toml"

// Manifest is the declarative record of tracked sources and their
// installed skills. Keys of Sources are canonical source identifiers, so
// re-adding a source under a different spelling merges into one entry.
type Manifest struct {
	Sources map[string]*ManifestEntry `toml:"source"`
}

// ManifestEntry records one tracked source: how to fetch it, the revision
// the installs came from, and which (skill, agent) pairs it feeds.
type ManifestEntry struct {
	SourceType string   `toml:"source-type"`
	Branch     string   `toml:"branch,omitempty"`
	Subpath    string   `toml:"subpath,omitempty"`
	Revision   string   `toml:"revision"`
	Mode       string   `toml:"mode,omitempty"`
	FullDepth  bool     `toml:"full-depth,omitempty"`
	Skills     []string `toml:"skills"`
	Agents     []string `toml:"agents"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Sources: make(map[string]*ManifestEntry)}
}

// ManifestStore loads and saves a manifest at a fixed path.
type ManifestStore struct {
	Path string
}

// ProjectManifestStore returns the store for a project root.
func ProjectManifestStore(projectRoot string) *ManifestStore {
	return &ManifestStore{Path: filepath.Join(projectRoot, ProjectManifestName)}
}

// GlobalManifestStore returns the store for the user-level manifest
// ($XDG_CONFIG_HOME/skil/config.toml).
func GlobalManifestStore() *ManifestStore {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return &ManifestStore{Path: filepath.Join(configHome, "skil", "config.toml")}
}

// ManifestStoreFor picks the store for a scope.
func ManifestStoreFor(scope Scope, projectRoot string) *ManifestStore {
	if scope == ScopeGlobal {
		return GlobalManifestStore()
	}
	return ProjectManifestStore(projectRoot)
}

// Load reads the manifest. A missing file yields an empty manifest; a
// file that exists but fails to parse is a hard ManifestCorruptError, so
// tracked state is never silently reset.
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("reading manifest %s: %w", s.Path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestCorruptError{Path: s.Path, Err: err}
	}
	if m.Sources == nil {
		m.Sources = make(map[string]*ManifestEntry)
	}
	for id, entry := range m.Sources {
		if entry == nil {
			return nil, &ManifestCorruptError{
				Path: s.Path,
				Err:  fmt.Errorf("source %s has no body", id),
			}
		}
	}
	return &m, nil
}

// Save writes the manifest atomically: encode to a temp file in the same
// directory, then rename over the target. The encoding is deterministic
// (map keys and list entries sorted), so an unchanged manifest round-trips
// byte-identically.
func (s *ManifestStore) Save(m *Manifest) error {
	for _, entry := range m.Sources {
		sort.Strings(entry.Skills)
		sort.Strings(entry.Agents)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".skil-manifest-*")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

// Upsert merges a completed install into the manifest: the entry for the
// source is created or updated with the new revision and layout, and the
// installed skills and agents are unioned into the tracked sets.
func (m *Manifest) Upsert(src *ParsedSource, revision string, mode InstallMode, fullDepth bool, skills, agents []string) {
	entry, ok := m.Sources[src.ID]
	if !ok {
		entry = &ManifestEntry{SourceType: string(src.Kind)}
		m.Sources[src.ID] = entry
	}
	entry.SourceType = string(src.Kind)
	entry.Branch = src.Branch
	entry.Subpath = src.SubPath
	entry.Revision = revision
	entry.Mode = string(mode)
	entry.FullDepth = fullDepth
	entry.Skills = unionSorted(entry.Skills, skills)
	entry.Agents = unionSorted(entry.Agents, agents)
}

// RemoveSkill drops a skill from a source entry. When the last skill
// goes, the whole entry goes; the manifest never keeps sources that feed
// nothing.
func (m *Manifest) RemoveSkill(sourceID, skill string) {
	entry, ok := m.Sources[sourceID]
	if !ok {
		return
	}
	entry.Skills = removeString(entry.Skills, skill)
	if len(entry.Skills) == 0 {
		delete(m.Sources, sourceID)
	}
}

// FindSkill locates which source entry tracks a skill name. Returns
// ("", nil) when untracked.
func (m *Manifest) FindSkill(skill string) (string, *ManifestEntry) {
	ids := m.SortedIDs()
	for _, id := range ids {
		entry := m.Sources[id]
		for _, s := range entry.Skills {
			if s == skill {
				return id, entry
			}
		}
	}
	return "", nil
}

// SortedIDs returns the source identifiers in lexical order, for
// deterministic iteration and output.
func (m *Manifest) SortedIDs() []string {
	ids := make([]string, 0, len(m.Sources))
	for id := range m.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func unionSorted(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	var out []string
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range added {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func removeString(list []string, target string) []string {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
