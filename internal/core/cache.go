package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// The content cache backs symlink installs: skill content is materialized
// once per (source, revision) and every agent's symlink points into it.
// Entries are immutable once created; a new revision gets a new entry.

// CacheRoot returns the cache directory for a scope. Project caches live
// under the project's own .skil directory; the global cache lives under
// $XDG_DATA_HOME/skil/cache.
func CacheRoot(scope Scope, projectRoot string) string {
	if scope == ScopeGlobal {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, _ := os.UserHomeDir()
			dataHome = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(dataHome, "skil", "cache")
	}
	return filepath.Join(projectRoot, ".skil", "cache")
}

// cacheEntryName keys a cache entry by source identity and revision. The
// identifier is hashed so host/owner/repo separators and local paths never
// leak into directory names.
func cacheEntryName(sourceID, revision string) string {
	return hashString(sourceID)[:12] + "-" + TruncateRevision(revision)
}

// EnsureSkillCached materializes one skill's content into the cache and
// returns the cached directory. Existing entries are reused as-is: content
// at a given (source, revision) never changes. Creation is atomic (copy to
// a scratch dir, rename into place) so a crashed run never leaves a
// half-written entry behind.
func EnsureSkillCached(cacheRoot, sourceID, revision string, skill DiscoveredSkill) (string, error) {
	entryDir := filepath.Join(cacheRoot, cacheEntryName(sourceID, revision))
	target := filepath.Join(entryDir, SanitizeName(skill.Name))
	if dirExists(target) {
		return target, nil
	}

	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache entry: %w", err)
	}

	scratch, err := os.MkdirTemp(entryDir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("creating cache staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	staged := filepath.Join(scratch, "content")
	if err := copyDirectory(skill.Dir, staged); err != nil {
		return "", fmt.Errorf("caching skill %s: %w", skill.Name, err)
	}
	if err := os.Rename(staged, target); err != nil {
		// A concurrent run may have won the rename.
		if dirExists(target) {
			return target, nil
		}
		return "", fmt.Errorf("caching skill %s: %w", skill.Name, err)
	}
	return target, nil
}

// SweepCache removes cache entries no manifest entry references. Live keys
// are recomputed from the manifest's (source, revision) pairs, so stale
// revisions fall out after an update.
func SweepCache(cacheRoot string, m *Manifest) error {
	entries, err := os.ReadDir(cacheRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache: %w", err)
	}

	live := make(map[string]bool, len(m.Sources))
	for id, entry := range m.Sources {
		live[cacheEntryName(id, entry.Revision)] = true
	}

	for _, e := range entries {
		if !e.IsDir() || live[e.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(cacheRoot, e.Name())); err != nil {
			return fmt.Errorf("sweeping cache entry %s: %w", e.Name(), err)
		}
	}
	cleanupEmptyDir(cacheRoot)
	return nil
}
