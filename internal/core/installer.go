package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// markerFileName marks a copied install as managed by this tool. Symlink
// installs need no marker: a link into the cache identifies itself.
const markerFileName = ".skil-meta.json"

// installMarker is the sidecar written into every copied install.
type installMarker struct {
	Source      string    `json:"source"`
	Skill       string    `json:"skill"`
	Revision    string    `json:"revision"`
	InstalledAt time.Time `json:"installedAt"`
}

// InstallOptions configures an installation run.
type InstallOptions struct {
	Mode        InstallMode
	Scope       Scope
	ProjectRoot string
	FullDepth   bool

	// Overwrite permits replacing unmanaged content at target paths.
	// Managed content (our own symlinks and marked copies) is always
	// replaceable; this flag only governs foreign files.
	Overwrite bool
}

// Installer materializes (skill, agent) pairs onto disk.
type Installer struct {
	cacheRoot string
}

// NewInstaller creates an Installer writing through the cache for the
// given scope.
func NewInstaller(scope Scope, projectRoot string) *Installer {
	return &Installer{cacheRoot: CacheRoot(scope, projectRoot)}
}

// Install materializes every pair from a resolved source. Pairs are
// independent: one failure is recorded and the rest proceed. The report
// carries per-pair outcomes; report.Err() is non-nil when anything failed.
func (in *Installer) Install(res *ResolvedSource, pairs []InstallPair, opts InstallOptions) *InstallReport {
	report := &InstallReport{}
	for _, pair := range pairs {
		target := in.targetPath(pair, opts)
		if err := in.installPair(res, pair, target, opts); err != nil {
			report.Failed = append(report.Failed, PairError{
				Skill: pair.Skill.Name,
				Agent: pair.Agent.Name,
				Err:   err,
			})
			continue
		}
		report.Succeeded = append(report.Succeeded, PairResult{
			Skill: pair.Skill.Name,
			Agent: pair.Agent.Name,
			Path:  target,
		})
	}
	return report
}

// ConflictingPairs returns the subset of pairs whose target paths hold
// content this tool does not manage. Callers confirm before such targets
// are overwritten.
func (in *Installer) ConflictingPairs(pairs []InstallPair, opts InstallOptions) []InstallPair {
	var conflicts []InstallPair
	for _, pair := range pairs {
		target := in.targetPath(pair, opts)
		if pathExists(target) && !in.isManaged(target) {
			conflicts = append(conflicts, pair)
		}
	}
	return conflicts
}

// Remove deletes the installed targets for the given pairs. Only managed
// content is removed; a foreign file at the expected path is reported as a
// conflict and left untouched. Missing targets count as skipped.
func (in *Installer) Remove(pairs []InstallPair, opts InstallOptions) *InstallReport {
	report := &InstallReport{}
	for _, pair := range pairs {
		target := in.targetPath(pair, opts)
		if !pathExists(target) {
			report.Skipped = append(report.Skipped, PairResult{
				Skill: pair.Skill.Name,
				Agent: pair.Agent.Name,
				Path:  target,
			})
			continue
		}
		if !in.isManaged(target) {
			report.Failed = append(report.Failed, PairError{
				Skill: pair.Skill.Name,
				Agent: pair.Agent.Name,
				Err:   &InstallConflictError{Path: target},
			})
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			report.Failed = append(report.Failed, PairError{
				Skill: pair.Skill.Name,
				Agent: pair.Agent.Name,
				Err:   fmt.Errorf("removing %s: %w", target, err),
			})
			continue
		}
		cleanupEmptyDir(filepath.Dir(target))
		report.Succeeded = append(report.Succeeded, PairResult{
			Skill: pair.Skill.Name,
			Agent: pair.Agent.Name,
			Path:  target,
		})
	}
	return report
}

// locateRemovalPairs resolves the on-disk directory of each tracked skill
// per agent by matching SKILL.md front matter, so removals hit the real
// install path under either layout. The resulting pairs carry the located
// path in RelPath and must be removed with FullDepth set; a skill with no
// install on disk keeps an empty RelPath and falls through to the
// flattened default, where it is reported as skipped.
func locateRemovalPairs(skillNames []string, agents []AgentDef, scope Scope, projectRoot string) []InstallPair {
	var pairs []InstallPair
	for _, name := range skillNames {
		for _, a := range agents {
			skill := DiscoveredSkill{Name: name}
			root := AgentSkillsRoot(a, scope, projectRoot)
			if dir, ok := FindInstalledSkillDir(root, name); ok {
				if rel, err := filepath.Rel(root, dir); err == nil {
					skill.RelPath = filepath.ToSlash(rel)
				}
			}
			pairs = append(pairs, InstallPair{Skill: skill, Agent: a})
		}
	}
	return pairs
}

// targetPath computes where a pair lands on disk.
func (in *Installer) targetPath(pair InstallPair, opts InstallOptions) string {
	root := AgentSkillsRoot(pair.Agent, opts.Scope, opts.ProjectRoot)
	return filepath.Join(root, filepath.FromSlash(pair.Skill.InstallPath(opts.FullDepth)))
}

func (in *Installer) installPair(res *ResolvedSource, pair InstallPair, target string, opts InstallOptions) error {
	if pathExists(target) && !in.isManaged(target) && !opts.Overwrite {
		return &InstallConflictError{Path: target}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	switch opts.Mode {
	case ModeSymlink:
		return in.installSymlink(res, pair, target)
	case ModeCopy:
		return in.installCopy(res, pair, target)
	default:
		return fmt.Errorf("unsupported install mode: %s", opts.Mode)
	}
}

// installSymlink points the target at the cached copy of the skill. The
// link is relative when the target and cache share a tree (project scope),
// so the project stays relocatable.
func (in *Installer) installSymlink(res *ResolvedSource, pair InstallPair, target string) error {
	cached, err := EnsureSkillCached(in.cacheRoot, res.Source.ID, res.Revision, pair.Skill)
	if err != nil {
		return err
	}

	linkDest := cached
	if rel, err := filepath.Rel(filepath.Dir(target), cached); err == nil && !strings.HasPrefix(rel, "../../../..") {
		linkDest = rel
	}

	if err := removeExisting(target); err != nil {
		return err
	}
	if err := os.Symlink(linkDest, target); err != nil {
		// Symlinks may be unavailable (restricted Windows setups); fall
		// back to a marked copy so the install still lands.
		return in.installCopy(res, pair, target)
	}
	return nil
}

// installCopy deep-copies the skill to the target and writes the managed
// marker. The copy is staged next to the target and renamed into place.
func (in *Installer) installCopy(res *ResolvedSource, pair InstallPair, target string) error {
	parent := filepath.Dir(target)
	scratch, err := os.MkdirTemp(parent, ".skil-install-*")
	if err != nil {
		return fmt.Errorf("staging install: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	staged := filepath.Join(scratch, "content")
	if err := copyDirectory(pair.Skill.Dir, staged); err != nil {
		return fmt.Errorf("copying skill %s: %w", pair.Skill.Name, err)
	}
	if err := writeMarker(staged, installMarker{
		Source:      res.Source.ID,
		Skill:       pair.Skill.Name,
		Revision:    res.Revision,
		InstalledAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := removeExisting(target); err != nil {
		return err
	}
	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("installing %s: %w", pair.Skill.Name, err)
	}
	return nil
}

// isManaged reports whether the path holds content this tool produced: a
// symlink into our cache, or a directory carrying the install marker.
func (in *Installer) isManaged(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		dest, err := os.Readlink(path)
		if err != nil {
			return false
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		absDest, err := filepath.Abs(dest)
		if err != nil {
			return false
		}
		absCache, err := filepath.Abs(in.cacheRoot)
		if err != nil {
			return false
		}
		return strings.HasPrefix(absDest, absCache+string(os.PathSeparator))
	}
	if info.IsDir() {
		return fileExists(filepath.Join(path, markerFileName))
	}
	return false
}

func writeMarker(dir string, marker installMarker) error {
	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding install marker: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, markerFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing install marker: %w", err)
	}
	return nil
}

func removeExisting(target string) error {
	if !pathExists(target) {
		return nil
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	return nil
}
