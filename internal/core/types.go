// Package core implements the skill source synchronization and
// installation engine. It has zero UI dependencies and is independently
// testable; interactive prompting is injected through the Prompter
// interface.
package core

// SourceKind tags the variant of a parsed source string. Dispatch on the
// kind happens once, during parsing; everything downstream operates on the
// normalized source identifier and a working-copy path.
type SourceKind string

const (
	// SourceGit is a git repository (hosted shorthand, HTTPS or SSH URL).
	SourceGit SourceKind = "git"
	// SourceLocal is an existing local directory.
	SourceLocal SourceKind = "local"
	// SourceArchive is a local .zip/.tar.gz/.tgz archive file.
	SourceArchive SourceKind = "archive"
)

// ParsedSource is the normalized form of a user-supplied source string.
type ParsedSource struct {
	Kind SourceKind

	// ID is the canonical source identifier: "<host>/<owner>/<repo>" for
	// recognized hosts, the cleaned clone URL for other git remotes, or
	// the absolute path for local and archive sources. Two inputs naming
	// the same upstream always produce the same ID.
	ID string

	Host     string // e.g. "github.com"
	Owner    string
	Repo     string
	CloneURL string // full git clone URL
	Branch   string // branch/tag extracted from a tree/blob URL, if any
	SubPath  string // path within the repo to search for skills

	// LocalPath is the absolute directory (SourceLocal) or archive file
	// (SourceArchive) path.
	LocalPath string
}

// ResolvedSource is a fetched source: a working copy on disk plus the
// revision it was resolved to. The caller owns the scratch directory and
// must call Cleanup when done, including on error paths.
type ResolvedSource struct {
	Source   *ParsedSource
	Dir      string // working copy root
	Revision string // commit SHA for git, content/archive hash otherwise

	cleanup func()
}

// Cleanup releases the scratch working directory, if any. Safe to call
// multiple times.
func (r *ResolvedSource) Cleanup() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}

// DiscoveredSkill is a skill found in a working copy. Ephemeral: it lives
// for the duration of a single command invocation and is never persisted.
type DiscoveredSkill struct {
	Name        string
	Description string
	Dir         string // absolute directory containing SKILL.md
	RelPath     string // slash-separated path relative to the source root ("" at root)
}

// InstallPath returns the path of this skill below an agent's skill
// directory. With fullDepth the source-relative path is preserved;
// otherwise the install is flattened under the sanitized skill name, so
// the on-disk location is derivable from the name alone.
func (s DiscoveredSkill) InstallPath(fullDepth bool) string {
	if fullDepth && s.RelPath != "" {
		return s.RelPath
	}
	return SanitizeName(s.Name)
}

// AgentDef describes a target agent and its skill directory conventions.
type AgentDef struct {
	Name            string `json:"name"`
	DisplayName     string `json:"displayName"`
	SkillsDir       string `json:"skillsDir"`       // project-relative (e.g. ".claude/skills")
	GlobalSkillsDir string `json:"globalSkillsDir"` // absolute home-level directory
}

// InstallMode selects how skill content is materialized.
type InstallMode string

const (
	// ModeSymlink materializes content once per (source, revision) into a
	// shared cache and symlinks each agent's skill directory at it.
	ModeSymlink InstallMode = "symlink"
	// ModeCopy deep-copies content independently per (skill, agent) pair.
	ModeCopy InstallMode = "copy"
)

// Scope selects where skills are installed and which manifest is used.
type Scope string

const (
	// ScopeProject installs under the current project root.
	ScopeProject Scope = "project"
	// ScopeGlobal installs under home-level agent directories.
	ScopeGlobal Scope = "global"
)

// InstallPair is one concrete (skill, agent) installation unit.
type InstallPair struct {
	Skill DiscoveredSkill
	Agent AgentDef
}

// PairResult records a successfully handled pair.
type PairResult struct {
	Skill string
	Agent string
	Path  string // installed target path
}

// PairError records a pair that failed; one failing pair never aborts the
// others.
type PairError struct {
	Skill string
	Agent string
	Err   error
}

// InstallReport aggregates per-pair outcomes of an install or removal.
type InstallReport struct {
	Succeeded []PairResult
	Skipped   []PairResult
	Failed    []PairError
}

// Merge appends another report's outcomes into this one.
func (r *InstallReport) Merge(other *InstallReport) {
	if other == nil {
		return
	}
	r.Succeeded = append(r.Succeeded, other.Succeeded...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Failed = append(r.Failed, other.Failed...)
}

// Err returns a non-nil error if any pair failed. Succeeded pairs still
// apply; the error only drives the command exit status.
func (r *InstallReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &partialFailureError{count: len(r.Failed)}
}
