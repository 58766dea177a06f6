package core

import (
	"errors"
	"fmt"
	"strings"
)

// The engine's failure taxonomy. Every error names the offending
// source/skill/agent and wraps the underlying cause where there is one, so
// the CLI can render actionable messages without string matching.

// SourceUnreachableError means network or VCS access to a source failed.
// The source may well exist; we could not reach it.
type SourceUnreachableError struct {
	Source string
	Err    error
}

func (e *SourceUnreachableError) Error() string {
	return fmt.Sprintf("source %s unreachable: %v", e.Source, e.Err)
}

func (e *SourceUnreachableError) Unwrap() error { return e.Err }

// SourceNotFoundError means a local path or remote repository does not
// exist (or the user has no access, which remotes report identically).
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s not found: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("source %s not found", e.Source)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// AmbiguousSourceError means a shorthand could not be disambiguated into a
// repository, path, or archive.
type AmbiguousSourceError struct {
	Source string
	Hint   string
}

func (e *AmbiguousSourceError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("ambiguous source %q: %s", e.Source, e.Hint)
	}
	return fmt.Sprintf("ambiguous source %q", e.Source)
}

// NoSkillsFoundError means discovery produced zero candidates where the
// caller required at least one.
type NoSkillsFoundError struct {
	Source string
}

func (e *NoSkillsFoundError) Error() string {
	return fmt.Sprintf("no skills found in %s", e.Source)
}

// UnknownSkillError means an explicitly requested skill name matched
// nothing discovered. Partial typos surface; they are never silently
// ignored.
type UnknownSkillError struct {
	Name      string
	Available []string
}

func (e *UnknownSkillError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown skill %q", e.Name)
	}
	return fmt.Sprintf("unknown skill %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UnknownAgentError means a requested agent name is not in the roster.
type UnknownAgentError struct {
	Name  string
	Known []string
}

func (e *UnknownAgentError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown agent %q", e.Name)
	}
	return fmt.Sprintf("unknown agent %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// ErrSelectionRequired is returned when no skills were named, --all was not
// given, and the invocation is non-interactive. An unattended install never
// falls back to a silent default.
var ErrSelectionRequired = errors.New("no skills selected: pass skill names, --all, or run interactively")

// InstallConflictError means the target path already exists with content
// this tool did not produce. The path is left untouched.
type InstallConflictError struct {
	Path string
}

func (e *InstallConflictError) Error() string {
	return fmt.Sprintf("refusing to overwrite %s: not managed by skil", e.Path)
}

// ManifestCorruptError means the on-disk manifest cannot be parsed. Fatal
// for any command needing manifest state; tracked state is never silently
// discarded or reset.
type ManifestCorruptError struct {
	Path string
	Err  error
}

func (e *ManifestCorruptError) Error() string {
	return fmt.Sprintf("manifest %s is corrupt: %v", e.Path, e.Err)
}

func (e *ManifestCorruptError) Unwrap() error { return e.Err }

// partialFailureError is the aggregate error for commands where some pairs
// succeeded and some failed.
type partialFailureError struct {
	count int
}

func (e *partialFailureError) Error() string {
	return fmt.Sprintf("%d install pair(s) failed", e.count)
}

// IsConflict reports whether err is (or wraps) an InstallConflictError.
func IsConflict(err error) bool {
	var ce *InstallConflictError
	return errors.As(err, &ce)
}

// IsUnreachable reports whether err is (or wraps) a SourceUnreachableError.
func IsUnreachable(err error) bool {
	var ue *SourceUnreachableError
	return errors.As(err, &ue)
}
