package core

import (
	"fmt"
	"os"
)

// Resolver turns a parsed source into a working copy on disk plus a
// resolved checksum. Fetches are shallow: only the content at the
// requested ref (or a pinned revision) is transferred, never full history.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve fetches src into a scratch working copy. When pinned is
// non-empty the exact revision is fetched (git sources); otherwise the
// source's branch, or its default ref, is used. The returned
// ResolvedSource must be cleaned up by the caller, including on error
// paths of the surrounding command.
func (r *Resolver) Resolve(src *ParsedSource, pinned string) (*ResolvedSource, error) {
	switch src.Kind {
	case SourceLocal:
		if !dirExists(src.LocalPath) {
			return nil, &SourceNotFoundError{Source: src.ID}
		}
		rev, err := localRevision(src.LocalPath, src.SubPath)
		if err != nil {
			return nil, err
		}
		return &ResolvedSource{Source: src, Dir: src.LocalPath, Revision: rev}, nil

	case SourceArchive:
		if !fileExists(src.LocalPath) {
			return nil, &SourceNotFoundError{Source: src.ID}
		}
		rev, err := hashFile(src.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("hashing archive: %w", err)
		}
		dir, err := extractArchive(src.LocalPath)
		if err != nil {
			return nil, err
		}
		return &ResolvedSource{
			Source:   src,
			Dir:      dir,
			Revision: rev,
			cleanup:  func() { _ = os.RemoveAll(dir) },
		}, nil

	case SourceGit:
		var dir string
		var err error
		if pinned != "" {
			dir, err = fetchAtRevision(src, pinned)
		} else {
			dir, err = cloneRepo(src, src.Branch)
		}
		if err != nil {
			return nil, err
		}
		rev, err := headRevision(dir)
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
		return &ResolvedSource{
			Source:   src,
			Dir:      dir,
			Revision: rev,
			cleanup:  func() { _ = os.RemoveAll(dir) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported source kind: %s", src.Kind)
	}
}

// RemoteRevision resolves the latest checksum for a source without
// fetching content: a ls-remote ref lookup for git, a recomputed content
// hash for local and archive sources. Drift checks call this for every
// manifest entry.
func (r *Resolver) RemoteRevision(src *ParsedSource) (string, error) {
	switch src.Kind {
	case SourceLocal:
		if !dirExists(src.LocalPath) {
			return "", &SourceNotFoundError{Source: src.ID}
		}
		return localRevision(src.LocalPath, src.SubPath)
	case SourceArchive:
		if !fileExists(src.LocalPath) {
			return "", &SourceNotFoundError{Source: src.ID}
		}
		return hashFile(src.LocalPath)
	case SourceGit:
		return lsRemoteRevision(src, src.Branch)
	default:
		return "", fmt.Errorf("unsupported source kind: %s", src.Kind)
	}
}

// localRevision computes the content hash for a local source: the hash of
// every discovered skill's directory tree, in skill order. Local sources
// have no remote ref, so content is the only identity.
func localRevision(dir, subPath string) (string, error) {
	skills, err := DiscoverSkills(dir, subPath)
	if err != nil {
		return "", err
	}
	if len(skills) == 0 {
		// Hash the whole tree so an empty source still has a stable
		// revision and NoSkillsFound surfaces later with context.
		return hashDirectory(dir)
	}

	combined := ""
	for _, s := range skills {
		h, err := hashDirectory(s.Dir)
		if err != nil {
			return "", err
		}
		combined += s.RelPath + ":" + h + "\n"
	}
	return hashString(combined), nil
}
