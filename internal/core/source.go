package core

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ownerRepoPattern matches "owner/repo" (exactly 2 segments, no protocol).
var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// ownerRepoPathPattern matches "owner/repo/path/to/skills" (3+ segments).
var ownerRepoPathPattern = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)/([a-zA-Z0-9_.-]+)/(.+)$`)

// archiveExts are the archive file extensions accepted as sources.
var archiveExts = []string{".zip", ".tgz", ".tar.gz"}

// ParseSource parses a user-supplied source string into a ParsedSource.
//
// Supported formats:
//   - "owner/repo"                    → GitHub repo (default host)
//   - "owner/repo/path/to/skills"     → GitHub repo with subpath
//   - "./local/path" or "/abs/path"   → local directory
//   - "./bundle.tar.gz"               → local archive
//   - "git@host:owner/repo.git"       → SSH git URL
//   - "https://github.com/owner/repo[/tree/<branch>/<subpath>]"
//   - "https://gitlab.com/owner/repo[/-/tree/<branch>/<subpath>]"
//   - "https://codeberg.org/owner/repo[/src/branch/<branch>/<subpath>]"
//
// The returned source carries the canonical identifier: shorthand and full
// URL forms of the same repository normalize to the same ID, so manifest
// entries never duplicate.
func ParseSource(input string) (*ParsedSource, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &AmbiguousSourceError{Source: input, Hint: "empty source"}
	}

	// Explicit local paths: ./ ../ / or ~
	if isExplicitLocalPath(input) {
		return parseLocalSource(input, true)
	}

	// A path that happens to exist wins over shorthand interpretation.
	if _, err := os.Stat(input); err == nil {
		return parseLocalSource(input, false)
	}

	if strings.HasPrefix(input, "git@") {
		return parseSSHSource(input)
	}

	if strings.Contains(input, "://") {
		return parseURLSource(input)
	}

	// owner/repo/path/to/skills (3+ segments)
	if m := ownerRepoPathPattern.FindStringSubmatch(input); m != nil {
		src := githubSource(m[1], m[2])
		src.SubPath = m[3]
		return src, nil
	}

	// owner/repo (exactly 2 segments)
	if ownerRepoPattern.MatchString(input) {
		parts := strings.SplitN(input, "/", 2)
		return githubSource(parts[0], parts[1]), nil
	}

	return nil, &AmbiguousSourceError{
		Source: input,
		Hint:   "expected owner/repo, a URL, or an existing local path",
	}
}

// hostedHosts are the git hosts whose web URLs we can normalize, mapped to
// the path segments that introduce a branch reference.
var hostedHosts = map[string][]string{
	"github.com":   {"tree", "blob"},
	"gitlab.com":   {"-/tree"},
	"codeberg.org": {"src/branch"},
}

func githubSource(owner, repo string) *ParsedSource {
	repo = strings.TrimSuffix(repo, ".git")
	return &ParsedSource{
		Kind:     SourceGit,
		ID:       "github.com/" + owner + "/" + repo,
		Host:     "github.com",
		Owner:    owner,
		Repo:     repo,
		CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", owner, repo),
	}
}

func isExplicitLocalPath(input string) bool {
	return strings.HasPrefix(input, "./") ||
		strings.HasPrefix(input, "../") ||
		strings.HasPrefix(input, "/") ||
		strings.HasPrefix(input, "~/") ||
		input == "." || input == ".."
}

// parseLocalSource resolves a local directory or archive source. explicit
// distinguishes "./missing" (SourceNotFound) from a bare token that merely
// failed the existence probe.
func parseLocalSource(input string, explicit bool) (*ParsedSource, error) {
	expanded := expandPath(input)
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("resolving local path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if explicit {
			return nil, &SourceNotFoundError{Source: absPath, Err: err}
		}
		return nil, &AmbiguousSourceError{Source: input, Hint: "path does not exist"}
	}

	if !info.IsDir() {
		if isArchivePath(absPath) {
			return &ParsedSource{
				Kind:      SourceArchive,
				ID:        absPath,
				LocalPath: absPath,
			}, nil
		}
		return nil, &AmbiguousSourceError{
			Source: input,
			Hint:   "not a directory or supported archive (.zip, .tar.gz, .tgz)",
		}
	}

	return &ParsedSource{
		Kind:      SourceLocal,
		ID:        absPath,
		LocalPath: absPath,
	}, nil
}

func isArchivePath(p string) bool {
	lower := strings.ToLower(p)
	for _, ext := range archiveExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// parseSSHSource handles git@host:owner/repo.git URLs.
func parseSSHSource(input string) (*ParsedSource, error) {
	parts := strings.SplitN(input, ":", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "git@") {
		return nil, &AmbiguousSourceError{Source: input, Hint: "invalid SSH URL"}
	}

	host := strings.TrimPrefix(parts[0], "git@")
	repoPath := strings.TrimSuffix(parts[1], ".git")
	segments := strings.SplitN(repoPath, "/", 2)

	src := &ParsedSource{
		Kind:     SourceGit,
		Host:     host,
		CloneURL: input,
		ID:       strings.TrimSuffix(input, ".git"),
	}
	if len(segments) == 2 {
		src.Owner = segments[0]
		src.Repo = segments[1]
		if _, known := hostedHosts[host]; known {
			// Canonical ID matches the HTTPS form of the same repo.
			src.ID = host + "/" + src.Owner + "/" + src.Repo
		}
	}
	return src, nil
}

// parseURLSource handles http(s) URLs, including hosted web URLs with
// tree/blob branch paths.
func parseURLSource(input string) (*ParsedSource, error) {
	trimmed := strings.TrimSuffix(input, "/")
	rest := trimmed
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	}

	slash := strings.Index(rest, "/")
	if slash < 0 {
		return nil, &AmbiguousSourceError{Source: input, Hint: "URL has no repository path"}
	}
	host := rest[:slash]
	pathPart := rest[slash+1:]

	branchMarkers, known := hostedHosts[host]
	if !known {
		// Unrecognized host: treat the URL itself as the clone URL and
		// identifier, cleaned of the .git suffix.
		return &ParsedSource{
			Kind:     SourceGit,
			ID:       strings.TrimSuffix(trimmed, ".git"),
			Host:     host,
			CloneURL: trimmed,
		}, nil
	}

	segs := strings.Split(pathPart, "/")
	if len(segs) < 2 {
		return nil, &AmbiguousSourceError{Source: input, Hint: "expected owner/repo in URL"}
	}
	owner := segs[0]
	repo := strings.TrimSuffix(segs[1], ".git")

	src := &ParsedSource{
		Kind:     SourceGit,
		ID:       host + "/" + owner + "/" + repo,
		Host:     host,
		Owner:    owner,
		Repo:     repo,
		CloneURL: fmt.Sprintf("https://%s/%s/%s.git", host, owner, repo),
	}

	// Branch + subpath from web tree/blob URLs, e.g.
	// github.com/o/r/tree/main/skills, gitlab.com/o/r/-/tree/main/skills,
	// codeberg.org/o/r/src/branch/main/skills.
	tail := strings.Join(segs[2:], "/")
	for _, marker := range branchMarkers {
		prefix := marker + "/"
		if !strings.HasPrefix(tail, prefix) {
			continue
		}
		after := strings.TrimPrefix(tail, prefix)
		parts := strings.SplitN(after, "/", 2)
		if parts[0] != "" {
			src.Branch = parts[0]
		}
		if len(parts) == 2 && parts[1] != "" {
			src.SubPath = parts[1]
		}
		break
	}

	return src, nil
}

// SourceFromManifest reconstructs a ParsedSource for a manifest entry so
// that install/update can re-run the pipeline without the original user
// input string.
func SourceFromManifest(id string, entry *ManifestEntry) (*ParsedSource, error) {
	switch entry.SourceType {
	case string(SourceLocal):
		return &ParsedSource{Kind: SourceLocal, ID: id, LocalPath: id, SubPath: entry.Subpath}, nil
	case string(SourceArchive):
		return &ParsedSource{Kind: SourceArchive, ID: id, LocalPath: id, SubPath: entry.Subpath}, nil
	case string(SourceGit):
		src := &ParsedSource{Kind: SourceGit, ID: id, Branch: entry.Branch, SubPath: entry.Subpath}
		parts := strings.Split(id, "/")
		if len(parts) >= 3 && strings.Contains(parts[0], ".") {
			src.Host = parts[0]
			src.Owner = parts[1]
			src.Repo = parts[2]
			src.CloneURL = fmt.Sprintf("https://%s/%s/%s.git", src.Host, src.Owner, src.Repo)
			return src, nil
		}
		// Identifier is a raw clone URL.
		src.CloneURL = id
		return src, nil
	default:
		return nil, fmt.Errorf("manifest entry %s: unknown source-type %q", id, entry.SourceType)
	}
}
