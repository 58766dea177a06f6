package core

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const gitTimeout = 60 * time.Second

// cloneRepo shallow-clones a git repository into a scratch directory and
// returns its path. Failures are classified into the engine's taxonomy by
// pattern-matching git's output.
func cloneRepo(src *ParsedSource, ref string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "skil-clone-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, src.CloneURL, tmpDir)

	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := runWithTimeout(cmd, gitTimeout)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", classifyGitFailure(src.ID, output, err)
	}

	return tmpDir, nil
}

// fetchAtRevision fetches a single pinned commit without clone history:
// git init + fetch --depth 1 <rev> + checkout FETCH_HEAD.
func fetchAtRevision(src *ParsedSource, revision string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "skil-clone-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	env := append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	steps := [][]string{
		{"init", "--quiet", tmpDir},
		{"-C", tmpDir, "remote", "add", "origin", src.CloneURL},
		{"-C", tmpDir, "fetch", "--depth", "1", "origin", revision},
		{"-C", tmpDir, "checkout", "--quiet", "FETCH_HEAD"},
	}
	for _, args := range steps {
		cmd := exec.Command("git", args...)
		cmd.Env = env
		if output, err := runWithTimeout(cmd, gitTimeout); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", classifyGitFailure(src.ID, output, err)
		}
	}

	return tmpDir, nil
}

// headRevision returns the commit SHA checked out in a working copy.
func headRevision(repoDir string) (string, error) {
	cmd := exec.Command("git", "-C", repoDir, "rev-parse", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD in %s: %w", repoDir, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// lsRemoteRevision resolves the latest commit for a remote ref without
// fetching content. ref may be empty, meaning the default branch (HEAD).
// This is the cheap query drift checks rely on.
func lsRemoteRevision(src *ParsedSource, ref string) (string, error) {
	target := ref
	if target == "" {
		target = "HEAD"
	}

	cmd := exec.Command("git", "ls-remote", src.CloneURL, target)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := runWithTimeout(cmd, gitTimeout)
	if err != nil {
		return "", classifyGitFailure(src.ID, output, err)
	}

	rev := strings.Fields(output)
	if len(rev) == 0 {
		return "", &SourceNotFoundError{
			Source: src.ID,
			Err:    fmt.Errorf("ref %q not found", target),
		}
	}
	return rev[0], nil
}

// runWithTimeout runs a command, returning its combined output. The
// underlying transport has no useful timeout of its own, so a hung fetch
// is killed after gitTimeout.
func runWithTimeout(cmd *exec.Cmd, timeout time.Duration) (string, error) {
	done := make(chan struct{})
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return string(output), cmdErr
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return "", fmt.Errorf("command timed out after %s", timeout)
	}
}

// classifyGitFailure maps git output onto SourceNotFound vs
// SourceUnreachable. Remotes report missing and private repositories
// identically, so "not found" wins over auth/network classification.
func classifyGitFailure(sourceID, output string, err error) error {
	lower := strings.ToLower(output)

	if strings.Contains(lower, "repository not found") ||
		strings.Contains(lower, "does not appear to be a git repository") ||
		strings.Contains(lower, "project not found") ||
		strings.Contains(lower, "not found") {
		return &SourceNotFoundError{Source: sourceID, Err: firstLineError(output, err)}
	}

	return &SourceUnreachableError{Source: sourceID, Err: firstLineError(output, err)}
}

// firstLineError condenses raw git output into a single-line error.
func firstLineError(output string, err error) error {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Cloning into") {
			continue
		}
		return fmt.Errorf("%s", line)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("git command failed")
}
