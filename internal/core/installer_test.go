package core

import (
	"os"
	"path/filepath"
	"testing"
)

func testAgent(root string) AgentDef {
	return AgentDef{
		Name:            "codex",
		DisplayName:     "Codex",
		SkillsDir:       ".codex/skills",
		GlobalSkillsDir: filepath.Join(root, "global", "skills"),
	}
}

func testResolvedSource(t *testing.T, skillNames ...string) (*ResolvedSource, []DiscoveredSkill) {
	t.Helper()
	srcDir := t.TempDir()
	for _, name := range skillNames {
		writeSkill(t, filepath.Join(srcDir, "skills", name), name, "Test skill "+name)
	}
	skills, err := DiscoverSkills(srcDir, "")
	if err != nil {
		t.Fatal(err)
	}
	return &ResolvedSource{
		Source:   &ParsedSource{Kind: SourceLocal, ID: srcDir, LocalPath: srcDir},
		Dir:      srcDir,
		Revision: "testrev1234",
	}, skills
}

func TestInstaller_SymlinkMode(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	opts := InstallOptions{Mode: ModeSymlink, Scope: ScopeProject, ProjectRoot: project}
	report := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("Install() failed: %v (%+v)", err, report.Failed)
	}

	target := filepath.Join(project, ".codex", "skills", "alpha")
	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("expected a symlink")
	}

	// The link resolves to readable skill content in the cache.
	data, err := os.ReadFile(filepath.Join(target, "SKILL.md"))
	if err != nil {
		t.Fatalf("reading through symlink: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty SKILL.md through symlink")
	}
}

func TestInstaller_CopyMode(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	opts := InstallOptions{Mode: ModeCopy, Scope: ScopeProject, ProjectRoot: project}
	report := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	target := filepath.Join(project, ".codex", "skills", "alpha")
	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Error("copy mode must not create symlinks")
	}
	// Copies carry the managed marker.
	if _, err := os.Stat(filepath.Join(target, markerFileName)); err != nil {
		t.Errorf("marker missing: %v", err)
	}
}

func TestInstaller_ConflictLeavesForeignContent(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	// Pre-existing unmanaged content at the target path.
	target := filepath.Join(project, ".codex", "skills", "alpha")
	os.MkdirAll(target, 0o755)
	os.WriteFile(filepath.Join(target, "mine.txt"), []byte("user data"), 0o644)

	opts := InstallOptions{Mode: ModeSymlink, Scope: ScopeProject, ProjectRoot: project}
	report := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts)

	if len(report.Failed) != 1 || !IsConflict(report.Failed[0].Err) {
		t.Fatalf("expected one conflict failure, got %+v", report)
	}
	// The foreign file must be intact.
	if _, err := os.Stat(filepath.Join(target, "mine.txt")); err != nil {
		t.Errorf("foreign content was touched: %v", err)
	}
}

func TestInstaller_OverwriteReplacesForeignContent(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	target := filepath.Join(project, ".codex", "skills", "alpha")
	os.MkdirAll(target, 0o755)
	os.WriteFile(filepath.Join(target, "mine.txt"), []byte("user data"), 0o644)

	opts := InstallOptions{Mode: ModeCopy, Scope: ScopeProject, ProjectRoot: project, Overwrite: true}
	report := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(target, "mine.txt")); !os.IsNotExist(err) {
		t.Error("foreign content should be replaced with Overwrite")
	}
	if _, err := os.Stat(filepath.Join(target, "SKILL.md")); err != nil {
		t.Errorf("skill content missing: %v", err)
	}
}

func TestInstaller_ReinstallReplacesManagedContent(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	opts := InstallOptions{Mode: ModeCopy, Scope: ScopeProject, ProjectRoot: project}
	agents := []AgentDef{testAgent(project)}

	report := installer.Install(res, BuildPairs(skills, agents), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	// Managed content is replaceable without the Overwrite flag.
	report = installer.Install(res, BuildPairs(skills, agents), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("reinstall over managed content failed: %v", err)
	}
}

func TestInstaller_PartialFailureContinues(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha", "beta", "gamma")
	installer := NewInstaller(ScopeProject, project)

	// Block only beta's target with foreign content.
	blocked := filepath.Join(project, ".codex", "skills", "beta")
	os.MkdirAll(blocked, 0o755)
	os.WriteFile(filepath.Join(blocked, "keep.txt"), []byte("x"), 0o644)

	opts := InstallOptions{Mode: ModeSymlink, Scope: ScopeProject, ProjectRoot: project}
	report := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts)

	if len(report.Succeeded) != 2 {
		t.Errorf("Succeeded = %d, want 2", len(report.Succeeded))
	}
	if len(report.Failed) != 1 {
		t.Errorf("Failed = %d, want 1", len(report.Failed))
	}
	if report.Err() == nil {
		t.Error("partial failure must surface through Err()")
	}
}

func TestInstaller_RemoveManagedAndRefuseForeign(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)
	agents := []AgentDef{testAgent(project)}

	opts := InstallOptions{Mode: ModeSymlink, Scope: ScopeProject, ProjectRoot: project}
	if err := installer.Install(res, BuildPairs(skills, agents), opts).Err(); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	report := installer.Remove(BuildPairs(skills, agents), opts)
	if err := report.Err(); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if pathExists(filepath.Join(project, ".codex", "skills", "alpha")) {
		t.Error("managed install should be removed")
	}

	// A foreign dir at the expected path must be refused.
	foreign := filepath.Join(project, ".codex", "skills", "alpha")
	os.MkdirAll(foreign, 0o755)
	os.WriteFile(filepath.Join(foreign, "mine.txt"), []byte("x"), 0o644)

	report = installer.Remove(BuildPairs(skills, agents), opts)
	if len(report.Failed) != 1 || !IsConflict(report.Failed[0].Err) {
		t.Fatalf("expected conflict on foreign content, got %+v", report)
	}
	if !pathExists(filepath.Join(foreign, "mine.txt")) {
		t.Error("foreign content deleted")
	}
}

func TestInstaller_RemoveMissingIsSkipped(t *testing.T) {
	project := t.TempDir()
	_, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	report := installer.Remove(BuildPairs(skills, []AgentDef{testAgent(project)}), InstallOptions{
		Scope: ScopeProject, ProjectRoot: project,
	})
	if len(report.Skipped) != 1 || report.Err() != nil {
		t.Errorf("expected one skipped pair, got %+v", report)
	}
}

func TestInstaller_FullDepthPreservesLayout(t *testing.T) {
	project := t.TempDir()
	res, skills := testResolvedSource(t, "alpha")
	installer := NewInstaller(ScopeProject, project)

	opts := InstallOptions{Mode: ModeCopy, Scope: ScopeProject, ProjectRoot: project, FullDepth: true}
	if err := installer.Install(res, BuildPairs(skills, []AgentDef{testAgent(project)}), opts).Err(); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	// Source layout was skills/alpha; full depth keeps it.
	if !dirExists(filepath.Join(project, ".codex", "skills", "skills", "alpha")) {
		t.Error("full-depth layout not preserved")
	}
}
