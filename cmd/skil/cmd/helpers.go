package cmd

import (
	"fmt"
	"strings"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/ui"
)

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}

// printReport renders per-pair install/removal outcomes.
func printReport(verb string, report *core.InstallReport) {
	for _, r := range report.Succeeded {
		fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s %s for %s", verb, ui.Bold(r.Skill), r.Agent)))
	}
	for _, r := range report.Skipped {
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("skipped %s for %s", r.Skill, r.Agent)))
	}
	for _, f := range report.Failed {
		fmt.Println(ui.StatusError(fmt.Sprintf("%s for %s: %v", f.Skill, f.Agent, f.Err)))
	}
}

// findInstalledSkill locates the on-disk directory of a tracked skill by
// scanning the skill roots of the agents it was installed for.
func findInstalledSkill(d *deps, entry *core.ManifestEntry, skillName string) (string, error) {
	agents, err := core.ResolveAgents(d.engine.Agents, entry.Agents)
	if err != nil {
		return "", err
	}

	for _, agent := range agents {
		root := core.AgentSkillsRoot(agent, d.scope, d.projectRoot)
		if dir, ok := core.FindInstalledSkillDir(root, skillName); ok {
			return dir, nil
		}
	}
	return "", fmt.Errorf("skill %q is tracked but not found on disk; run 'skil install'", skillName)
}
