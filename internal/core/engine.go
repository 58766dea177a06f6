package core

import (
	"fmt"
)

// Engine binds the pipeline stages into the operations the CLI exposes.
// It owns no output: results come back as values and the caller renders
// them.
type Engine struct {
	Resolver  *Resolver
	Store     *ManifestStore
	Installer *Installer
	Prompter  Prompter

	Scope       Scope
	ProjectRoot string
	Agents      []AgentDef
}

// NewEngine wires an engine for a scope rooted at projectRoot. Agent
// overrides from the project are applied to the roster.
func NewEngine(scope Scope, projectRoot string, prompter Prompter) (*Engine, error) {
	agents, err := LoadAgents(projectRoot)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Resolver:    NewResolver(),
		Store:       ManifestStoreFor(scope, projectRoot),
		Installer:   NewInstaller(scope, projectRoot),
		Prompter:    prompter,
		Scope:       scope,
		ProjectRoot: projectRoot,
		Agents:      agents,
	}, nil
}

// AddOptions configures an add run.
type AddOptions struct {
	Selection  SelectionRequest
	AgentNames []string
	Mode       InstallMode
	FullDepth  bool
}

// AddOutcome reports what an add did.
type AddOutcome struct {
	Source   *ParsedSource
	Revision string
	Skills   []DiscoveredSkill
	Agents   []AgentDef
	Report   *InstallReport
}

// Add runs the full pipeline for one source string: parse, fetch,
// discover, select, install, record. The manifest is written only after
// installs land, so a failed run never tracks phantom skills. Re-adding
// an already tracked source is idempotent at the manifest level: the
// entry is merged, not duplicated.
func (e *Engine) Add(sourceStr string, opts AddOptions) (*AddOutcome, error) {
	src, err := ParseSource(sourceStr)
	if err != nil {
		return nil, err
	}

	resolved, err := e.Resolver.Resolve(src, "")
	if err != nil {
		return nil, err
	}
	defer resolved.Cleanup()

	discovered, err := DiscoverSkills(resolved.Dir, src.SubPath)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return nil, &NoSkillsFoundError{Source: src.ID}
	}

	skills, err := SelectSkills(discovered, opts.Selection, e.Prompter)
	if err != nil {
		return nil, err
	}

	agents, err := ResolveAgents(e.Agents, opts.AgentNames)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("no target agents detected; pass --agent")
	}

	installOpts := InstallOptions{
		Mode:        opts.Mode,
		Scope:       e.Scope,
		ProjectRoot: e.ProjectRoot,
		FullDepth:   opts.FullDepth,
	}

	pairs := BuildPairs(skills, agents)
	conflicts := e.Installer.ConflictingPairs(pairs, installOpts)
	pairs, skipped, overwrite, err := ConfirmOverwrites(pairs, conflicts, opts.Selection, e.Prompter)
	if err != nil {
		return nil, err
	}
	installOpts.Overwrite = overwrite

	report := e.Installer.Install(resolved, pairs, installOpts)
	for _, p := range skipped {
		report.Skipped = append(report.Skipped, PairResult{Skill: p.Skill.Name, Agent: p.Agent.Name})
	}

	outcome := &AddOutcome{
		Source:   src,
		Revision: resolved.Revision,
		Skills:   skills,
		Agents:   agents,
		Report:   report,
	}

	if len(report.Succeeded) == 0 {
		// Nothing landed; leave the manifest alone.
		return outcome, report.Err()
	}

	m, err := e.Store.Load()
	if err != nil {
		return outcome, err
	}
	installedSkills := make(map[string]bool)
	installedAgents := make(map[string]bool)
	for _, r := range report.Succeeded {
		installedSkills[r.Skill] = true
		installedAgents[r.Agent] = true
	}
	m.Upsert(src, resolved.Revision, opts.Mode, opts.FullDepth, keys(installedSkills), keys(installedAgents))
	if err := e.Store.Save(m); err != nil {
		return outcome, err
	}

	return outcome, report.Err()
}

// InstallAll re-materializes every tracked (skill, agent) pair from the
// manifest at its pinned revision. No prompting, no manifest writes: the
// manifest is the input, disk is the output.
func (e *Engine) InstallAll() ([]UpdateResult, error) {
	m, err := e.Store.Load()
	if err != nil {
		return nil, err
	}

	var results []UpdateResult
	for _, id := range m.SortedIDs() {
		entry := m.Sources[id]
		res := e.installEntry(id, entry)
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) installEntry(id string, entry *ManifestEntry) UpdateResult {
	result := UpdateResult{SourceID: id}

	src, err := SourceFromManifest(id, entry)
	if err != nil {
		result.Err = err
		return result
	}

	resolved, err := e.Resolver.Resolve(src, entry.Revision)
	if err != nil {
		result.Err = err
		return result
	}
	defer resolved.Cleanup()

	discovered, err := DiscoverSkills(resolved.Dir, src.SubPath)
	if err != nil {
		result.Err = err
		return result
	}
	byName := make(map[string]DiscoveredSkill, len(discovered))
	for _, s := range discovered {
		byName[s.Name] = s
	}

	var skills []DiscoveredSkill
	for _, name := range entry.Skills {
		s, ok := byName[name]
		if !ok {
			result.Err = &UnknownSkillError{Name: name}
			return result
		}
		skills = append(skills, s)
	}

	agents, err := ResolveAgents(e.Agents, entry.Agents)
	if err != nil {
		result.Err = err
		return result
	}

	mode := InstallMode(entry.Mode)
	if mode == "" {
		mode = ModeSymlink
	}
	report := e.Installer.Install(resolved, BuildPairs(skills, agents), InstallOptions{
		Mode:        mode,
		Scope:       e.Scope,
		ProjectRoot: e.ProjectRoot,
		FullDepth:   entry.FullDepth,
		Overwrite:   true, // re-materializing our own installs
	})
	result.Report = report
	result.Err = report.Err()
	return result
}

// RemoveOutcome reports what a removal did.
type RemoveOutcome struct {
	SourceID string
	Skill    string
	Report   *InstallReport
}

// Remove uninstalls one tracked skill from every agent it was installed
// for and drops it from the manifest. Removing the last skill of a source
// removes the whole entry. The cache is swept afterwards so orphaned
// content goes with it.
func (e *Engine) Remove(skillName string) (*RemoveOutcome, error) {
	m, err := e.Store.Load()
	if err != nil {
		return nil, err
	}

	sourceID, entry := m.FindSkill(skillName)
	if entry == nil {
		return nil, &UnknownSkillError{Name: skillName, Available: m.AllSkills()}
	}

	agents, err := ResolveAgents(e.Agents, entry.Agents)
	if err != nil {
		return nil, err
	}

	pairs := locateRemovalPairs([]string{skillName}, agents, e.Scope, e.ProjectRoot)
	report := e.Installer.Remove(pairs, InstallOptions{
		Scope:       e.Scope,
		ProjectRoot: e.ProjectRoot,
		FullDepth:   true, // targets were resolved from disk
	})
	outcome := &RemoveOutcome{SourceID: sourceID, Skill: skillName, Report: report}
	if err := report.Err(); err != nil {
		// Foreign content blocked the removal; keep the manifest as-is.
		return outcome, err
	}

	m.RemoveSkill(sourceID, skillName)
	if err := e.Store.Save(m); err != nil {
		return outcome, err
	}
	if err := SweepCache(CacheRoot(e.Scope, e.ProjectRoot), m); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// AllSkills returns every tracked skill name across sources, sorted.
func (m *Manifest) AllSkills() []string {
	var all []string
	for _, id := range m.SortedIDs() {
		all = append(all, m.Sources[id].Skills...)
	}
	return all
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
