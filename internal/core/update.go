package core

import (
	"fmt"
	"strings"
	"sync"
)

// DriftState classifies a tracked source against its upstream.
type DriftState string

const (
	// StateUpToDate means the pinned revision matches upstream.
	StateUpToDate DriftState = "up-to-date"
	// StateStale means upstream has moved past the pinned revision.
	StateStale DriftState = "stale"
	// StateUnreachable means the upstream revision could not be resolved.
	StateUnreachable DriftState = "unreachable"
)

// DriftStatus is one source's drift check result.
type DriftStatus struct {
	SourceID string
	Pinned   string
	Latest   string
	State    DriftState
	Err      error
}

// CheckDrift compares every manifest entry against its upstream without
// mutating anything. Revision lookups are cheap (ls-remote for git,
// re-hash for local/archive) and run concurrently; results come back
// sorted by source identifier.
func CheckDrift(r *Resolver, m *Manifest) []DriftStatus {
	ids := m.SortedIDs()
	statuses := make([]DriftStatus, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string, entry *ManifestEntry) {
			defer wg.Done()
			statuses[i] = checkOne(r, id, entry)
		}(i, id, m.Sources[id])
	}
	wg.Wait()

	return statuses
}

func checkOne(r *Resolver, id string, entry *ManifestEntry) DriftStatus {
	status := DriftStatus{SourceID: id, Pinned: entry.Revision}

	src, err := SourceFromManifest(id, entry)
	if err != nil {
		status.State = StateUnreachable
		status.Err = err
		return status
	}

	latest, err := r.RemoteRevision(src)
	if err != nil {
		status.State = StateUnreachable
		status.Err = err
		return status
	}

	status.Latest = latest
	if latest == entry.Revision {
		status.State = StateUpToDate
	} else {
		status.State = StateStale
	}
	return status
}

// UpdateResult reports one source's update outcome.
type UpdateResult struct {
	SourceID string
	Status   DriftStatus
	// Removed lists tracked skills that disappeared upstream and were
	// dropped (after confirmation).
	Removed []string
	// Report carries the per-pair install outcomes for a refreshed source.
	Report *InstallReport
	Err    error
}

// Updater re-pins stale sources to their latest upstream revision and
// re-materializes their installed pairs.
type Updater struct {
	Resolver  *Resolver
	Store     *ManifestStore
	Installer *Installer
	Prompter  Prompter

	Scope       Scope
	ProjectRoot string
	Agents      []AgentDef
}

// Apply updates every stale source in the manifest. Sources update
// independently: an unreachable upstream leaves its entry pinned where it
// was and does not stop the siblings. Tracked skills that vanished
// upstream are removed only after confirmation (auto-confirmed with Yes);
// declined removals keep the entry on its old revision so a later run can
// reconcile. The manifest is flushed once, after all sources settle.
func (u *Updater) Apply(m *Manifest, req SelectionRequest) ([]UpdateResult, error) {
	statuses := CheckDrift(u.Resolver, m)

	var results []UpdateResult
	changed := false
	for _, status := range statuses {
		switch status.State {
		case StateUpToDate:
			results = append(results, UpdateResult{SourceID: status.SourceID, Status: status})
		case StateUnreachable:
			results = append(results, UpdateResult{SourceID: status.SourceID, Status: status, Err: status.Err})
		case StateStale:
			res := u.updateOne(m, status, req)
			results = append(results, res)
			if res.Err == nil {
				changed = true
			}
		}
	}

	if changed {
		if err := u.Store.Save(m); err != nil {
			return results, err
		}
		if err := SweepCache(CacheRoot(u.Scope, u.ProjectRoot), m); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (u *Updater) updateOne(m *Manifest, status DriftStatus, req SelectionRequest) UpdateResult {
	result := UpdateResult{SourceID: status.SourceID, Status: status}
	entry := m.Sources[status.SourceID]

	src, err := SourceFromManifest(status.SourceID, entry)
	if err != nil {
		result.Err = err
		return result
	}

	resolved, err := u.Resolver.Resolve(src, "")
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

	var kept []DiscoveredSkill
	var missing []string
	for _, name := range entry.Skills {
		if s, ok := byName[name]; ok {
			kept = append(kept, s)
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		ok, err := u.confirmRemoval(status.SourceID, missing, req)
		if err != nil {
			result.Err = err
			return result
		}
		if !ok {
			result.Err = fmt.Errorf("update of %s declined: %s no longer upstream", status.SourceID, strings.Join(missing, ", "))
			return result
		}
	}

	agents, err := ResolveAgents(u.Agents, entry.Agents)
	if err != nil {
		result.Err = err
		return result
	}

	mode := InstallMode(entry.Mode)
	if mode == "" {
		mode = ModeSymlink
	}
	opts := InstallOptions{
		Mode:        mode,
		Scope:       u.Scope,
		ProjectRoot: u.ProjectRoot,
		FullDepth:   entry.FullDepth,
		Overwrite:   true, // refreshing our own installs
	}

	// Uninstall skills that vanished upstream at their on-disk paths.
	if len(missing) > 0 {
		gone := locateRemovalPairs(missing, agents, u.Scope, u.ProjectRoot)
		removeReport := u.Installer.Remove(gone, InstallOptions{
			Scope:       u.Scope,
			ProjectRoot: u.ProjectRoot,
			FullDepth:   true, // targets were resolved from disk
		})
		result.Removed = missing
		result.Report = removeReport
	}

	pairs := BuildPairs(kept, agents)
	report := u.Installer.Install(resolved, pairs, opts)
	if result.Report == nil {
		result.Report = report
	} else {
		result.Report.Merge(report)
	}

	entry.Revision = resolved.Revision
	for _, name := range missing {
		entry.Skills = removeString(entry.Skills, name)
	}
	if len(entry.Skills) == 0 {
		delete(m.Sources, status.SourceID)
	}

	if err := result.Report.Err(); err != nil {
		result.Err = err
	}
	return result
}

func (u *Updater) confirmRemoval(sourceID string, missing []string, req SelectionRequest) (bool, error) {
	if req.Yes {
		return true, nil
	}
	if !req.Interactive || u.Prompter == nil {
		return false, nil
	}
	q := fmt.Sprintf("%s no longer provides %s. Remove the installed copies?", sourceID, strings.Join(missing, ", "))
	return u.Prompter.Confirm(q)
}
