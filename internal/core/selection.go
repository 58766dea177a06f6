package core

import "fmt"

// Prompter is the engine's only window into interactivity. The CLI
// injects a terminal implementation; tests inject a scripted one; a nil
// or non-interactive prompter makes every selection explicit-or-error.
type Prompter interface {
	// MultiSelect presents options and returns the chosen indexes.
	MultiSelect(title string, options []string) ([]int, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
}

// SelectionRequest captures what the user asked for on the command line.
type SelectionRequest struct {
	// Skills are explicitly requested skill names.
	Skills []string
	// All selects every discovered skill without prompting.
	All bool
	// Yes auto-confirms prompts (overwrite and removal confirmations).
	Yes bool
	// Interactive is true when a prompter is available and stdin is a
	// terminal.
	Interactive bool
}

// SelectSkills narrows discovered skills to the requested set.
//
// Explicit names are matched exactly; any miss fails the whole command
// with UnknownSkillError. --all takes everything. With neither, an
// interactive session prompts; a non-interactive one fails with
// ErrSelectionRequired rather than guessing.
func SelectSkills(discovered []DiscoveredSkill, req SelectionRequest, prompter Prompter) ([]DiscoveredSkill, error) {
	if len(discovered) == 0 {
		return nil, nil
	}

	if len(req.Skills) > 0 {
		byName := make(map[string]DiscoveredSkill, len(discovered))
		names := make([]string, 0, len(discovered))
		for _, s := range discovered {
			byName[s.Name] = s
			names = append(names, s.Name)
		}
		selected := make([]DiscoveredSkill, 0, len(req.Skills))
		for _, name := range req.Skills {
			s, ok := byName[name]
			if !ok {
				return nil, &UnknownSkillError{Name: name, Available: names}
			}
			selected = append(selected, s)
		}
		return selected, nil
	}

	if req.All {
		return discovered, nil
	}

	if len(discovered) == 1 {
		return discovered, nil
	}

	if !req.Interactive || prompter == nil {
		return nil, ErrSelectionRequired
	}

	options := make([]string, len(discovered))
	for i, s := range discovered {
		options[i] = fmt.Sprintf("%s - %s", s.Name, s.Description)
	}
	picked, err := prompter.MultiSelect("Select skills to install", options)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, ErrSelectionRequired
	}

	selected := make([]DiscoveredSkill, 0, len(picked))
	for _, idx := range picked {
		if idx < 0 || idx >= len(discovered) {
			return nil, fmt.Errorf("selection index %d out of range", idx)
		}
		selected = append(selected, discovered[idx])
	}
	return selected, nil
}

// BuildPairs crosses selected skills with resolved agents.
func BuildPairs(skills []DiscoveredSkill, agents []AgentDef) []InstallPair {
	pairs := make([]InstallPair, 0, len(skills)*len(agents))
	for _, s := range skills {
		for _, a := range agents {
			pairs = append(pairs, InstallPair{Skill: s, Agent: a})
		}
	}
	return pairs
}

// ConfirmOverwrites resolves install conflicts with the user: confirmed
// pairs proceed with overwrite, declined ones are dropped. With Yes set
// every conflict is auto-confirmed; non-interactively, conflicts are kept
// and will surface as per-pair errors.
func ConfirmOverwrites(pairs, conflicts []InstallPair, req SelectionRequest, prompter Prompter) (proceed []InstallPair, skipped []InstallPair, overwrite bool, err error) {
	if len(conflicts) == 0 {
		return pairs, nil, false, nil
	}
	if req.Yes {
		return pairs, nil, true, nil
	}
	if !req.Interactive || prompter == nil {
		return pairs, nil, false, nil
	}

	declined := make(map[string]bool)
	for _, c := range conflicts {
		q := fmt.Sprintf("%s already exists for %s and is not managed by skil. Overwrite?", c.Skill.Name, c.Agent.Name)
		ok, err := prompter.Confirm(q)
		if err != nil {
			return nil, nil, false, err
		}
		if !ok {
			declined[c.Skill.Name+"\x00"+c.Agent.Name] = true
		}
	}

	for _, p := range pairs {
		if declined[p.Skill.Name+"\x00"+p.Agent.Name] {
			skipped = append(skipped, p)
			continue
		}
		proceed = append(proceed, p)
	}
	return proceed, skipped, true, nil
}
