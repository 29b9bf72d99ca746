// Package query filters tasks by ANDed criteria. Scalar and list criteria
// accept a leading "!" to negate the match. Unknown criteria are ignored so
// newer callers can talk to older engines.
package query

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Criteria keys.
const (
	KeyTitle        = "title"
	KeyStatus       = "status"
	KeyTier         = "tier"
	KeyPriority     = "priority"
	KeyCreator      = "creator"
	KeyCollaborator = "collaborator"
	KeyLabel        = "label"
)

// Negation prefixes a criterion value to invert it.
const Negation = "!"

// Criteria maps criterion keys to their values.
type Criteria map[string]string

// Active is the criteria for tasks that are not archived.
func Active() Criteria {
	return Criteria{KeyStatus: Negation + types.StatusDone.String()}
}

// Archived is the criteria for Done tasks.
func Archived() Criteria {
	return Criteria{KeyStatus: types.StatusDone.String()}
}

// Describe renders the criteria as space-separated key=value pairs in key
// order.
func (c Criteria) Describe() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + c[k]
	}
	return strings.Join(parts, " ")
}

// Search returns the tasks matching every criterion, preserving input order.
// Empty criteria match everything.
func Search(tasks []*types.Task, c Criteria) []*types.Task {
	out := make([]*types.Task, 0, len(tasks))
	for _, t := range tasks {
		if Match(t, c) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether t satisfies every criterion in c.
func Match(t *types.Task, c Criteria) bool {
	if v, ok := c[KeyTitle]; ok && !containsFold(t.Title, v) {
		return false
	}
	scalars := []struct {
		key   string
		value string
	}{
		{KeyStatus, t.Status},
		{KeyTier, t.Tier},
		{KeyPriority, t.Priority},
		{KeyCreator, t.Creator},
	}
	for _, s := range scalars {
		if v, ok := c[s.key]; ok && !matchExact(s.value, v) {
			return false
		}
	}
	if v, ok := c[KeyCollaborator]; ok && !matchContains(t.Collaborators, v) {
		return false
	}
	if v, ok := c[KeyLabel]; ok && !matchContains(t.Labels, v) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matchExact(field, target string) bool {
	if rest, neg := strings.CutPrefix(target, Negation); neg {
		return !strings.EqualFold(field, rest)
	}
	return strings.EqualFold(field, target)
}

func matchContains(list []string, target string) bool {
	rest, neg := strings.CutPrefix(target, Negation)
	found := false
	for _, item := range list {
		if strings.EqualFold(item, rest) {
			found = true
			break
		}
	}
	return found != neg
}
