package types

import (
	"strconv"
	"strings"
)

// enumEntry is one row of a static enum table.
type enumEntry struct {
	name    string
	aliases []string
}

// enumTable resolves user input to an ordinal. The lookup map is built once.
type enumTable struct {
	entries []enumEntry
	lookup  map[string]int
}

func newEnumTable(entries []enumEntry) enumTable {
	t := enumTable{entries: entries, lookup: make(map[string]int)}
	for i, e := range entries {
		t.lookup[foldKey(e.name)] = i
		t.lookup[strconv.Itoa(i)] = i
		for _, a := range e.aliases {
			t.lookup[foldKey(a)] = i
		}
	}
	return t
}

// parse accepts a canonical name, an alias or a numeric index. Matching
// ignores case and spaces.
func (t enumTable) parse(s string) (int, bool) {
	i, ok := t.lookup[foldKey(s)]
	return i, ok
}

func (t enumTable) name(i int) string {
	if i < 0 || i >= len(t.entries) {
		return ""
	}
	return t.entries[i].name
}

func (t enumTable) names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.name
	}
	return out
}

func (t enumTable) aliases(i int) []string {
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	return append([]string(nil), t.entries[i].aliases...)
}

func foldKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Status is the lifecycle marker of a task. Transitions are unrestricted.
type Status int

// Statuses.
const (
	StatusInProgress Status = iota
	StatusOnHold
	StatusDone
)

var statusTable = newEnumTable([]enumEntry{
	{"In Progress", []string{"ip", "progress", "p", "doing"}},
	{"On Hold", []string{"hold", "oh", "h", "pause", "paused", "waiting"}},
	{"Done", []string{"d", "finished", "finish", "complete", "completed"}},
})

// ParseStatus canonicalises a status name, alias or index.
func ParseStatus(s string) (Status, bool) {
	i, ok := statusTable.parse(s)
	return Status(i), ok
}

func (s Status) String() string { return statusTable.name(int(s)) }

// Aliases returns the accepted shorthands for s.
func (s Status) Aliases() []string { return statusTable.aliases(int(s)) }

// StatusNames lists the canonical statuses.
func StatusNames() []string { return statusTable.names() }

// Tier classifies a task's technical level, lowest first.
type Tier int

// Tiers, lowest to highest.
const (
	TierULV Tier = iota
	TierLV
	TierMV
	TierHV
	TierEV
	TierIV
	TierLuV
	TierZPM
	TierUV
	TierUHV
	TierUEV
	TierUIV
	TierUXV
	TierOpV
	TierMAX
)

// LowestTier is applied to new documents.
const LowestTier = TierULV

var tierTable = newEnumTable([]enumEntry{
	{"ULV", nil}, {"LV", nil}, {"MV", nil}, {"HV", nil}, {"EV", nil},
	{"IV", nil}, {"LuV", nil}, {"ZPM", nil}, {"UV", nil}, {"UHV", nil},
	{"UEV", nil}, {"UIV", nil}, {"UXV", nil}, {"OpV", nil}, {"MAX", nil},
})

// ParseTier canonicalises a tier code or index.
func ParseTier(s string) (Tier, bool) {
	i, ok := tierTable.parse(s)
	return Tier(i), ok
}

func (t Tier) String() string { return tierTable.name(int(t)) }

// Rank is the tier's position from the lowest tier.
func (t Tier) Rank() int { return int(t) }

// TierNames lists the tier codes, lowest first.
func TierNames() []string { return tierTable.names() }

// Priority is a task's urgency, most urgent first.
type Priority int

// Priorities.
const (
	PriorityVeryHigh Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityVeryLow
)

var priorityTable = newEnumTable([]enumEntry{
	{"Very High", []string{"vh"}},
	{"High", []string{"h"}},
	{"Medium", []string{"med", "m"}},
	{"Low", []string{"l"}},
	{"Very Low", []string{"vl"}},
})

// ParsePriority canonicalises a priority name, alias or index.
func ParsePriority(s string) (Priority, bool) {
	i, ok := priorityTable.parse(s)
	return Priority(i), ok
}

func (p Priority) String() string { return priorityTable.name(int(p)) }

// Rank orders priorities, 0 being the most urgent.
func (p Priority) Rank() int { return int(p) }

// Aliases returns the accepted shorthands for p.
func (p Priority) Aliases() []string { return priorityTable.aliases(int(p)) }

// PriorityNames lists the canonical priorities, most urgent first.
func PriorityNames() []string { return priorityTable.names() }
