package types

import "sort"

// Document is the whole persisted state: every task keyed by ID, the next ID
// to allocate and the tier given to new tasks.
type Document struct {
	Tasks       map[string]*Task `json:"tasks"`
	NextID      int              `json:"next_id"`
	DefaultTier string           `json:"default_tier"`
}

// NewDocument returns the empty document used on first run or after a
// corrupt file is discarded.
func NewDocument() *Document {
	return &Document{
		Tasks:       make(map[string]*Task),
		NextID:      1,
		DefaultTier: LowestTier.String(),
	}
}

// Normalize repairs fields a hand-edited or older file may lack: missing
// maps and lists, a missing default tier, and task IDs taken from the map
// keys.
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = make(map[string]*Task)
	}
	if d.NextID < 1 {
		d.NextID = 1
	}
	if d.DefaultTier == "" {
		d.DefaultTier = LowestTier.String()
	}
	for id, t := range d.Tasks {
		if t == nil {
			delete(d.Tasks, id)
			continue
		}
		t.ID = id
		t.normalize()
	}
}

// IDs returns the task IDs in ascending order. IDs are allocated from a
// monotonic counter, so this is also insertion order.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.Tasks))
	for id := range d.Tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) })
	return ids
}

// Ordered returns the tasks in ascending ID order. The returned pointers
// alias the document.
func (d *Document) Ordered() []*Task {
	ids := d.IDs()
	out := make([]*Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.Tasks[id])
	}
	return out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Tasks:       make(map[string]*Task, len(d.Tasks)),
		NextID:      d.NextID,
		DefaultTier: d.DefaultTier,
	}
	for id, t := range d.Tasks {
		c.Tasks[id] = t.Clone()
	}
	return c
}
