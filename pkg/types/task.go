package types

import "time"

// TimeLayout is the stored timestamp format. It sorts lexically in
// chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in the stored timestamp format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a stored timestamp in the local time zone.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// Note is a single append-only entry in a task's notes.
type Note struct {
	Time    string `json:"time"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Task is a work item in the checklist. The ID is the key the task is stored
// under and is not serialised inside the record.
type Task struct {
	ID            string   `json:"-" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Creator       string   `json:"creator" yaml:"creator"`
	Description   string   `json:"description" yaml:"description"`
	Status        string   `json:"status" yaml:"status"`
	Tier          string   `json:"tier" yaml:"tier"`
	Priority      string   `json:"priority" yaml:"priority"`
	Labels        []string `json:"labels" yaml:"labels"`
	Collaborators []string `json:"collaborators" yaml:"collaborators"`
	Dependencies  []string `json:"dependencies" yaml:"dependencies"`
	Notes         []Note   `json:"notes" yaml:"notes"`
	CreatedAt     string   `json:"created_at" yaml:"created_at"`
	LastUpdated   string   `json:"last_updated" yaml:"last_updated"`
	LastEditor    string   `json:"last_editor" yaml:"last_editor"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Labels = cloneStrings(t.Labels)
	c.Collaborators = cloneStrings(t.Collaborators)
	c.Dependencies = cloneStrings(t.Dependencies)
	c.Notes = append([]Note(nil), t.Notes...)
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	return &c
}

// List returns the list-valued field identified by f, or nil when f is not a
// list field.
func (t *Task) List(f Field) []string {
	switch f {
	case FieldLabels:
		return t.Labels
	case FieldCollaborators:
		return t.Collaborators
	case FieldDependencies:
		return t.Dependencies
	}
	return nil
}

// SetList replaces the list-valued field identified by f. It reports false
// when f is not a list field.
func (t *Task) SetList(f Field, values []string) bool {
	switch f {
	case FieldLabels:
		t.Labels = values
	case FieldCollaborators:
		t.Collaborators = values
	case FieldDependencies:
		t.Dependencies = values
	default:
		return false
	}
	return true
}

// Scalar returns the value of the scalar field identified by f.
func (t *Task) Scalar(f Field) (string, bool) {
	switch f {
	case FieldTitle:
		return t.Title, true
	case FieldDescription:
		return t.Description, true
	case FieldStatus:
		return t.Status, true
	case FieldTier:
		return t.Tier, true
	case FieldPriority:
		return t.Priority, true
	case FieldCreator:
		return t.Creator, true
	}
	return "", false
}

// SetScalar overwrites the scalar field identified by f. It reports false when
// f is not a scalar field.
func (t *Task) SetScalar(f Field, value string) bool {
	switch f {
	case FieldTitle:
		t.Title = value
	case FieldDescription:
		t.Description = value
	case FieldStatus:
		t.Status = value
	case FieldTier:
		t.Tier = value
	case FieldPriority:
		t.Priority = value
	case FieldCreator:
		t.Creator = value
	default:
		return false
	}
	return true
}

// Touch stamps the audit fields after a mutation.
func (t *Task) Touch(at, editor string) {
	t.LastUpdated = at
	t.LastEditor = editor
}

// IsDone reports whether the task is archived.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone.String()
}

// normalize replaces nil slices so the persisted JSON always carries arrays.
func (t *Task) normalize() {
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if t.Collaborators == nil {
		t.Collaborators = []string{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.Notes == nil {
		t.Notes = []Note{}
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
