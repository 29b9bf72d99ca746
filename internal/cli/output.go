package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/sakuraflow/internal/controller"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// taskView is the JSON shape of a task on the command line. The data file
// keeps the ID as the map key; here it travels with the record.
type taskView struct {
	ID string `json:"id"`
	*types.Task
}

// pageView is the structured shape of a paged listing.
type pageView struct {
	Query      string     `json:"query,omitempty" yaml:"query,omitempty"`
	Page       int        `json:"page" yaml:"page"`
	TotalPages int        `json:"total_pages" yaml:"total_pages"`
	TotalItems int        `json:"total_items" yaml:"total_items"`
	Tasks      []taskView `json:"tasks" yaml:"tasks"`
}

func views(tasks []*types.Task) []taskView {
	out := make([]taskView, len(tasks))
	for i, t := range tasks {
		out[i] = taskView{ID: t.ID, Task: t}
	}
	return out
}

// MarshalYAML flattens the embedded task, whose yaml tags already carry the
// ID.
func (v taskView) MarshalYAML() (any, error) {
	return v.Task, nil
}

// structured reports whether output should be machine readable.
func (a *app) structured() bool {
	return a.flags.jsonMode || a.flags.yamlMode
}

// emit writes v as indented JSON or YAML according to the output flags.
func (a *app) emit(w io.Writer, v any) error {
	if a.flags.yamlMode {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return sysError("marshal YAML: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysError("marshal JSON: %w", err)
	}
	return nil
}

// writePage prints one page of tasks, one line each.
func (a *app) writePage(w io.Writer, heading, cmdName string, p controller.Page, query string) error {
	if a.structured() {
		return a.emit(w, pageView{
			Query:      query,
			Page:       p.Number,
			TotalPages: p.TotalPages,
			TotalItems: p.TotalItems,
			Tasks:      views(p.Items),
		})
	}

	if p.TotalItems == 0 {
		fmt.Fprintf(w, "%s: no tasks\n", heading)
		return nil
	}
	fmt.Fprintf(w, "%s (page %d/%d, %d tasks)\n", heading, p.Number, p.TotalPages, p.TotalItems)
	for _, t := range p.Items {
		fmt.Fprintln(w, summaryLine(t))
	}
	if p.HasNext() {
		fmt.Fprintf(w, "next: sakuraflow %s %d\n", cmdName, p.Number+1)
	}
	return nil
}

func summaryLine(t *types.Task) string {
	line := fmt.Sprintf("#%-4s [%s] %s  (%s, %s)", t.ID, t.Status, t.Title, t.Tier, t.Priority)
	if len(t.Labels) > 0 {
		line += "  " + strings.Join(t.Labels, ",")
	}
	return line
}

// writeTask prints the full record of one task.
func (a *app) writeTask(w io.Writer, t *types.Task) error {
	if a.structured() {
		return a.emit(w, taskView{ID: t.ID, Task: t})
	}

	fmt.Fprintf(w, "Task #%s: %s\n", t.ID, t.Title)
	fmt.Fprintf(w, "Status:        %s\n", t.Status)
	fmt.Fprintf(w, "Tier:          %s\n", t.Tier)
	fmt.Fprintf(w, "Priority:      %s\n", t.Priority)
	fmt.Fprintf(w, "Creator:       %s\n", t.Creator)
	if t.Description != "" {
		fmt.Fprintf(w, "Description:   %s\n", t.Description)
	}
	fmt.Fprintf(w, "Labels:        %s\n", listOrNone(t.Labels))
	fmt.Fprintf(w, "Collaborators: %s\n", listOrNone(t.Collaborators))
	fmt.Fprintf(w, "Depends on:    %s\n", listOrNone(t.Dependencies))
	fmt.Fprintf(w, "Created:       %s\n", withAge(t.CreatedAt))
	fmt.Fprintf(w, "Updated:       %s by %s\n", withAge(t.LastUpdated), t.LastEditor)

	if len(t.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, n := range t.Notes {
			fmt.Fprintf(w, "  [%s] %s: %s\n", n.Time, n.Author, n.Content)
		}
	}
	return nil
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// withAge appends a relative age to a stored timestamp, e.g.
// "2026-03-01 09:00:00 (3 minutes ago)".
func withAge(stamp string) string {
	t, err := types.ParseTime(stamp)
	if err != nil {
		return stamp
	}
	return fmt.Sprintf("%s (%s)", stamp, humanize.Time(t))
}

// outcomeError turns an unsuccessful Result into a user error naming the
// task, field and value the command acted on.
func outcomeError(res controller.Result, id string, field types.Field, value string) error {
	switch res.Kind {
	case controller.KindNotFound:
		return userError("task %s not found", id)
	case controller.KindDuplicateItem:
		return userError("%q is already in %s of task %s", value, field, id)
	case controller.KindItemNotFound:
		return userError("%q is not in %s of task %s", value, field, id)
	case controller.KindInvalidField:
		return userError("%s cannot be changed this way", field)
	case controller.KindInvalidEnum:
		return userError("invalid %s %q (allowed: %s)", field, value, strings.Join(res.Allowed, ", "))
	case controller.KindUnresolvedDependency:
		return userError("task %s does not exist, cannot depend on it", value)
	}
	return userError("%s", res.Kind)
}

// writeResult reports a successful change.
func (a *app) writeResult(w io.Writer, res controller.Result, format string, args ...any) error {
	if a.structured() {
		return a.emit(w, map[string]any{"ok": res.OK, "value": res.Value})
	}
	fmt.Fprintf(w, format+"\n", args...)
	return nil
}
