package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/internal/controller"
	"github.com/mesh-intelligence/sakuraflow/internal/query"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			id, err := a.ctrl.AddTask(cmd.Context(), title, a.identity())
			if err != nil {
				return hardFailure("add", err)
			}
			if a.structured() {
				t, _ := a.ctrl.GetTask(id)
				return a.writeTask(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%s: %s\n", id, title)
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "info <id>",
		Aliases: []string{"show"},
		Short:   "Show a task with all its fields and notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := a.ctrl.GetTask(args[0])
			if !ok {
				return userError("task %s not found", args[0])
			}
			return a.writeTask(cmd.OutOrStdout(), t)
		},
	}
}

// pageArg parses an optional page argument; no argument is page 1.
func pageArg(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, userError("invalid page %q", args[0])
	}
	return n, nil
}

// listFilter holds the criteria flags of list.
type listFilter struct {
	all, archive bool
	criteria     map[string]*string
}

func (f *listFilter) view() (controller.View, string) {
	switch {
	case f.archive:
		return controller.ViewArchived, "Archived tasks"
	case f.all:
		return controller.ViewAll, "All tasks"
	}
	return controller.ViewActive, "Active tasks"
}

func (f *listFilter) build() query.Criteria {
	c := query.Criteria{}
	for key, v := range f.criteria {
		if *v != "" {
			c[key] = *v
		}
	}
	return c
}

func newListCmd(a *app) *cobra.Command {
	f := &listFilter{criteria: map[string]*string{}}
	cmd := &cobra.Command{
		Use:     "list [page]",
		Aliases: []string{"l"},
		Short:   "List tasks that are not done",
		Long: `List tasks whose status is not Done, in ID order. --all includes Done
tasks and --archive shows only them. Filter flags are ANDed; prefix a value
with ! to negate it.

Pages wrap around: a page past the end starts again from the first and
negative pages count back from the last (write "list -- -1").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(args)
			if err != nil {
				return err
			}
			view, heading := f.view()
			criteria := f.build()
			p := controller.Paginate(a.ctrl.List(view, criteria), page, a.cfg.PageSize)
			return a.writePage(cmd.OutOrStdout(), heading, "list", p, criteria.Describe())
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.all, "all", false, "include done tasks")
	flags.BoolVar(&f.archive, "archive", false, "show only done tasks")
	cmd.MarkFlagsMutuallyExclusive("all", "archive")
	for _, def := range []struct{ flag, key, usage string }{
		{"title", query.KeyTitle, "filter by title substring"},
		{"status", query.KeyStatus, "filter by status"},
		{"tier", query.KeyTier, "filter by tier"},
		{"priority", query.KeyPriority, "filter by priority"},
		{"creator", query.KeyCreator, "filter by creator"},
		{"collab", query.KeyCollaborator, "filter by collaborator"},
		{"label", query.KeyLabel, "filter by label"},
	} {
		f.criteria[def.key] = flags.String(def.flag, "", def.usage)
	}
	return cmd
}

func newArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "archive [page]",
		Aliases: []string{"ar"},
		Short:   "List done tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(args)
			if err != nil {
				return err
			}
			p := controller.Paginate(a.ctrl.ListArchived(), page, a.cfg.PageSize)
			return a.writePage(cmd.OutOrStdout(), "Archived tasks", "archive", p, "")
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query...|page>",
		Aliases: []string{"find"},
		Short:   "Search tasks",
		Long: `Search tasks by title and metadata. Terms are ANDed.

  key=value   match a field; prefix the value with ! to negate it
  word        match titles containing word (the last bare word wins)

Keys: t/title, s/stat/status, tier, p/prio/priority, c/creator,
collab/collaborator, l/label.

A bare number shows that page of your most recent search.

Example:
  sakuraflow search reactor s=!Done l=urgent
  sakuraflow search 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requester := a.identity()
			raw := strings.Join(args, " ")

			if query.IsPageRequest(raw) {
				page, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil {
					return userError("invalid page %q", raw)
				}
				results, ok := a.ctrl.CachedSearch(requester)
				if !ok {
					return userError("no recent search to page through; repeat the query")
				}
				q, _ := a.ctrl.CachedQuery(requester)
				p := controller.Paginate(results, page, a.cfg.PageSize)
				return a.writePage(cmd.OutOrStdout(), "Search results", "search", p, q)
			}

			criteria := query.Parse(raw)
			results := a.ctrl.Search(criteria, requester)
			p := controller.Paginate(results, 1, a.cfg.PageSize)
			return a.writePage(cmd.OutOrStdout(), "Search results", "search", p, criteria.Describe())
		},
	}
}
