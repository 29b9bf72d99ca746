package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// aliasHelp lists the accepted names of each field, for command help.
func aliasHelp(fields ...types.Field) string {
	var b strings.Builder
	for _, f := range fields {
		aliases := types.FieldAliases(f)
		sort.Strings(aliases)
		fmt.Fprintf(&b, "  %-14s %s\n", f, strings.Join(aliases, ", "))
	}
	return b.String()
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <property> <value...>",
		Short: "Set a task property",
		Long: "Set a scalar property of a task. Status, tier and priority accept\n" +
			"names, shorthands or numeric indices in any case.\n\nProperties:\n" +
			aliasHelp(types.FieldTitle, types.FieldDescription, types.FieldStatus, types.FieldTier, types.FieldPriority),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, alias := args[0], args[1]
			value := strings.Join(args[2:], " ")
			field, ok := types.ResolveField(alias)
			if !ok {
				return userError("unknown property %q", alias)
			}

			res, err := a.ctrl.SetProperty(cmd.Context(), id, field, value, a.identity())
			if err != nil {
				return hardFailure("set", err)
			}
			if !res.OK {
				return outcomeError(res, id, field, value)
			}
			return a.writeResult(cmd.OutOrStdout(), res, "Task #%s: %s set to %s", id, field, res.Value)
		},
	}
}

// listEditCmd builds append and remove, which differ only in the verb.
func listEditCmd(a *app, use, short, done string, remove bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <list> <value>",
		Short: short,
		Long: short + ".\n\nLists:\n" +
			aliasHelp(types.FieldLabels, types.FieldCollaborators, types.FieldDependencies),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, alias := args[0], args[1]
			value := strings.Join(args[2:], " ")
			field, ok := types.ResolveListField(alias)
			if !ok {
				return userError("unknown list %q", alias)
			}

			edit := a.ctrl.AppendItem
			if remove {
				edit = a.ctrl.RemoveItem
			}
			res, err := edit(cmd.Context(), id, field, value, a.identity())
			if err != nil {
				return hardFailure(use, err)
			}
			if !res.OK {
				return outcomeError(res, id, field, value)
			}
			return a.writeResult(cmd.OutOrStdout(), res, "Task #%s: %s %s %s", id, done, value, field)
		},
	}
}

func newAppendCmd(a *app) *cobra.Command {
	return listEditCmd(a, "append", "Add a value to a task list", "added to", false)
}

func newRemoveCmd(a *app) *cobra.Command {
	return listEditCmd(a, "remove", "Remove a value from a task list", "removed from", true)
}

func newNoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text...>",
		Short: "Append a note to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			content := strings.Join(args[1:], " ")
			res, err := a.ctrl.AddNote(cmd.Context(), id, content, a.identity())
			if err != nil {
				return hardFailure("note", err)
			}
			if !res.OK {
				return outcomeError(res, id, "notes", content)
			}
			return a.writeResult(cmd.OutOrStdout(), res, "Task #%s: note added", id)
		},
	}
}

func newDefaultTierCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "default-tier [tier]",
		Short: "Show or change the tier given to new tasks",
		Long:  "Show or change the tier given to new tasks.\n\nTiers, lowest first: " + strings.Join(types.TierNames(), " "),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tier := a.store.DefaultTier()
				if a.structured() {
					return a.emit(cmd.OutOrStdout(), map[string]string{"default_tier": tier})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Default tier: %s\n", tier)
				return nil
			}

			res, err := a.ctrl.SetDefaultTier(cmd.Context(), args[0])
			if err != nil {
				return hardFailure("default-tier", err)
			}
			if !res.OK {
				return outcomeError(res, "", types.FieldTier, args[0])
			}
			return a.writeResult(cmd.OutOrStdout(), res, "Default tier set to %s", res.Value)
		},
	}
}
