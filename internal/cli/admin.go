package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/internal/export"
	"github.com/mesh-intelligence/sakuraflow/internal/lock"
	"github.com/mesh-intelligence/sakuraflow/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export all tasks to JSONL or SQLite",
		Long: `Export a snapshot of every task. The format follows the file extension
(.jsonl, .ndjson, .db, .sqlite) unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				f   export.Format
				err error
			)
			if format != "" {
				f, err = export.ParseFormat(format)
			} else {
				f, err = export.FormatFromPath(path)
			}
			if err != nil {
				return userError("%w", err)
			}

			doc := a.store.Snapshot()
			if err := export.Write(cmd.Context(), f, path, doc); err != nil {
				return sysError("export: %w", err)
			}
			a.logger.Debug("exported", "path", path, "format", f, "tasks", len(doc.Tasks))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s (%s)\n", len(doc.Tasks), path, f)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "export format: jsonl or sqlite")
	return cmd
}

// checkReport is the structured output of check.
type checkReport struct {
	Path     string   `json:"path" yaml:"path"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Locked   bool     `json:"locked" yaml:"locked"`
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the data file and report the lock state",
		Long: `Validate the data file against its schema and ordering rules. A corrupt
file is silently treated as empty by every other command; check reports
why. Exits 1 when the file is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.store.Path()
			result, err := store.ValidateFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not exist yet; it is created by the first change\n", path)
				return nil
			}
			if err != nil {
				return sysError("check: %w", err)
			}

			report := checkReport{Path: path, Valid: result.Valid, Errors: []string{}, Warnings: result.Warnings}
			if report.Warnings == nil {
				report.Warnings = []string{}
			}
			for _, e := range result.Errors {
				report.Errors = append(report.Errors, e.Error())
			}
			// The sentinel's existence is the lock. Its payload may be empty
			// when another tool holds it or a holder is still writing it.
			holder, lockErr := lock.Inspect(a.store.LockPath())
			report.Locked = !errors.Is(lockErr, fs.ErrNotExist)

			out := cmd.OutOrStdout()
			if a.structured() {
				if err := a.emit(out, report); err != nil {
					return err
				}
			} else {
				status := "valid"
				if !report.Valid {
					status = "INVALID"
				}
				fmt.Fprintf(out, "%s: %s\n", path, status)
				for _, e := range report.Errors {
					fmt.Fprintf(out, "  error: %s\n", e)
				}
				for _, w := range report.Warnings {
					fmt.Fprintf(out, "  warning: %s\n", w)
				}
				switch {
				case report.Locked && lockErr == nil:
					fmt.Fprintf(out, "lock held by pid %d since %s\n", holder.PID, humanize.Time(holder.AcquiredAt))
				case report.Locked:
					fmt.Fprintf(out, "lock held (no holder details: %v)\n", lockErr)
				}
			}

			if !report.Valid {
				return userError("%s failed validation", path)
			}
			return nil
		},
	}
}

func newUnlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Remove a lock left behind by a crashed process",
		Long: `Remove the lock sentinel next to the data file. Only use this when the
process named by 'sakuraflow check' is no longer running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.store.LockPath()
			holder, inspectErr := lock.Inspect(path)

			removed, err := lock.ForceClear(path)
			if err != nil {
				return sysError("unlock: %w", err)
			}
			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintln(out, "Data file is not locked")
				return nil
			}
			if inspectErr == nil {
				a.logger.Warn("lock cleared", "pid", holder.PID, "token", holder.Token)
				fmt.Fprintf(out, "Removed lock held by pid %d since %s\n", holder.PID, humanize.Time(holder.AcquiredAt))
				return nil
			}
			fmt.Fprintln(out, "Removed lock")
			return nil
		},
	}
}
