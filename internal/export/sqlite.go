package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// listTables maps each list field to its table and value column.
var listTables = []struct {
	field  types.Field
	table  string
	column string
}{
	{types.FieldLabels, "labels", "label"},
	{types.FieldCollaborators, "collaborators", "collaborator"},
	{types.FieldDependencies, "dependencies", "depends_on"},
}

// SQLite writes doc to a fresh SQLite database at path. An existing file is
// replaced. All rows are inserted in one transaction.
func SQLite(ctx context.Context, path string, doc *types.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing previous export: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMeta(ctx, tx, doc); err != nil {
		return err
	}
	if err := insertTasks(ctx, tx, doc.Ordered()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export transaction: %w", err)
	}
	return nil
}

func insertMeta(ctx context.Context, tx *sql.Tx, doc *types.Document) error {
	rows := [][2]string{
		{"next_id", strconv.Itoa(doc.NextID)},
		{"default_tier", doc.DefaultTier},
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", r[0], r[1]); err != nil {
			return fmt.Errorf("inserting meta %s: %w", r[0], err)
		}
	}
	return nil
}

func insertTasks(ctx context.Context, tx *sql.Tx, tasks []*types.Task) error {
	taskStmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks
    (task_id, title, description, status, tier, priority, creator, created_at, last_updated, last_editor)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer taskStmt.Close()

	noteStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO notes (task_id, seq, time, author, content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing note insert: %w", err)
	}
	defer noteStmt.Close()

	listStmts := make([]*sql.Stmt, len(listTables))
	for i, lt := range listTables {
		q := fmt.Sprintf("INSERT INTO %s (task_id, %s) VALUES (?, ?)", lt.table, lt.column)
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return fmt.Errorf("preparing %s insert: %w", lt.table, err)
		}
		defer stmt.Close()
		listStmts[i] = stmt
	}

	for _, t := range tasks {
		if _, err := taskStmt.ExecContext(ctx, t.ID, t.Title, t.Description, t.Status, t.Tier,
			t.Priority, t.Creator, t.CreatedAt, t.LastUpdated, t.LastEditor); err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
		for i, lt := range listTables {
			for _, v := range t.List(lt.field) {
				if _, err := listStmts[i].ExecContext(ctx, t.ID, v); err != nil {
					return fmt.Errorf("inserting %s for task %s: %w", lt.table, t.ID, err)
				}
			}
		}
		for seq, n := range t.Notes {
			if _, err := noteStmt.ExecContext(ctx, t.ID, seq, n.Time, n.Author, n.Content); err != nil {
				return fmt.Errorf("inserting note for task %s: %w", t.ID, err)
			}
		}
	}
	return nil
}
