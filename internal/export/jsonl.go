package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// taskJSON is one line of the JSONL export. The ID, which the data file
// keeps as the map key, is carried inline.
type taskJSON struct {
	ID string `json:"id"`
	*types.Task
}

// JSONL writes every task of doc, in ID order, as one JSON object per line.
// The file is replaced atomically.
func JSONL(path string, doc *types.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, t := range doc.Ordered() {
		if err := enc.Encode(taskJSON{ID: t.ID, Task: t}); err != nil {
			return fmt.Errorf("encoding task %s: %w", t.ID, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
