package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "sakuraflow://schema.json"

// ValidationError is one schema or invariant violation in a data file.
type ValidationError struct {
	Path string // JSON path of the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult collects the findings of ValidateFile.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("adding schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// ValidateFile checks the data file at path against the document schema and
// the ordering invariants (sorted lists, counter ahead of every ID). Stale
// dependencies and non-numeric IDs are reported as warnings. Load silently
// discards a corrupt file; this is the tool operators use to find out why.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result := &ValidationResult{Valid: true}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result, nil
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result, nil
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return result, nil
	}
	doc.Normalize()
	checkInvariants(result, &doc)
	return result, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	return strings.Join(parts, ".")
}

func checkInvariants(result *ValidationResult, doc *types.Document) {
	for _, id := range doc.IDs() {
		task := doc.Tasks[id]
		n, numeric := parseID(id)
		if !numeric {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("task %s has a non-numeric ID; it sorts after numeric IDs", id))
		}
		if numeric && n >= doc.NextID {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: "next_id",
				Err:  fmt.Errorf("counter %d is not ahead of task %s", doc.NextID, id),
			})
		}
		for _, f := range []types.Field{types.FieldLabels, types.FieldCollaborators, types.FieldDependencies} {
			list := task.List(f)
			if !isSorted(f, list) {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: fmt.Sprintf("tasks.%s.%s", id, f),
					Err:  fmt.Errorf("list is not sorted"),
				})
			}
		}
		for _, dep := range task.Dependencies {
			if _, ok := doc.Tasks[dep]; !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("task %s depends on missing task %s", id, dep))
			}
		}
	}
}

func isSorted(f types.Field, list []string) bool {
	sorted := slices.Clone(list)
	types.SortList(f, sorted)
	return slices.Equal(sorted, list)
}

func parseID(id string) (int, bool) {
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(id)
	return n, err == nil
}
