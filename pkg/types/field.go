package types

import "strings"

// Field identifies a task attribute addressable by update operations.
type Field string

// Scalar fields.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStatus      Field = "status"
	FieldTier        Field = "tier"
	FieldPriority    Field = "priority"
	FieldCreator     Field = "creator"
)

// List fields.
const (
	FieldLabels        Field = "labels"
	FieldCollaborators Field = "collaborators"
	FieldDependencies  Field = "dependencies"
)

// IsList reports whether f is one of the list-valued fields.
func (f Field) IsList() bool {
	return f == FieldLabels || f == FieldCollaborators || f == FieldDependencies
}

// IsScalar reports whether f is a settable scalar field.
func (f Field) IsScalar() bool {
	switch f {
	case FieldTitle, FieldDescription, FieldStatus, FieldTier, FieldPriority, FieldCreator:
		return true
	}
	return false
}

// propertyAliases maps user-facing property names to scalar fields.
var propertyAliases = map[string]Field{
	"title":       FieldTitle,
	"desc":        FieldDescription,
	"description": FieldDescription,
	"s":           FieldStatus,
	"stat":        FieldStatus,
	"status":      FieldStatus,
	"t":           FieldTier,
	"tier":        FieldTier,
	"p":           FieldPriority,
	"prio":        FieldPriority,
	"priority":    FieldPriority,
}

// listAliases maps user-facing list names to list fields.
var listAliases = map[string]Field{
	"c":             FieldCollaborators,
	"collab":        FieldCollaborators,
	"collaborator":  FieldCollaborators,
	"collaborators": FieldCollaborators,
	"d":             FieldDependencies,
	"dep":           FieldDependencies,
	"dependency":    FieldDependencies,
	"dependencies":  FieldDependencies,
	"l":             FieldLabels,
	"label":         FieldLabels,
	"labels":        FieldLabels,
}

// ResolveField maps a property alias to its scalar field.
func ResolveField(alias string) (Field, bool) {
	f, ok := propertyAliases[strings.ToLower(strings.TrimSpace(alias))]
	return f, ok
}

// ResolveListField maps a list alias to its list field.
func ResolveListField(alias string) (Field, bool) {
	f, ok := listAliases[strings.ToLower(strings.TrimSpace(alias))]
	return f, ok
}

// FieldAliases returns every alias that resolves to f, for help output.
func FieldAliases(f Field) []string {
	var out []string
	src := propertyAliases
	if f.IsList() {
		src = listAliases
	}
	for a, target := range src {
		if target == f {
			out = append(out, a)
		}
	}
	return out
}
