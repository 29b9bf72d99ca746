package controller

import (
	"errors"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Kind classifies why an operation did not succeed. The command layer maps
// kinds to user-facing messages.
type Kind int

// Outcome kinds.
const (
	KindNone Kind = iota
	KindNotFound
	KindDuplicateItem
	KindItemNotFound
	KindInvalidField
	KindInvalidEnum
	KindUnresolvedDependency
)

var kindNames = map[Kind]string{
	KindNone:                 "none",
	KindNotFound:             "not_found",
	KindDuplicateItem:        "duplicate_item",
	KindItemNotFound:         "item_not_found",
	KindInvalidField:         "invalid_field",
	KindInvalidEnum:          "invalid_enum",
	KindUnresolvedDependency: "unresolved_dependency",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Err returns the sentinel error matching k, or nil for KindNone.
func (k Kind) Err() error {
	switch k {
	case KindNotFound:
		return types.ErrNotFound
	case KindDuplicateItem:
		return types.ErrDuplicateItem
	case KindItemNotFound:
		return types.ErrItemNotFound
	case KindInvalidField:
		return types.ErrInvalidField
	case KindInvalidEnum:
		return types.ErrInvalidEnum
	case KindUnresolvedDependency:
		return types.ErrUnresolvedDependency
	}
	return nil
}

// Result is the outcome of a controller verb. Value holds the canonical
// value that was stored; Allowed lists the legal values when Kind is
// KindInvalidEnum.
type Result struct {
	OK      bool
	Value   string
	Kind    Kind
	Allowed []string
}

func success(value string) Result {
	return Result{OK: true, Value: value}
}

func failure(kind Kind) Result {
	return Result{Kind: kind}
}

// outcome splits a store error into an expected outcome and a hard failure.
// Only hard failures (lock timeout, strict persistence) are returned as
// errors.
func outcome(value string, err error) (Result, error) {
	switch {
	case err == nil:
		return success(value), nil
	case errors.Is(err, types.ErrNotFound):
		return failure(KindNotFound), nil
	case errors.Is(err, types.ErrDuplicateItem):
		return failure(KindDuplicateItem), nil
	case errors.Is(err, types.ErrItemNotFound):
		return failure(KindItemNotFound), nil
	case errors.Is(err, types.ErrInvalidField):
		return failure(KindInvalidField), nil
	}
	return Result{}, err
}
