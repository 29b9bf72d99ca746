package types

import "errors"

// Task operation outcomes. These are expected results of user commands, not
// faults.
var (
	ErrNotFound             = errors.New("task not found")
	ErrDuplicateItem        = errors.New("item already present")
	ErrItemNotFound         = errors.New("item not present")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidEnum          = errors.New("invalid enum value")
	ErrUnresolvedDependency = errors.New("dependency task not found")
)

// Hard failures.
var (
	ErrLockTimeout     = errors.New("timed out acquiring lock")
	ErrPersistence     = errors.New("persisting data file")
	ErrPathEmpty       = errors.New("data path must not be empty")
	ErrTimeoutInvalid  = errors.New("lock timeout must be positive")
	ErrPollInvalid     = errors.New("lock poll interval must be positive")
	ErrTTLInvalid      = errors.New("cache ttl must be positive")
	ErrPageSizeInvalid = errors.New("page size must be positive")
)
