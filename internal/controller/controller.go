// Package controller is the facade the command layer talks to. It
// canonicalises enum values, checks dependency references, routes searches
// through the per-requester cache and reports expected outcomes as Result
// values. Errors are reserved for hard failures such as a lock timeout.
package controller

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/sakuraflow/internal/cache"
	"github.com/mesh-intelligence/sakuraflow/internal/query"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// TaskStore is the persistence surface the controller needs. *store.Store
// implements it.
type TaskStore interface {
	AddTask(ctx context.Context, title, creator string) (string, error)
	UpdateTask(ctx context.Context, id string, field types.Field, value, editor string) error
	RemoveItem(ctx context.Context, id string, field types.Field, value, editor string) error
	AddNote(ctx context.Context, id, content, author string) error
	SetDefaultTier(ctx context.Context, tier string) error
	Get(id string) (*types.Task, bool)
	Has(id string) bool
	Tasks() []*types.Task
	Reload()
}

// Controller wires a TaskStore and a SearchCache together.
type Controller struct {
	store  TaskStore
	cache  *cache.SearchCache
	logger *log.Logger
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger for controller events.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Controller over st. A nil sc gets a cache with the default
// TTL.
func New(st TaskStore, sc *cache.SearchCache, opts ...Option) *Controller {
	if sc == nil {
		sc = cache.New(types.DefaultCacheTTL)
	}
	c := &Controller{store: st, cache: sc, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddTask creates a task and returns its ID.
func (c *Controller) AddTask(ctx context.Context, title, creator string) (string, error) {
	id, err := c.store.AddTask(ctx, title, creator)
	if err != nil {
		return "", err
	}
	c.logger.Debug("task added", "id", id, "creator", creator)
	return id, nil
}

// GetTask returns a copy of task id.
func (c *Controller) GetTask(id string) (*types.Task, bool) {
	return c.store.Get(id)
}

// View selects tasks by whether they are Done.
type View int

// Views.
const (
	ViewActive View = iota
	ViewArchived
	ViewAll
)

// ListActive returns the tasks whose status is not Done, in ID order.
func (c *Controller) ListActive() []*types.Task {
	return c.List(ViewActive, nil)
}

// ListArchived returns the Done tasks, in ID order.
func (c *Controller) ListArchived() []*types.Task {
	return c.List(ViewArchived, nil)
}

// List returns the tasks in view that match criteria, in ID order. The view
// applies on top of criteria, so a status criterion cannot reach Done tasks
// from the active view.
func (c *Controller) List(view View, criteria query.Criteria) []*types.Task {
	tasks := query.Search(c.store.Tasks(), criteria)
	if view == ViewAll {
		return tasks
	}
	archived := view == ViewArchived
	out := tasks[:0]
	for _, t := range tasks {
		if t.IsDone() == archived {
			out = append(out, t)
		}
	}
	return out
}

// Search runs criteria against the current snapshot. A non-empty cacheKey
// stores the results for later CachedSearch calls by the same requester.
func (c *Controller) Search(criteria query.Criteria, cacheKey string) []*types.Task {
	results := query.Search(c.store.Tasks(), criteria)
	if cacheKey != "" {
		c.cache.Set(cacheKey, criteria.Describe(), results)
	}
	return results
}

// CachedSearch returns the last unexpired results stored under key.
func (c *Controller) CachedSearch(key string) ([]*types.Task, bool) {
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return e.Results, true
}

// CachedQuery returns the description of the search cached under key.
func (c *Controller) CachedQuery(key string) (string, bool) {
	e, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}
	return e.Query, true
}

// SetProperty overwrites a scalar field. Status, tier and priority values
// are canonicalised first; an unrecognised value yields KindInvalidEnum with
// the allowed names.
func (c *Controller) SetProperty(ctx context.Context, id string, field types.Field, value, editor string) (Result, error) {
	if !field.IsScalar() {
		return failure(KindInvalidField), nil
	}
	canonical, res, ok := canonicalize(field, value)
	if !ok {
		return res, nil
	}
	return outcome(canonical, c.store.UpdateTask(ctx, id, field, canonical, editor))
}

// AppendItem adds value to a list field. A dependency must name an existing
// task.
func (c *Controller) AppendItem(ctx context.Context, id string, field types.Field, value, editor string) (Result, error) {
	if !field.IsList() {
		return failure(KindInvalidField), nil
	}
	if field == types.FieldDependencies && !c.taskExists(value) {
		return failure(KindUnresolvedDependency), nil
	}
	return outcome(value, c.store.UpdateTask(ctx, id, field, value, editor))
}

// taskExists checks the snapshot, reloading once on a miss so tasks added by
// other processes are seen.
func (c *Controller) taskExists(id string) bool {
	if c.store.Has(id) {
		return true
	}
	c.store.Reload()
	return c.store.Has(id)
}

// RemoveItem deletes value from a list field.
func (c *Controller) RemoveItem(ctx context.Context, id string, field types.Field, value, editor string) (Result, error) {
	if !field.IsList() {
		return failure(KindInvalidField), nil
	}
	return outcome(value, c.store.RemoveItem(ctx, id, field, value, editor))
}

// AddNote appends a note to task id.
func (c *Controller) AddNote(ctx context.Context, id, content, author string) (Result, error) {
	return outcome(content, c.store.AddNote(ctx, id, content, author))
}

// UpdateStatus sets the status of task id. Any status may follow any other.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status types.Status, editor string) (Result, error) {
	return outcome(status.String(), c.store.UpdateTask(ctx, id, types.FieldStatus, status.String(), editor))
}

// Complete marks task id Done.
func (c *Controller) Complete(ctx context.Context, id, editor string) (Result, error) {
	return c.UpdateStatus(ctx, id, types.StatusDone, editor)
}

// Pause puts task id On Hold.
func (c *Controller) Pause(ctx context.Context, id, editor string) (Result, error) {
	return c.UpdateStatus(ctx, id, types.StatusOnHold, editor)
}

// Resume moves task id back to In Progress.
func (c *Controller) Resume(ctx context.Context, id, editor string) (Result, error) {
	return c.UpdateStatus(ctx, id, types.StatusInProgress, editor)
}

// Restore brings an archived task back to In Progress.
func (c *Controller) Restore(ctx context.Context, id, editor string) (Result, error) {
	return c.UpdateStatus(ctx, id, types.StatusInProgress, editor)
}

// SetDefaultTier changes the tier given to new tasks.
func (c *Controller) SetDefaultTier(ctx context.Context, value string) (Result, error) {
	tier, ok := types.ParseTier(value)
	if !ok {
		return Result{Kind: KindInvalidEnum, Allowed: types.TierNames()}, nil
	}
	return outcome(tier.String(), c.store.SetDefaultTier(ctx, tier.String()))
}

// canonicalize maps enum-valued fields to their stored form. Other fields
// pass through unchanged.
func canonicalize(field types.Field, value string) (string, Result, bool) {
	invalid := func(allowed []string) (string, Result, bool) {
		return "", Result{Kind: KindInvalidEnum, Allowed: allowed}, false
	}
	switch field {
	case types.FieldStatus:
		s, ok := types.ParseStatus(value)
		if !ok {
			return invalid(types.StatusNames())
		}
		return s.String(), Result{}, true
	case types.FieldTier:
		t, ok := types.ParseTier(value)
		if !ok {
			return invalid(types.TierNames())
		}
		return t.String(), Result{}, true
	case types.FieldPriority:
		p, ok := types.ParsePriority(value)
		if !ok {
			return invalid(types.PriorityNames())
		}
		return p.String(), Result{}, true
	}
	return value, Result{}, true
}
