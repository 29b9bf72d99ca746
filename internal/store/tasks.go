package store

import (
	"context"
	"slices"
	"strconv"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// AddTask creates a task with the next ID, status In Progress, the document's
// default tier and Medium priority. It returns the new ID.
func (s *Store) AddTask(ctx context.Context, title, creator string) (string, error) {
	var id string
	err := s.Transaction(ctx, func(doc *types.Document) error {
		// A hand-edited file may carry a counter behind its keys.
		for {
			id = strconv.Itoa(doc.NextID)
			if _, taken := doc.Tasks[id]; !taken {
				break
			}
			doc.NextID++
		}
		now := s.timestamp()
		doc.Tasks[id] = &types.Task{
			ID:            id,
			Title:         title,
			Creator:       creator,
			Description:   "",
			Status:        types.StatusInProgress.String(),
			Tier:          doc.DefaultTier,
			Priority:      types.PriorityMedium.String(),
			Labels:        []string{},
			Collaborators: []string{},
			Dependencies:  []string{},
			Notes:         []types.Note{},
			CreatedAt:     now,
			LastUpdated:   now,
			LastEditor:    creator,
		}
		doc.NextID++
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateTask sets field on task id. Scalar fields are overwritten
// unconditionally. List fields get value appended and re-sorted; a value
// already present yields types.ErrDuplicateItem. An unknown task yields
// types.ErrNotFound. Values are stored as given; canonicalisation belongs to
// the caller.
func (s *Store) UpdateTask(ctx context.Context, id string, field types.Field, value, editor string) error {
	return s.Transaction(ctx, func(doc *types.Document) error {
		task, ok := doc.Tasks[id]
		if !ok {
			return types.ErrNotFound
		}

		switch {
		case field.IsList():
			list := task.List(field)
			if slices.Contains(list, value) {
				return types.ErrDuplicateItem
			}
			list = append(list, value)
			types.SortList(field, list)
			task.SetList(field, list)
		case field.IsScalar():
			task.SetScalar(field, value)
		default:
			return types.ErrInvalidField
		}

		task.Touch(s.timestamp(), editor)
		return nil
	})
}

// RemoveItem deletes value from the list field of task id. It fails with
// types.ErrNotFound for an unknown task, types.ErrInvalidField for a
// non-list field and types.ErrItemNotFound when value is absent.
func (s *Store) RemoveItem(ctx context.Context, id string, field types.Field, value, editor string) error {
	return s.Transaction(ctx, func(doc *types.Document) error {
		task, ok := doc.Tasks[id]
		if !ok {
			return types.ErrNotFound
		}
		if !field.IsList() {
			return types.ErrInvalidField
		}

		list := task.List(field)
		i := slices.Index(list, value)
		if i < 0 {
			return types.ErrItemNotFound
		}
		task.SetList(field, slices.Delete(list, i, i+1))
		task.Touch(s.timestamp(), editor)
		return nil
	})
}

// AddNote appends a note to task id. The note time and the task's
// last_updated share one timestamp.
func (s *Store) AddNote(ctx context.Context, id, content, author string) error {
	return s.Transaction(ctx, func(doc *types.Document) error {
		task, ok := doc.Tasks[id]
		if !ok {
			return types.ErrNotFound
		}
		note := types.Note{Time: s.timestamp(), Author: author, Content: content}
		task.Notes = append(task.Notes, note)
		task.Touch(note.Time, author)
		return nil
	})
}

// SetDefaultTier overwrites the tier given to new tasks. The value is
// expected to be canonical already.
func (s *Store) SetDefaultTier(ctx context.Context, tier string) error {
	return s.Transaction(ctx, func(doc *types.Document) error {
		doc.DefaultTier = tier
		return nil
	})
}
