package controller

import "github.com/mesh-intelligence/sakuraflow/pkg/types"

// Page is one slice of a result list.
type Page struct {
	Items      []*types.Task
	Number     int // 1-based
	TotalPages int
	TotalItems int
}

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate returns the requested 1-based page of tasks. Requests wrap around:
// a page past the end starts again from the first, 0 is the first page and
// negative pages count back from the last. An empty list yields an empty
// page with no pages.
func Paginate(tasks []*types.Task, page, size int) Page {
	if size <= 0 {
		size = types.DefaultPageSize
	}
	total := len(tasks)
	if total == 0 {
		return Page{Items: []*types.Task{}}
	}
	pages := (total + size - 1) / size

	var idx int
	if page > 0 {
		idx = (page - 1) % pages
	} else {
		idx = ((page % pages) + pages) % pages
	}

	start := idx * size
	end := min(start+size, total)
	return Page{
		Items:      tasks[start:end],
		Number:     idx + 1,
		TotalPages: pages,
		TotalItems: total,
	}
}
