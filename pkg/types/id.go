package types

import (
	"sort"
	"strconv"
)

// numericID returns the value of a purely decimal ID.
func numericID(id string) (uint64, bool) {
	if id == "" {
		return 0, false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompareIDs reports whether id1 orders before id2. Purely decimal IDs compare
// by value ("2" before "10") and sort ahead of any other ID; everything else
// falls back to lexicographic order.
func CompareIDs(id1, id2 string) bool {
	n1, ok1 := numericID(id1)
	n2, ok2 := numericID(id2)
	switch {
	case ok1 && ok2:
		if n1 != n2 {
			return n1 < n2
		}
		return id1 < id2
	case ok1:
		return true
	case ok2:
		return false
	}
	return id1 < id2
}

// SortIDs sorts ids in place using CompareIDs.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) })
}

// SortList sorts a list-valued field in place: dependencies by ID order,
// labels and collaborators lexicographically.
func SortList(f Field, values []string) {
	if f == FieldDependencies {
		SortIDs(values)
		return
	}
	sort.Strings(values)
}
