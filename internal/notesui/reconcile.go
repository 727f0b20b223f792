package notesui

import (
	"sort"

	"adminnotes/internal/types"
)

// Plan is the set of changes that brings the displayed lines in line with an
// authoritative snapshot.
type Plan struct {
	Remove []int
	Update []int
	Insert []Insertion
}

// Insertion places a new line for ID at Index of the list as it stands after
// removals and all earlier insertions have been applied.
type Insertion struct {
	ID    int
	Index int
}

// Empty reports whether applying the plan changes the set of displayed IDs.
func (p Plan) Empty() bool {
	return len(p.Remove) == 0 && len(p.Insert) == 0
}

// Diff computes the plan for moving from current, the displayed IDs in
// display order, to snapshot. Every ID that survives is listed in Update even
// if its note did not change. Insert indexes assume the result is sorted
// ascending by ID.
func Diff(current []int, snapshot map[int]*types.Note) Plan {
	plan := Plan{}
	kept := make(map[int]struct{}, len(current))
	for _, id := range current {
		if note, ok := snapshot[id]; ok && note != nil {
			kept[id] = struct{}{}
			continue
		}
		plan.Remove = append(plan.Remove, id)
	}

	ids := make([]int, 0, len(snapshot))
	for id, note := range snapshot {
		if note == nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for index, id := range ids {
		if _, ok := kept[id]; ok {
			plan.Update = append(plan.Update, id)
			continue
		}
		plan.Insert = append(plan.Insert, Insertion{ID: id, Index: index})
	}
	return plan
}
