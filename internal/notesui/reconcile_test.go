package notesui

import (
	"reflect"
	"testing"

	"adminnotes/internal/types"
)

func TestDiffRemovesUpdatesAndInserts(t *testing.T) {
	plan := Diff([]int{1, 2, 3}, testNotes(2, 3, 4, 5))
	if !reflect.DeepEqual(plan.Remove, []int{1}) {
		t.Fatalf("unexpected removals: %v", plan.Remove)
	}
	if !reflect.DeepEqual(plan.Update, []int{2, 3}) {
		t.Fatalf("unexpected updates: %v", plan.Update)
	}
	want := []Insertion{{ID: 4, Index: 2}, {ID: 5, Index: 3}}
	if !reflect.DeepEqual(plan.Insert, want) {
		t.Fatalf("unexpected inserts: %#v", plan.Insert)
	}
}

func TestDiffEmptySnapshotRemovesAll(t *testing.T) {
	plan := Diff([]int{4, 9}, map[int]*types.Note{})
	if !reflect.DeepEqual(plan.Remove, []int{4, 9}) {
		t.Fatalf("expected all ids removed, got %v", plan.Remove)
	}
	if len(plan.Update) != 0 || len(plan.Insert) != 0 {
		t.Fatalf("expected no updates or inserts, got %#v", plan)
	}
}

func TestDiffInsertsLowerIDBeforeExisting(t *testing.T) {
	plan := Diff([]int{5, 7}, testNotes(3, 5, 7))
	want := []Insertion{{ID: 3, Index: 0}}
	if !reflect.DeepEqual(plan.Insert, want) {
		t.Fatalf("unexpected inserts: %#v", plan.Insert)
	}
	if !reflect.DeepEqual(plan.Update, []int{5, 7}) {
		t.Fatalf("expected unconditional updates, got %v", plan.Update)
	}
}

func TestDiffIgnoresNilNotes(t *testing.T) {
	snapshot := testNotes(2)
	snapshot[1] = nil
	plan := Diff([]int{1}, snapshot)
	if !reflect.DeepEqual(plan.Remove, []int{1}) {
		t.Fatalf("expected nil note to count as absent, got %v", plan.Remove)
	}
	if !reflect.DeepEqual(plan.Insert, []Insertion{{ID: 2, Index: 0}}) {
		t.Fatalf("unexpected inserts: %#v", plan.Insert)
	}
}

func TestDiffUnchangedSnapshotIsEmpty(t *testing.T) {
	plan := Diff([]int{1, 2}, testNotes(1, 2))
	if !plan.Empty() {
		t.Fatalf("expected no structural change, got %#v", plan)
	}
	if len(plan.Update) != 2 {
		t.Fatalf("expected both ids updated, got %v", plan.Update)
	}
}
