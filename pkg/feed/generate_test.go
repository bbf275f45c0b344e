package feed

import (
	"testing"

	"github.com/google/uuid"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
)

func TestGenerateBuildsOneTree(t *testing.T) {
	items, err := Generate(60, 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(items) != 60 {
		t.Fatalf("got %d items, want 60", len(items))
	}

	roots := 0
	for _, it := range items {
		if it.IsFirst {
			roots++
		}
		if _, err := uuid.Parse(it.ID); err != nil {
			t.Errorf("id %q is not a uuid: %v", it.ID, err)
		}
		if it.Text("text") == "" {
			t.Errorf("item %s has no text", it.ID)
		}
	}
	if roots != 1 {
		t.Errorf("roots = %d, want 1", roots)
	}

	s := item.NewStore()
	s.AddItems(items...)
	s.PlaceUnplaced()
	if s.Len() != 60 || len(s.Unplaced()) != 0 {
		t.Errorf("placed=%d unplaced=%d, want every item placed", s.Len(), len(s.Unplaced()))
	}
}

func TestGenerateShufflesArrival(t *testing.T) {
	items, err := Generate(40, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	seen := make(map[string]bool)
	early := 0
	for _, it := range items {
		if !it.IsFirst && !seen[it.ReplyToID] {
			early++
		}
		seen[it.ID] = true
	}
	if early == 0 {
		t.Error("no reply arrived before its parent")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := Generate(10, 42)
	b, _ := Generate(10, 42)
	c, _ := Generate(10, 43)
	for i := range a {
		if a[i].ID != b[i].ID || a[i].ReplyToID != b[i].ReplyToID {
			t.Fatalf("same seed differs at %d", i)
		}
	}
	if a[0].ID == c[0].ID {
		t.Error("different seeds produced the same ids")
	}
}

func TestGenerateRejectsEmpty(t *testing.T) {
	if _, err := Generate(0, 1); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("Generate(0) error = %v", err)
	}
}
