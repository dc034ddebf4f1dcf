package deck

import (
	"fmt"
	"testing"
)

func TestCreateSlideAssignsSequentialIDs(t *testing.T) {
	c := NewController()

	a := c.CreateSlide()
	b := c.CreateSlide()

	if a.ID != "slide-1" || b.ID != "slide-2" {
		t.Fatalf("expected slide-1, slide-2; got %s, %s", a.ID, b.ID)
	}
	if c.Selected() != b.ID {
		t.Errorf("expected new slide to be selected, got %s", c.Selected())
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	c := NewController()

	c.CreateSlide()
	b := c.CreateSlide()
	c.DeleteSlide(b.ID)

	next := c.CreateSlide()
	if next.ID == b.ID {
		t.Fatalf("slide id %s was reused after delete", b.ID)
	}
	if next.ID != "slide-3" {
		t.Errorf("expected slide-3, got %s", next.ID)
	}
}

func TestDeleteMovesSelection(t *testing.T) {
	c := NewController()

	a := c.CreateSlide()
	b := c.CreateSlide()
	x := c.CreateSlide()

	// Deleting the selected middle slide selects its successor
	c.Select(b.ID)
	c.DeleteSlide(b.ID)
	if c.Selected() != x.ID {
		t.Errorf("expected %s selected after deleting middle, got %s", x.ID, c.Selected())
	}

	// Deleting the selected last slide selects the new last
	c.DeleteSlide(x.ID)
	if c.Selected() != a.ID {
		t.Errorf("expected %s selected after deleting last, got %s", a.ID, c.Selected())
	}

	// Deleting the only slide clears the selection
	c.DeleteSlide(a.ID)
	if c.Selected() != "" {
		t.Errorf("expected empty selection, got %s", c.Selected())
	}
}

func TestMoveReordersAgainstPreRemovalIndex(t *testing.T) {
	c := NewController()
	for i := 0; i < 4; i++ {
		c.CreateSlide()
	}

	// Move slide-1 to the gap before slide-4 (insertion index 3)
	if err := c.Move(0, 3); err != nil {
		t.Fatal(err)
	}
	want := []string{"slide-2", "slide-3", "slide-1", "slide-4"}
	assertOrder(t, c, want)

	// Move slide-4 to the front
	if err := c.Move(3, 0); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, c, []string{"slide-4", "slide-2", "slide-3", "slide-1"})
}

func TestMoveToOwnPositionIsNoOp(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		c.CreateSlide()
	}
	want := []string{"slide-1", "slide-2", "slide-3"}

	// Dropping a card on its own position or the gap right after it
	// must not change the order
	if err := c.Move(1, 1); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, c, want)

	if err := c.Move(1, 2); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, c, want)
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	c := NewController()
	c.CreateSlide()

	if err := c.Move(5, 0); err == nil {
		t.Error("expected error for out-of-range source")
	}
	if err := c.Move(0, 2); err == nil {
		t.Error("expected error for out-of-range insertion index")
	}
}

func TestSetCodeInvalidatesStaleSummary(t *testing.T) {
	c := NewController()
	s := c.CreateSlide()

	gen, ok := c.SetCode(s.ID, "total = 1")
	if !ok {
		t.Fatal("SetCode failed")
	}

	// Code changes again before the async summary for gen lands
	c.SetCode(s.ID, "total = 2")

	if c.SetSummary(s.ID, "stale summary", gen) {
		t.Error("stale summary was accepted")
	}
	got, _ := c.Get(s.ID)
	if got.Summary != "" {
		t.Errorf("expected empty summary, got %q", got.Summary)
	}

	// A summary carrying the current generation lands
	cur := c.Generation(s.ID)
	if !c.SetSummary(s.ID, "fresh summary", cur) {
		t.Fatal("current summary was rejected")
	}
	got, _ = c.Get(s.ID)
	if got.Summary != "fresh summary" {
		t.Errorf("expected fresh summary, got %q", got.Summary)
	}
}

func TestSetCodeClearsOldSummary(t *testing.T) {
	c := NewController()
	s := c.CreateSlide()

	gen, _ := c.SetCode(s.ID, "a = 1")
	c.SetSummary(s.ID, "sets a", gen)

	c.SetCode(s.ID, "b = 2")
	got, _ := c.Get(s.ID)
	if got.Summary != "" {
		t.Errorf("summary survived a code change: %q", got.Summary)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewController()
	a := c.CreateSlide()
	b := c.CreateSlide()
	gen, _ := c.SetCode(a.ID, "x = 3")
	c.SetSummary(a.ID, "sets x", gen)
	c.Select(b.ID)

	data, err := c.MarshalSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	restored := NewController()
	if err := restored.RestoreJSON(data); err != nil {
		t.Fatal(err)
	}

	if got := restored.Slides(); len(got) != 2 || got[0].Code != "x = 3" || got[0].Summary != "sets x" {
		t.Errorf("restored deck mismatch: %+v", got)
	}
	if restored.Selected() != b.ID {
		t.Errorf("expected selection %s, got %s", b.ID, restored.Selected())
	}
}

func TestRestoreResyncsIDCounter(t *testing.T) {
	c := NewController()
	c.Restore(Snapshot{Slides: []Slide{
		{ID: "slide-2"},
		{ID: "slide-7"},
		{ID: "slide-3"},
	}})

	next := c.CreateSlide()
	if next.ID != "slide-8" {
		t.Errorf("expected slide-8 after restore, got %s", next.ID)
	}
}

func TestRestoreWithUnknownSelectionFallsBackToFirst(t *testing.T) {
	c := NewController()
	c.Restore(Snapshot{
		Slides:   []Slide{{ID: "slide-1"}, {ID: "slide-2"}},
		Selected: "slide-99",
	})

	if c.Selected() != "slide-1" {
		t.Errorf("expected fallback to first slide, got %s", c.Selected())
	}
}

func TestRestoreJSONRejectsCorruptData(t *testing.T) {
	c := NewController()
	c.CreateSlide()

	if err := c.RestoreJSON("{not json"); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
	// The deck must be untouched after a failed restore
	if c.Len() != 1 {
		t.Errorf("deck changed after failed restore: %d slides", c.Len())
	}
}

func assertOrder(t *testing.T, c *Controller, want []string) {
	t.Helper()
	got := c.Slides()
	if len(got) != len(want) {
		t.Fatalf("expected %d slides, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.ID != want[i] {
			t.Fatalf("order mismatch at %d: got %s, want %s (full: %s)", i, s.ID, want[i], orderString(got))
		}
	}
}

func orderString(slides []Slide) string {
	out := ""
	for i, s := range slides {
		if i > 0 {
			out += ","
		}
		out += s.ID
	}
	return fmt.Sprintf("[%s]", out)
}
