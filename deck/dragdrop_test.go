package deck

import (
	"testing"
	"time"
)

func stripRects(n int) []CardRect {
	// Cards 100 wide with a 10px gap, starting at x=0
	rects := make([]CardRect, n)
	for i := range rects {
		left := float64(i) * 110
		rects[i] = CardRect{Left: left, Right: left + 100}
	}
	return rects
}

func TestComputeInsertIndexHalves(t *testing.T) {
	rects := stripRects(3)

	// Left half of card 1 inserts before it
	if got := ComputeInsertIndex(120, 1, rects); got != 1 {
		t.Errorf("left half: got %d, want 1", got)
	}
	// Right half of card 1 inserts after it
	if got := ComputeInsertIndex(200, 1, rects); got != 2 {
		t.Errorf("right half: got %d, want 2", got)
	}
	// Exactly at the midpoint counts as the right half
	if got := ComputeInsertIndex(165, 1, rects); got != 2 {
		t.Errorf("midpoint: got %d, want 2", got)
	}
}

func TestComputeInsertIndexPastLastCard(t *testing.T) {
	rects := stripRects(3)

	if got := ComputeInsertIndex(999, -1, rects); got != 3 {
		t.Errorf("past last card: got %d, want 3", got)
	}
	if got := ComputeInsertIndex(0, -1, nil); got != 0 {
		t.Errorf("empty strip: got %d, want 0", got)
	}
}

func TestMarkerLeftPositions(t *testing.T) {
	rects := stripRects(3)

	if got := MarkerLeft(0, rects); got != 0 {
		t.Errorf("index 0: got %v, want 0", got)
	}
	// End of deck: last card's right edge plus the end offset
	if got := MarkerLeft(3, rects); got != rects[2].Right+6 {
		t.Errorf("end of deck: got %v, want %v", got, rects[2].Right+6)
	}
	// Interior: just left of the displaced card
	if got := MarkerLeft(1, rects); got != rects[1].Left-2 {
		t.Errorf("interior: got %v, want %v", got, rects[1].Left-2)
	}
}

func TestDragDropReorders(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		c.CreateSlide()
	}
	d := NewDragState(c)
	rects := stripRects(3)

	if err := d.Begin("slide-1"); err != nil {
		t.Fatal(err)
	}
	// Hover over the right half of the last card
	if _, err := d.Over(310, 2, rects); err != nil {
		t.Fatal(err)
	}
	if err := d.Drop(); err != nil {
		t.Fatal(err)
	}

	assertOrder(t, c, []string{"slide-2", "slide-3", "slide-1"})
}

func TestDragCancelLeavesDeckUntouched(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		c.CreateSlide()
	}
	d := NewDragState(c)

	d.Begin("slide-3")
	d.Over(10, 0, stripRects(3))
	d.Cancel()

	assertOrder(t, c, []string{"slide-1", "slide-2", "slide-3"})
	if err := d.Drop(); err != ErrNotDragging {
		t.Errorf("expected ErrNotDragging after cancel, got %v", err)
	}
}

func TestDropWithoutMovementIsNoOp(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		c.CreateSlide()
	}
	d := NewDragState(c)

	// Begin and drop without any Over: insertion index stays at the source
	d.Begin("slide-2")
	if err := d.Drop(); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, c, []string{"slide-1", "slide-2", "slide-3"})
}

func TestClickSuppressionWindow(t *testing.T) {
	c := NewController()
	c.CreateSlide()
	d := NewDragState(c)

	now := time.Unix(0, 0)
	d.now = func() time.Time { return now }

	d.Begin("slide-1")
	d.Drop()

	if !d.SuppressClick() {
		t.Error("click immediately after drop should be suppressed")
	}

	now = now.Add(50 * time.Millisecond)
	if !d.SuppressClick() {
		t.Error("click 50ms after drop should be suppressed")
	}

	now = now.Add(60 * time.Millisecond)
	if d.SuppressClick() {
		t.Error("click 110ms after drop should pass through")
	}
}

func TestSuppressClickBeforeAnyDrop(t *testing.T) {
	d := NewDragState(NewController())
	if d.SuppressClick() {
		t.Error("clicks must not be suppressed before the first drop")
	}
}
