package deck

import (
	"errors"
	"sync"
	"time"
)

// CardRect is the horizontal extent of one rendered card in the film strip
type CardRect struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Drag geometry constants
const (
	// markerEndOffset places the marker just past the last card's right edge
	markerEndOffset = 6
	// markerCardOffset places the marker just left of the target card
	markerCardOffset = 2
	// clickSuppressWindow is how long after a drop clicks on the strip are
	// swallowed, so the mouse-up that ends a drag never selects a card
	clickSuppressWindow = 100 * time.Millisecond
)

var ErrNotDragging = errors.New("no drag in progress")

// DragState is the explicit drag-reorder state machine for the film strip.
// It is fed pointer geometry and produces the insertion index and marker
// position; it never touches the deck until Drop.
type DragState struct {
	mu          sync.Mutex
	deck        *Controller
	dragging    bool
	sourceID    string
	sourceIndex int
	insertIndex int
	droppedAt   time.Time
	now         func() time.Time
}

// NewDragState returns a drag state machine bound to a deck
func NewDragState(deck *Controller) *DragState {
	return &DragState{
		deck: deck,
		now:  time.Now,
	}
}

// Begin starts dragging the slide with the given id
func (d *DragState) Begin(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.deck.IndexOf(id)
	if idx < 0 {
		return errors.New("unknown slide: " + id)
	}

	d.dragging = true
	d.sourceID = id
	d.sourceIndex = idx
	d.insertIndex = idx
	return nil
}

// Over updates the insertion index from pointer geometry while dragging.
// hoverIndex is the index of the card under the pointer, or -1 when the
// pointer is past the last card. Returns the computed insertion index.
func (d *DragState) Over(pointerX float64, hoverIndex int, rects []CardRect) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.dragging {
		return 0, ErrNotDragging
	}

	d.insertIndex = ComputeInsertIndex(pointerX, hoverIndex, rects)
	return d.insertIndex, nil
}

// InsertIndex returns the current insertion index, valid only while dragging
func (d *DragState) InsertIndex() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertIndex, d.dragging
}

// Drop commits the drag: the deck is reordered so the dragged slide lands at
// the last computed insertion index. Click suppression starts now.
func (d *DragState) Drop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.dragging {
		return ErrNotDragging
	}

	d.dragging = false
	d.droppedAt = d.now()

	// The slide may have moved since Begin; resolve its index fresh.
	from := d.deck.IndexOf(d.sourceID)
	if from < 0 {
		return errors.New("dragged slide no longer exists: " + d.sourceID)
	}
	return d.deck.Move(from, d.insertIndex)
}

// Cancel abandons the drag without reordering
func (d *DragState) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dragging = false
}

// Dragging reports whether a drag is in progress, and the dragged slide id
func (d *DragState) Dragging() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.dragging {
		return "", false
	}
	return d.sourceID, true
}

// SuppressClick reports whether a click arriving now should be ignored
// because a drop just happened
func (d *DragState) SuppressClick() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.droppedAt.IsZero() && d.now().Sub(d.droppedAt) < clickSuppressWindow
}

// ComputeInsertIndex maps pointer geometry to an insertion index. The pointer
// over the left half of a card inserts before it; over the right half,
// after it. Past the last card the slide goes to the end of the deck.
func ComputeInsertIndex(pointerX float64, hoverIndex int, rects []CardRect) int {
	if hoverIndex < 0 || hoverIndex >= len(rects) {
		return len(rects)
	}

	r := rects[hoverIndex]
	mid := (r.Left + r.Right) / 2
	if pointerX < mid {
		return hoverIndex
	}
	return hoverIndex + 1
}

// MarkerLeft returns the x position of the insertion marker for a given
// insertion index. Index 0 pins the marker to the strip's left edge; the
// end-of-deck index sits just past the last card; anything else sits just
// left of the card it would displace.
func MarkerLeft(index int, rects []CardRect) float64 {
	switch {
	case index <= 0 || len(rects) == 0:
		return 0
	case index >= len(rects):
		return rects[len(rects)-1].Right + markerEndOffset
	default:
		return rects[index].Left - markerCardOffset
	}
}
