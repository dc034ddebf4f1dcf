package deck

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Controller owns the deck: the ordered slide list, the selection, and the
// per-slide generation counters that guard async summary updates. All methods
// are safe for concurrent use.
type Controller struct {
	mu        sync.RWMutex
	slides    []*Slide
	selected  string
	idCounter int
	gens      map[string]uint64
}

// Snapshot is the serializable state of a deck. It round-trips through
// project persistence: Restore(Snapshot()) reproduces the deck exactly.
type Snapshot struct {
	Slides   []Slide `json:"slides"`
	Selected string  `json:"selected"`
}

// NewController returns an empty deck with no slides selected
func NewController() *Controller {
	return &Controller{
		gens: make(map[string]uint64),
	}
}

// CreateSlide appends a new empty slide, selects it, and returns a copy.
// Slide ids come from a monotonic counter and are never reused within a
// session, even after deletions.
func (c *Controller) CreateSlide() Slide {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.idCounter++
	s := &Slide{ID: fmt.Sprintf("%s%d", slideIDPrefix, c.idCounter)}
	c.slides = append(c.slides, s)
	c.selected = s.ID
	return *s
}

// DeleteSlide removes a slide by id. If it was selected, selection moves to
// the slide now occupying its index, or the new last slide, or empty.
func (c *Controller) DeleteSlide(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	c.slides = append(c.slides[:idx], c.slides[idx+1:]...)
	delete(c.gens, id)

	if c.selected == id {
		switch {
		case len(c.slides) == 0:
			c.selected = ""
		case idx < len(c.slides):
			c.selected = c.slides[idx].ID
		default:
			c.selected = c.slides[len(c.slides)-1].ID
		}
	}
	return true
}

// Slides returns a copy of the deck in order
func (c *Controller) Slides() []Slide {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Slide, len(c.slides))
	for i, s := range c.slides {
		out[i] = *s
	}
	return out
}

// Len returns the number of slides
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slides)
}

// Get returns a copy of the slide with the given id
func (c *Controller) Get(id string) (Slide, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexOf(id); idx >= 0 {
		return *c.slides[idx], true
	}
	return Slide{}, false
}

// Select marks a slide as the current one. Unknown ids are rejected.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return false
	}
	c.selected = id
	return true
}

// Selected returns the id of the current slide, or "" when the deck is empty
func (c *Controller) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// SetCode stores code on a slide and bumps its generation counter. Any
// summary computed against an earlier generation is stale and will be
// discarded by SetSummary. Storing code clears the previous summary.
func (c *Controller) SetCode(id, code string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return 0, false
	}

	c.slides[idx].Code = code
	c.slides[idx].Summary = ""
	c.gens[id]++
	return c.gens[id], true
}

// Generation returns the current generation counter for a slide
func (c *Controller) Generation(id string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[id]
}

// SetSummary attaches a generated summary to a slide, but only if the slide
// still exists and its code has not changed since gen was observed.
func (c *Controller) SetSummary(id, text string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 || c.gens[id] != gen {
		return false
	}
	c.slides[idx].Summary = text
	return true
}

// Move reorders the deck by moving the slide at index from so that it lands
// at insertion index to. The insertion index is interpreted against the deck
// BEFORE removal, matching what the drag marker showed the user. Moving a
// slide to its own position or the gap just after it is a no-op.
func (c *Controller) Move(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.slides)
	if from < 0 || from >= n {
		return fmt.Errorf("move: source index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to > n {
		return fmt.Errorf("move: insertion index %d out of range [0,%d]", to, n)
	}
	if to == from || to == from+1 {
		return nil
	}

	s := c.slides[from]
	c.slides = append(c.slides[:from], c.slides[from+1:]...)
	if to > from {
		to--
	}
	c.slides = append(c.slides[:to], append([]*Slide{s}, c.slides[to:]...)...)
	return nil
}

// Snapshot returns a deep copy of the deck state for persistence
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{Selected: c.selected}
	snap.Slides = make([]Slide, len(c.slides))
	for i, s := range c.slides {
		snap.Slides[i] = *s
	}
	return snap
}

// Restore replaces the deck with the given snapshot. The id counter is
// resynced past the highest numeric suffix so that slides created afterwards
// never collide with restored ids. Generation counters reset; any summary
// work in flight against the old deck is thereby invalidated.
func (c *Controller) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slides = make([]*Slide, len(snap.Slides))
	c.gens = make(map[string]uint64)
	maxID := 0
	for i := range snap.Slides {
		s := snap.Slides[i]
		c.slides[i] = &s
		if n := slideIDNumber(s.ID); n > maxID {
			maxID = n
		}
	}
	c.idCounter = maxID

	c.selected = ""
	if c.indexOf(snap.Selected) >= 0 {
		c.selected = snap.Selected
	} else if len(c.slides) > 0 {
		c.selected = c.slides[0].ID
	}
}

// MarshalSnapshot serializes the current deck state to JSON
func (c *Controller) MarshalSnapshot() (string, error) {
	b, err := json.Marshal(c.Snapshot())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RestoreJSON replaces the deck from a serialized snapshot.
// Malformed data leaves the deck untouched.
func (c *Controller) RestoreJSON(data string) error {
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return fmt.Errorf("invalid deck snapshot: %w", err)
	}
	c.Restore(snap)
	return nil
}

// IndexOf returns the position of a slide in the deck, or -1
func (c *Controller) IndexOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id)
}

// indexOf requires the caller to hold c.mu
func (c *Controller) indexOf(id string) int {
	for i, s := range c.slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}
