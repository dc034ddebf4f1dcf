package deck

import (
	"strconv"
	"strings"
)

// Slide is one card in the deck. Code is the computation layer source the
// user has stored on the slide; Summary is a short generated caption for it.
type Slide struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Summary string `json:"summary"`
}

// HasCode reports whether the slide has non-blank stored code
func (s *Slide) HasCode() bool {
	return strings.TrimSpace(s.Code) != ""
}

const slideIDPrefix = "slide-"

// slideIDNumber extracts the numeric suffix of a slide id.
// Returns -1 for ids that are not of the form "slide-N".
func slideIDNumber(id string) int {
	if !strings.HasPrefix(id, slideIDPrefix) {
		return -1
	}
	n, err := strconv.Atoi(id[len(slideIDPrefix):])
	if err != nil || n < 0 {
		return -1
	}
	return n
}
