package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"clstudio/assist"
	"clstudio/deck"
	"clstudio/notifications"
	"clstudio/typing"
	"clstudio/vendors"
)

const (
	summarizeTimeout  = 30 * time.Second
	suggestionTimeout = 60 * time.Second
)

type deckResponse struct {
	Slides   []deck.Slide `json:"slides"`
	Selected string       `json:"selected"`
}

func currentDeck() deckResponse {
	return deckResponse{
		Slides:   services.Deck.Slides(),
		Selected: services.Deck.Selected(),
	}
}

func notifyDeckChanged() {
	notifications.GetService().NotifyDeckChanged(currentDeck())
}

// GetDeck handles GET /api/deck
func GetDeck(c *gin.Context) {
	RespondData(c, currentDeck())
}

// CreateSlide handles POST /api/deck/slides
func CreateSlide(c *gin.Context) {
	slide := services.Deck.CreateSlide()
	notifyDeckChanged()
	RespondCreated(c, slide)
}

// DeleteSlide handles DELETE /api/deck/slides/:id
func DeleteSlide(c *gin.Context) {
	id := c.Param("id")
	if !services.Deck.DeleteSlide(id) {
		RespondNotFound(c, "slide not found: "+id)
		return
	}
	notifyDeckChanged()
	RespondNoContent(c)
}

// SelectSlide handles POST /api/deck/slides/:id/select. Clicks arriving
// within the post-drop suppression window are ignored so the mouse-up that
// ends a drag never changes the selection.
func SelectSlide(c *gin.Context) {
	if services.Drag.SuppressClick() {
		RespondData(c, currentDeck())
		return
	}

	id := c.Param("id")
	if !services.Deck.Select(id) {
		RespondNotFound(c, "slide not found: "+id)
		return
	}
	notifyDeckChanged()
	RespondData(c, currentDeck())
}

type setCodeRequest struct {
	Code string `json:"code"`
}

// SetSlideCode handles PUT /api/deck/slides/:id/code: store code on a slide
// and kick off a background summary for the thumbnail. The summary lands
// only if the code has not changed again in the meantime.
func SetSlideCode(c *gin.Context) {
	id := c.Param("id")

	var req setCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}

	gen, ok := services.Deck.SetCode(id, req.Code)
	if !ok {
		RespondNotFound(c, "slide not found: "+id)
		return
	}
	notifyDeckChanged()

	if req.Code != "" {
		go summarizeSlide(id, req.Code, gen)
		go suggestForStoredCode(req.Code)
	}

	RespondData(c, currentDeck())
}

// suggestForStoredCode asks the assistant for follow-up ideas about code the
// user just stored and animates the reply onto the chat surface
func suggestForStoredCode(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), suggestionTimeout)
	defer cancel()

	slideCode := make(map[string]string)
	for _, s := range services.Deck.Slides() {
		if s.HasCode() {
			slideCode[s.ID] = s.Code
		}
	}

	reply, err := assist.Chat(ctx, services.Assembler, assist.ChatRequest{
		SuggestionRequest: true,
		CodeJustStored:    code,
		SlideCode:         slideCode,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("suggestion request failed")
		return
	}

	existing := services.Typist.Content(SurfaceChat)
	services.Typist.Enqueue(typing.AssistantJob(SurfaceChat, existing, reply))
}

// summarizeSlide produces a thumbnail caption in the background. gen pins
// the code version the summary belongs to.
func summarizeSlide(id, code string, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), summarizeTimeout)
	defer cancel()

	summary, err := vendors.SummarizeCode(ctx, code)
	if err != nil {
		logger.Warn().Err(err).Str("slide", id).Msg("slide summary failed")
		return
	}

	if !services.Deck.SetSummary(id, summary, gen) {
		logger.Debug().Str("slide", id).Msg("discarding stale slide summary")
		return
	}
	notifications.GetService().NotifySummaryUpdated(id, summary)
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ReorderDeck handles POST /api/deck/reorder: keyboard or programmatic
// reorder, same insertion semantics as a drop
func ReorderDeck(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}

	if err := services.Deck.Move(req.From, req.To); err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	notifyDeckChanged()
	RespondData(c, currentDeck())
}

// Drag endpoints drive the film strip reorder state machine. The client
// reports pointer geometry; the server owns the insertion index and marker.

type dragBeginRequest struct {
	ID string `json:"id"`
}

// DragBegin handles POST /api/deck/drag/begin
func DragBegin(c *gin.Context) {
	var req dragBeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}

	if err := services.Drag.Begin(req.ID); err != nil {
		RespondNotFound(c, err.Error())
		return
	}
	RespondNoContent(c)
}

type dragOverRequest struct {
	PointerX   float64         `json:"pointerX"`
	HoverIndex int             `json:"hoverIndex"`
	Rects      []deck.CardRect `json:"rects"`
}

type dragOverResponse struct {
	InsertIndex int     `json:"insertIndex"`
	MarkerLeft  float64 `json:"markerLeft"`
}

// DragOver handles POST /api/deck/drag/over
func DragOver(c *gin.Context) {
	var req dragOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}

	idx, err := services.Drag.Over(req.PointerX, req.HoverIndex, req.Rects)
	if err != nil {
		RespondConflict(c, err.Error())
		return
	}

	RespondData(c, dragOverResponse{
		InsertIndex: idx,
		MarkerLeft:  deck.MarkerLeft(idx, req.Rects),
	})
}

// DragDrop handles POST /api/deck/drag/drop
func DragDrop(c *gin.Context) {
	if err := services.Drag.Drop(); err != nil {
		RespondConflict(c, err.Error())
		return
	}
	notifyDeckChanged()
	RespondData(c, currentDeck())
}

// DragCancel handles POST /api/deck/drag/cancel
func DragCancel(c *gin.Context) {
	services.Drag.Cancel()
	RespondNoContent(c)
}

// Typing controls let the client steer the animation without owning it.

// TypingSkip handles POST /api/typing/skip
func TypingSkip(c *gin.Context) {
	services.Typist.SkipCurrent()
	RespondNoContent(c)
}

// TypingPause handles POST /api/typing/pause
func TypingPause(c *gin.Context) {
	services.Typist.Pause()
	RespondNoContent(c)
}

// TypingResume handles POST /api/typing/resume
func TypingResume(c *gin.Context) {
	services.Typist.Resume()
	RespondNoContent(c)
}

type surfacesResponse struct {
	Code string `json:"code"`
	Chat string `json:"chat"`
	Busy bool   `json:"busy"`
}

// GetSurfaces handles GET /api/typing/surfaces: the latest full content of
// both surfaces, for clients reconnecting mid-animation
func GetSurfaces(c *gin.Context) {
	RespondData(c, surfacesResponse{
		Code: services.Typist.Content(SurfaceCode),
		Chat: services.Typist.Content(SurfaceChat),
		Busy: services.Typist.Busy(),
	})
}
