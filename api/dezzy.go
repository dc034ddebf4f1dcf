package api

import (
	"github.com/gin-gonic/gin"

	"clstudio/assist"
	"clstudio/render"
	"clstudio/typing"
	"clstudio/vendors"
)

type dezzyResponse struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Dezzy handles POST /api/dezzy: one assistant chat turn. The reply is
// animated onto the chat surface; an empty transcript is overwritten, an
// existing one is appended to.
func Dezzy(c *gin.Context) {
	var req assist.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}

	// When the caller sends no slide code, build it from the live deck
	if req.SlideCode == nil {
		req.SlideCode = make(map[string]string)
		for _, s := range services.Deck.Slides() {
			if s.HasCode() {
				req.SlideCode[s.ID] = s.Code
			}
		}
	}

	reply, err := assist.Chat(c.Request.Context(), services.Assembler, req)
	if err == vendors.ErrNoAPIKey {
		RespondServiceUnavailable(c, "GEMINI_API_KEY not configured")
		return
	}
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	existing := services.Typist.Content(SurfaceChat)
	services.Typist.Enqueue(typing.AssistantJob(SurfaceChat, existing, reply))

	RespondData(c, dezzyResponse{
		Text: reply,
		HTML: render.RichText(reply),
	})
}
