package api

import (
	"github.com/gin-gonic/gin"

	"clstudio/render"
	"clstudio/typing"
	"clstudio/vendors"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Code string `json:"code"`
	HTML string `json:"html"`
}

// Generate handles POST /api/generate: turn a natural language prompt into
// computation layer code, then animate it onto the code surface
func Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		RespondBadRequest(c, "missing or invalid prompt")
		return
	}

	code, err := vendors.GenerateCL(c.Request.Context(), req.Prompt)
	if err == vendors.ErrNoAPIKey {
		RespondServiceUnavailable(c, "OPENAI_API_KEY not configured")
		return
	}
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	services.Typist.Enqueue(typing.CodeJob(SurfaceCode, code))

	RespondData(c, generateResponse{
		Code: code,
		HTML: render.Highlight(code),
	})
}

type summarizeRequest struct {
	Code string `json:"code"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize handles POST /api/summarize: produce a short thumbnail caption
// for a block of code
func Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid JSON body")
		return
	}
	if req.Code == "" {
		RespondBadRequest(c, "missing code")
		return
	}

	summary, err := vendors.SummarizeCode(c.Request.Context(), req.Code)
	if err == vendors.ErrNoAPIKey {
		RespondServiceUnavailable(c, "OPENAI_API_KEY not configured")
		return
	}
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	RespondData(c, summarizeResponse{Summary: summary})
}
