package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Model proxies
	api.POST("/generate", Generate)
	api.POST("/summarize", Summarize)
	api.POST("/dezzy", Dezzy)

	// Deck
	api.GET("/deck", GetDeck)
	api.POST("/deck/slides", CreateSlide)
	api.DELETE("/deck/slides/:id", DeleteSlide)
	api.POST("/deck/slides/:id/select", SelectSlide)
	api.PUT("/deck/slides/:id/code", SetSlideCode)
	api.POST("/deck/reorder", ReorderDeck)

	// Drag reorder
	api.POST("/deck/drag/begin", DragBegin)
	api.POST("/deck/drag/over", DragOver)
	api.POST("/deck/drag/drop", DragDrop)
	api.POST("/deck/drag/cancel", DragCancel)

	// Typing surfaces
	api.GET("/typing/surfaces", GetSurfaces)
	api.POST("/typing/skip", TypingSkip)
	api.POST("/typing/pause", TypingPause)
	api.POST("/typing/resume", TypingResume)

	// Projects
	api.GET("/projects", ListProjects)
	api.PUT("/projects/:name", SaveProject)
	api.POST("/projects/:name/load", LoadProject)
	api.DELETE("/projects/:name", DeleteProject)

	// Scraped docs
	api.GET("/docs/search", SearchDocs)
	api.POST("/docs/scrape", ScrapeDocs)

	// Events (SSE)
	api.GET("/events/stream", EventStream)
}
