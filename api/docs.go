package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clstudio/vendors"
)

// SearchDocs handles GET /api/docs/search?q=...: full text search over the
// scraped forum docs
func SearchDocs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondBadRequest(c, "missing query parameter q")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := vendors.GetMeiliClient().SearchDocs(query, limit, offset)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	RespondData(c, result)
}

// ScrapeDocs handles POST /api/docs/scrape: run one scrape pass in the
// background. The docs-updated event reports completion.
func ScrapeDocs(c *gin.Context) {
	if services.Docs == nil {
		RespondServiceUnavailable(c, "docs scraper not running")
		return
	}

	go func() {
		if err := services.Docs.ScrapeOnce(); err != nil {
			logger.Error().Err(err).Msg("manual scrape failed")
		}
	}()

	c.Status(202)
}
