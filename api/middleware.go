package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clstudio/config"
)

// CORSMiddleware allows cross-origin requests in development, where the
// frontend dev server runs on a different port
func CORSMiddleware() gin.HandlerFunc {
	cfg := config.Get()

	return func(c *gin.Context) {
		if cfg.IsDevelopment() {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
