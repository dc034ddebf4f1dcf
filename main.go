package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"clstudio/api"
	"clstudio/assist"
	"clstudio/config"
	"clstudio/db"
	"clstudio/deck"
	"clstudio/log"
	"clstudio/notifications"
	"clstudio/render"
	"clstudio/typing"
	"clstudio/workers/docs"
)

func main() {
	cfg := config.Get()

	// Initialize database
	_ = db.GetDB()

	// Core components: the deck, its drag state machine, and the typing
	// scheduler feeding frames into the event stream
	deckController := deck.NewController()
	deckController.CreateSlide()
	dragState := deck.NewDragState(deckController)

	// Frames stream as plain text; the settled final frame also carries the
	// highlighted projection so clients never render partial markup
	typist := typing.NewScheduler(typing.DefaultConfig(), func(f typing.Frame) {
		payload := struct {
			typing.Frame
			HTML string `json:"html,omitempty"`
		}{Frame: f}
		if f.Done {
			switch f.Surface {
			case api.SurfaceCode:
				payload.HTML = render.Highlight(f.Text)
			case api.SurfaceChat:
				payload.HTML = render.RichText(f.Text)
			}
		}
		notifications.GetService().NotifyTypingFrame(payload)
	})
	typist.Start()

	assembler := assist.NewAssembler()
	assembler.Start()

	docsWorker := docs.NewWorker()

	api.Init(&api.Services{
		Deck:      deckController,
		Drag:      dragState,
		Typist:    typist,
		Assembler: assembler,
		Docs:      docsWorker,
	})

	// Set Gin to release mode to disable its default debug logging;
	// requests go through the zerolog-based logger instead
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinLogger())
	r.Use(api.CORSMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/events/stream"})))

	r.SetTrustedProxies(nil)

	// Ignore .well-known requests (Chrome DevTools, etc.)
	r.GET("/.well-known/*path", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	api.SetupRoutes(r)

	// Built frontend: hashed assets cache long, HTML never
	r.GET("/assets/*filepath", serveImmutableAssets(filepath.Join(cfg.WebDist, "assets")))
	r.GET("/favicon.ico", serveStaticFile(filepath.Join(cfg.WebDist, "favicon.ico"), "image/x-icon"))

	// SPA fallback for non-API routes
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.File(filepath.Join(cfg.WebDist, "index.html"))
	})

	// Background workers
	log.Info().Msg("starting background workers")
	docsWorker.Start()

	// Expire old chat turns on startup
	if pruned, err := db.PruneChatHistory(); err == nil && pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("expired old chat history")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:     addr,
		Handler:  r,
		ErrorLog: log.StdErrorLogger(),
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	docsWorker.Stop()
	assembler.Stop()
	typist.Stop()

	// Shutdown notification service to close all SSE connections
	notifications.GetService().Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("database close error")
	}

	log.Info().Msg("server stopped")
}

// serveImmutableAssets serves content-hashed assets with a long cache
func serveImmutableAssets(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filePath := c.Param("filepath")
		if strings.Contains(filePath, "..") {
			c.Status(http.StatusForbidden)
			return
		}

		fullPath := filepath.Join(basePath, filePath)
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			c.Status(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.File(fullPath)
	}
}

// serveStaticFile serves a specific static file with daily revalidation
func serveStaticFile(filePath string, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			c.Status(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", "public, max-age=86400, must-revalidate")
		if contentType != "" {
			c.Header("Content-Type", contentType)
		}
		c.File(filePath)
	}
}
