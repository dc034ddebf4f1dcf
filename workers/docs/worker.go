// Package docs scrapes the computation layer support forum, keeps the
// scraped pages searchable, and maintains the scraped section of the CL
// reference file the assistant reads from.
package docs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"clstudio/config"
	"clstudio/db"
	"clstudio/log"
	"clstudio/notifications"
	"clstudio/vendors"
)

var logger = log.GetLogger("DocsWorker")

// forumURLs are the forum threads worth keeping as reference material
var forumURLs = []string{
	"https://cl.desmos.com/t/computation-layer-101/8414",
	"https://cl.desmos.com/t/show-hide-a-component/2028",
	"https://cl.desmos.com/t/list-functions-in-cl/7353",
	"https://cl.desmos.com/t/numericvalue-vs-simplefunction/5528",
	"https://cl.desmos.com/t/about-the-examples-category/123",
	"https://cl.desmos.com/t/cl-newsletter-january-2020-ordering-conditional-statements/5439",
	"https://cl.desmos.com/t/desmos-demo-content-sink-providing-feedback-guess-my-number-activity/669",
}

const (
	userAgent       = "Mozilla/5.0 (compatible; CL-docs-scraper)"
	fetchTimeout    = 20 * time.Second
	scrapeInterval  = 24 * time.Hour
	minSectionChars = 200
	sectionMaxChars = 12000
	dedupSigChars   = 200

	forumHeading = "## Forum docs & tips (scraped)"
)

// Worker periodically scrapes the forum and refreshes the docs context
type Worker struct {
	client  *http.Client
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

type section struct {
	URL   string
	Title string
	Text  string
}

// NewWorker creates a docs scraper worker
func NewWorker() *Worker {
	return &Worker{
		client: &http.Client{Timeout: fetchTimeout},
		stopCh: make(chan struct{}),
	}
}

// Start launches the periodic scrape loop. The first pass runs shortly
// after startup so a fresh install gets context without waiting a day.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case <-time.After(time.Minute):
		case <-w.stopCh:
			return
		}
		w.scrapeAndLog()

		ticker := time.NewTicker(scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scrapeAndLog()
			case <-w.stopCh:
				return
			}
		}
	}()

	logger.Info().Dur("interval", scrapeInterval).Msg("docs worker started")
}

// Stop shuts the worker down
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	close(w.stopCh)
	w.wg.Wait()
	w.started = false
	logger.Info().Msg("docs worker stopped")
}

func (w *Worker) scrapeAndLog() {
	if err := w.ScrapeOnce(); err != nil {
		logger.Error().Err(err).Msg("scrape pass failed")
	}
}

// ScrapeOnce runs one full scrape pass: fetch every thread, store and index
// the usable ones, and rewrite the scraped section of the reference file.
// Pages that fail to fetch are skipped; the pass only fails when nothing at
// all could be scraped.
func (w *Worker) ScrapeOnce() error {
	sections := make([]section, 0, len(forumURLs))
	seen := make(map[string]bool)
	meili := vendors.GetMeiliClient()

	for _, url := range forumURLs {
		page, err := w.fetch(url)
		if err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
			continue
		}

		title := ExtractTitle(page)
		text := ExtractText(page)
		if len(text) < minSectionChars {
			logger.Debug().Str("url", url).Msg("too little text, skipping")
			continue
		}

		sig := text
		if len(sig) > dedupSigChars {
			sig = sig[:dedupSigChars]
		}
		if seen[sig] {
			logger.Debug().Str("url", url).Msg("duplicate content, skipping")
			continue
		}
		seen[sig] = true

		if _, err := db.UpsertDocPage(url, title, text); err != nil {
			logger.Error().Err(err).Str("url", url).Msg("failed to store page")
		}
		if err := meili.IndexDocPage(url, title, text); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("failed to index page")
		}

		sections = append(sections, section{URL: url, Title: title, Text: text})
		logger.Info().Str("url", url).Str("title", title).Int("chars", len(text)).Msg("scraped thread")
	}

	if len(sections) == 0 {
		return errors.New("no content scraped, reference file unchanged")
	}

	if err := updateForumSection(config.Get().CLDocsPath, sections); err != nil {
		return fmt.Errorf("failed to update reference file: %w", err)
	}

	notifications.GetService().NotifyDocsUpdated(len(sections))
	logger.Info().Int("threads", len(sections)).Msg("scrape pass complete")
	return nil
}

func (w *Worker) fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// buildForumBlock renders the scraped threads as one markdown section
func buildForumBlock(sections []section) string {
	parts := []string{
		"---",
		"",
		forumHeading,
		"",
		"Content below scraped from the [Computation Layer Support Forum](https://cl.desmos.com/).",
		"",
	}
	for _, s := range sections {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		text := s.Text
		truncated := ""
		if len(text) > sectionMaxChars {
			text = text[:sectionMaxChars]
			truncated = "\n\n[... truncated ...]"
		}
		parts = append(parts, fmt.Sprintf("### %s\n\nSource: %s\n\n%s%s", title, s.URL, text, truncated))
	}
	return strings.Join(parts, "\n")
}

// updateForumSection replaces the single scraped section of the reference
// file, or appends it when absent. The section is never duplicated.
func updateForumSection(path string, sections []section) error {
	block := buildForumBlock(sections)

	var out string
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		out = block
	case err != nil:
		return err
	default:
		out = spliceForumSection(string(raw), block)
	}

	return os.WriteFile(path, []byte(strings.TrimRight(out, "\n")+"\n"), 0644)
}

func spliceForumSection(raw, block string) string {
	start := strings.Index(raw, forumHeading)
	if start < 0 {
		return strings.TrimRight(raw, " \n") + "\n\n" + block
	}

	// The section runs to the next top-level heading or end of file
	after := raw[start:]
	end := len(raw)
	if next := strings.Index(after, "\n## "); next > 0 {
		end = start + next
	}

	head := strings.TrimRight(raw[:start], " \n")
	// Drop the divider that introduced the old section; the block carries
	// its own
	head = strings.TrimRight(strings.TrimSuffix(head, "---"), " \n")

	out := head + "\n\n" + block
	if end < len(raw) {
		out += "\n\n" + strings.TrimLeft(raw[end:], " \n")
	}
	return out
}
