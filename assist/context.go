// Package assist assembles the context the chat assistant works from and
// orchestrates one conversation turn: docs reference material, per-slide
// code, and the rolling chat history.
package assist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"clstudio/config"
	"clstudio/log"
)

var logger = log.GetLogger("Assist")

// Character budgets for each context source. The assembled system text has
// to stay well under the model's input window even with every source full.
const (
	clDocsMaxChars     = 14000
	dezzyDocsMaxChars  = 12000
	docsFolderMaxChars = 25000
	slideCodeMaxChars  = 4000
	storedCodeMaxChars = 2000
)

// docsTextExtensions are the Docs folder files included in context.
// Other files (images, PDFs) are skipped.
var docsTextExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".json": true,
}

// Assembler caches the docs context blobs and invalidates them when the
// underlying files change
type Assembler struct {
	instructions  string
	clDocsPath    string
	dezzyDocsPath string
	docsFolder    string

	mu        sync.RWMutex
	clCache   *string
	extCache  *string
	dirCache  *string
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stoppedWg sync.WaitGroup
}

// NewAssembler builds an assembler from the global configuration
func NewAssembler() *Assembler {
	cfg := config.Get()
	return &Assembler{
		instructions:  cfg.DezzyInstructions,
		clDocsPath:    cfg.CLDocsPath,
		dezzyDocsPath: cfg.DezzyDocsPath,
		docsFolder:    cfg.DocsFolder,
	}
}

// newAssemblerForTest builds an assembler over explicit paths
func newAssemblerForTest(instructions, clDocsPath, dezzyDocsPath, docsFolder string) *Assembler {
	return &Assembler{
		instructions:  instructions,
		clDocsPath:    clDocsPath,
		dezzyDocsPath: dezzyDocsPath,
		docsFolder:    docsFolder,
	}
}

// Start begins watching the context sources so edits invalidate the cache.
// Failing to watch is not fatal; the cache just never invalidates.
func (a *Assembler) Start() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("docs watcher unavailable, context cache will not refresh")
		return
	}
	a.watcher = watcher
	a.stopCh = make(chan struct{})

	for _, dir := range []string{filepath.Dir(a.clDocsPath), filepath.Dir(a.dezzyDocsPath), a.docsFolder} {
		if dir == "" {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("not watching directory")
		}
	}

	a.stoppedWg.Add(1)
	go func() {
		defer a.stoppedWg.Done()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					a.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("docs watcher error")
			case <-a.stopCh:
				return
			}
		}
	}()

	logger.Info().Str("docsFolder", a.docsFolder).Msg("docs context watcher started")
}

// Stop shuts down the watcher
func (a *Assembler) Stop() {
	if a.watcher == nil {
		return
	}
	close(a.stopCh)
	a.watcher.Close()
	a.stoppedWg.Wait()
	a.watcher = nil
}

// Invalidate drops all cached context blobs
func (a *Assembler) Invalidate() {
	a.mu.Lock()
	a.clCache = nil
	a.extCache = nil
	a.dirCache = nil
	a.mu.Unlock()
}

// CLDocs returns the computation layer reference docs, clamped to budget
func (a *Assembler) CLDocs() string {
	return a.cached(&a.clCache, func() string {
		return readClamped(a.clDocsPath, clDocsMaxChars)
	})
}

// DezzyExtra returns the extra assistant reference notes, clamped to budget
func (a *Assembler) DezzyExtra() string {
	return a.cached(&a.extCache, func() string {
		return readClamped(a.dezzyDocsPath, dezzyDocsMaxChars)
	})
}

// DocsFolderContext concatenates the Docs folder's text files in name order,
// each under a "--- name ---" header, clamped to budget
func (a *Assembler) DocsFolderContext() string {
	return a.cached(&a.dirCache, func() string {
		return buildDocsFolderContext(a.docsFolder)
	})
}

func (a *Assembler) cached(slot **string, load func() string) string {
	a.mu.RLock()
	if *slot != nil {
		v := **slot
		a.mu.RUnlock()
		return v
	}
	a.mu.RUnlock()

	v := load()
	a.mu.Lock()
	*slot = &v
	a.mu.Unlock()
	return v
}

// SystemText assembles the full system instruction for one assistant turn:
// persona, docs references, and the user's saved per-slide code
func (a *Assembler) SystemText(slideCode map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.instructions))

	if cl := a.CLDocs(); cl != "" {
		b.WriteString("\n\nUse the following Computation Layer documentation as reference (abbreviated):\n\n")
		b.WriteString(cl)
	}
	if extra := a.DezzyExtra(); extra != "" {
		b.WriteString("\n\nAdditional reference (sites, documents, notes):\n\n")
		b.WriteString(extra)
	}
	if docs := a.DocsFolderContext(); docs != "" {
		b.WriteString("\n\nReference from Docs folder (math philosophy, style, learning objects, scope and sequence, etc.). Use these to align advice and suggestions:\n\n")
		b.WriteString(docs)
	}
	if len(slideCode) > 0 {
		blob, err := json.Marshal(slideCode)
		if err == nil {
			b.WriteString("\n\nCode the user has saved per slide (slideId -> code):\n")
			b.WriteString(clampRunes(string(blob), slideCodeMaxChars))
		}
	}

	return b.String()
}

func readClamped(path string, limit int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return clampRunes(string(data), limit)
}

func buildDocsFolderContext(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		if !docsTextExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || len(raw) == 0 {
			continue
		}
		parts = append(parts, "--- "+name+" ---\n"+string(raw))
	}
	if len(parts) == 0 {
		return ""
	}

	return clampRunes(strings.Join(parts, "\n\n"), docsFolderMaxChars)
}

func clampRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
