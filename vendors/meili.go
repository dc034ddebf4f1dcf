package vendors

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/meilisearch/meilisearch-go"

	"clstudio/config"
	"clstudio/log"
)

var (
	meiliClient     *MeiliClient
	meiliClientOnce sync.Once
	meiliLogger     = log.GetLogger("Meilisearch")
)

// MeiliClient wraps the Meilisearch client for the scraped docs index
type MeiliClient struct {
	client   meilisearch.ServiceManager
	index    meilisearch.IndexManager
	indexUID string
}

// DocsSearchResult represents a search over scraped docs pages
type DocsSearchResult struct {
	Hits               []DocsHit `json:"hits"`
	EstimatedTotalHits int       `json:"estimatedTotalHits"`
	Query              string    `json:"query"`
}

// DocsHit is a single scraped page matching a query
type DocsHit struct {
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Formatted map[string]string `json:"formatted,omitempty"`
}

// GetMeiliClient returns the singleton Meilisearch client, or nil when
// Meilisearch is not configured. All methods tolerate a nil receiver so
// docs search degrades to a no-op.
func GetMeiliClient() *MeiliClient {
	meiliClientOnce.Do(func() {
		cfg := config.Get()
		if cfg.MeiliHost == "" {
			meiliLogger.Warn().Msg("MEILI_HOST not configured, docs search disabled")
			return
		}

		client := meilisearch.New(cfg.MeiliHost, meilisearch.WithAPIKey(cfg.MeiliAPIKey))

		if _, err := client.Health(); err != nil {
			meiliLogger.Error().Err(err).Msg("failed to connect to Meilisearch")
			return
		}

		meiliClient = &MeiliClient{
			client:   client,
			index:    client.Index(cfg.MeiliIndex),
			indexUID: cfg.MeiliIndex,
		}

		meiliLogger.Info().Str("host", cfg.MeiliHost).Str("index", cfg.MeiliIndex).Msg("Meilisearch initialized")
	})

	return meiliClient
}

// IndexDocPage indexes one scraped page, keyed by a stable hash of its URL
func (m *MeiliClient) IndexDocPage(url, title, content string) error {
	if m == nil {
		return nil
	}

	doc := map[string]interface{}{
		"documentId": docPageID(url),
		"url":        url,
		"title":      title,
		"content":    content,
	}

	primaryKey := "documentId"
	_, err := m.index.AddDocuments([]map[string]interface{}{doc}, &meilisearch.DocumentOptions{PrimaryKey: &primaryKey})
	return err
}

// SearchDocs queries the scraped docs index
func (m *MeiliClient) SearchDocs(query string, limit, offset int) (*DocsSearchResult, error) {
	if m == nil {
		return &DocsSearchResult{Query: query}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	resp, err := m.index.Search(query, &meilisearch.SearchRequest{
		Limit:                 int64(limit),
		Offset:                int64(offset),
		AttributesToHighlight: []string{"title", "content"},
		AttributesToCrop:      []string{"content"},
		CropLength:            200,
	})
	if err != nil {
		return nil, err
	}

	result := &DocsSearchResult{
		EstimatedTotalHits: int(resp.EstimatedTotalHits),
		Query:              query,
	}

	for _, hit := range resp.Hits {
		var h map[string]interface{}
		if err := hit.DecodeInto(&h); err != nil {
			continue
		}

		docsHit := DocsHit{
			URL:     getString(h, "url"),
			Title:   getString(h, "title"),
			Content: getString(h, "content"),
		}

		if formatted, ok := h["_formatted"].(map[string]interface{}); ok {
			docsHit.Formatted = make(map[string]string)
			for k, v := range formatted {
				if s, ok := v.(string); ok {
					docsHit.Formatted[k] = s
				}
			}
		}

		result.Hits = append(result.Hits, docsHit)
	}

	return result, nil
}

// docPageID derives a Meilisearch-safe document id from a page URL
func docPageID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:16])
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
