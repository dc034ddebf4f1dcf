package db

import (
	"fmt"
)

// UpsertDocPage inserts or refreshes a scraped docs page keyed by URL
func UpsertDocPage(url, title, content string) (*DocPage, error) {
	p := &DocPage{
		URL:       url,
		Title:     title,
		Content:   content,
		FetchedAt: NowMs(),
	}

	_, err := GetDB().Exec(`
		INSERT INTO docs_pages (url, title, content, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			fetched_at = excluded.fetched_at
	`, p.URL, p.Title, p.Content, p.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert docs page %q: %w", url, err)
	}

	return p, nil
}

// ListDocPages returns all scraped docs pages, most recently fetched first
func ListDocPages() ([]DocPage, error) {
	rows, err := GetDB().Query(
		"SELECT url, title, content, fetched_at FROM docs_pages ORDER BY fetched_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list docs pages: %w", err)
	}
	defer rows.Close()

	var pages []DocPage
	for rows.Next() {
		var p DocPage
		if err := rows.Scan(&p.URL, &p.Title, &p.Content, &p.FetchedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}
