package db

import "time"

// Project is a saved deck snapshot, stored as a JSON blob keyed by name.
type Project struct {
	Name    string `json:"name"`
	Data    string `json:"data"`
	SavedAt int64  `json:"savedAt"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// DocPage is a scraped documentation page.
type DocPage struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FetchedAt int64  `json:"fetchedAt"`
}

// NowMs returns the current time as Unix milliseconds
func NowMs() int64 {
	return time.Now().UnixMilli()
}
