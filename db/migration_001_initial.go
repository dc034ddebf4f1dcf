package db

import (
	"database/sql"
)

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Initial schema: projects, chat history, scraped docs pages",
		Up:          migration001_initial,
	})
}

func migration001_initial(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chat_history (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_history_at ON chat_history(at);

		CREATE TABLE IF NOT EXISTS docs_pages (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			fetched_at INTEGER NOT NULL
		);
	`)
	return err
}
