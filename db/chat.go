package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// chatHistoryWindow is how far back persisted turns are considered current
	chatHistoryWindow = 24 * time.Hour
	// chatHistoryMaxTurns caps how many persisted turns are replayed
	chatHistoryMaxTurns = 30
)

// AppendChatMessage persists one conversation turn
func AppendChatMessage(role, text string) (*ChatMessage, error) {
	m := &ChatMessage{
		ID:   uuid.New().String(),
		Role: role,
		Text: text,
		At:   NowMs(),
	}

	_, err := GetDB().Exec(
		"INSERT INTO chat_history (id, role, text, at) VALUES (?, ?, ?, ?)",
		m.ID, m.Role, m.Text, m.At,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}

	return m, nil
}

// RecentChatMessages returns up to chatHistoryMaxTurns messages from the last
// 24 hours, oldest first.
func RecentChatMessages() ([]ChatMessage, error) {
	cutoff := time.Now().Add(-chatHistoryWindow).UnixMilli()

	rows, err := GetDB().Query(`
		SELECT id, role, text, at FROM (
			SELECT id, role, text, at FROM chat_history
			WHERE at >= ?
			ORDER BY at DESC
			LIMIT ?
		) ORDER BY at ASC
	`, cutoff, chatHistoryMaxTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Text, &m.At); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// PruneChatHistory deletes messages older than the history window
func PruneChatHistory() (int64, error) {
	cutoff := time.Now().Add(-chatHistoryWindow).UnixMilli()

	res, err := GetDB().Exec("DELETE FROM chat_history WHERE at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune chat history: %w", err)
	}

	return res.RowsAffected()
}

// ClearChatHistory deletes all persisted conversation turns
func ClearChatHistory() error {
	_, err := GetDB().Exec("DELETE FROM chat_history")
	return err
}
