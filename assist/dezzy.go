package assist

import (
	"context"

	"clstudio/db"
	"clstudio/vendors"
)

// defaultGreeting is the user text used when a chat turn arrives empty,
// such as the first automatic hello after page load
const defaultGreeting = "Say hello and remind me you can help with CL."

const suggestionHead = "The user just copied this code to a slide:\n\n"
const suggestionTail = "\n\nGive 1-2 short suggestions for what else they could add to other slides " +
	"(e.g. related CL features or improvements). Reply in plain text only, clear English, 2-4 sentences. " +
	"No placeholders or scrambled text."

// ChatRequest is one turn of assistant conversation
type ChatRequest struct {
	Message string `json:"message"`
	// SlideCode maps slide ids to the code saved on them
	SlideCode map[string]string `json:"slideCodeContext"`
	// SuggestionRequest asks for follow-up ideas about CodeJustStored
	// instead of answering Message
	SuggestionRequest bool   `json:"suggestionRequest"`
	CodeJustStored    string `json:"codeJustStored"`
}

// BuildUserText resolves the effective user message for a chat turn.
// A suggestion request replaces the message with the suggestion template
// around the stored code; an empty result falls back to a greeting prompt.
func BuildUserText(req ChatRequest) string {
	text := req.Message
	if req.SuggestionRequest && req.CodeJustStored != "" {
		text = suggestionHead + clampRunes(req.CodeJustStored, storedCodeMaxChars) + suggestionTail
	}
	if text == "" {
		return defaultGreeting
	}
	return text
}

// Chat runs one full assistant turn: assemble context, replay recent
// history, call the model, and persist both sides of the exchange.
func Chat(ctx context.Context, a *Assembler, req ChatRequest) (string, error) {
	userText := BuildUserText(req)
	systemText := a.SystemText(req.SlideCode)

	history, err := historyTurns()
	if err != nil {
		logger.Warn().Err(err).Msg("chat history unavailable, continuing without it")
	}

	reply, err := vendors.DezzyReply(ctx, systemText, history, userText)
	if err != nil {
		return "", err
	}

	recordExchange(userText, reply)
	return reply, nil
}

// historyTurns loads the recent persisted conversation as vendor chat turns
func historyTurns() ([]vendors.ChatTurn, error) {
	messages, err := db.RecentChatMessages()
	if err != nil {
		return nil, err
	}

	turns := make([]vendors.ChatTurn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, vendors.ChatTurn{Role: m.Role, Text: m.Text})
	}
	return turns, nil
}

func recordExchange(userText, reply string) {
	if _, err := db.AppendChatMessage("user", userText); err != nil {
		logger.Error().Err(err).Msg("failed to persist user turn")
	}
	if _, err := db.AppendChatMessage("model", reply); err != nil {
		logger.Error().Err(err).Msg("failed to persist model turn")
	}
}
