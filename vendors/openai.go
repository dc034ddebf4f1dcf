package vendors

import (
	"context"
	"errors"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"clstudio/config"
	"clstudio/log"
)

var logger = log.GetLogger("Vendors")

// ErrNoAPIKey is returned when a vendor call is attempted without credentials
var ErrNoAPIKey = errors.New("API key not configured")

const clSystemPrompt = `You are an expert in Desmos Activity Builder Computation Layer (CL). Output only valid CL code, no markdown code fences or extra explanation.

Rules:
- Use standard CL syntax: component names (e.g. input1, note1), when/otherwise, content, hidden, numericValue, etc.
- Write code for the screens and components the user is describing. Do NOT generate a long list of screens (e.g. screen1, screen2, ... screen20) unless the user explicitly asks for many screens.
- Prefer one or a few targeted lines (e.g. one note, one input) over repeating the same property across many screens.
- If the user says "hide" something, target that specific component or screen, not every screen.`

const summarizeSystemPrompt = "You summarize Desmos Activity Builder Computation Layer (CL) code in very short phrases for a slide thumbnail. " +
	"Reply with only the phrase: at most 8 words, no quotes, no period. " +
	"Describe what the code does (e.g. 'Note shows feedback when input submitted', 'Hide button until slider value is 5')."

const (
	generateMaxTokens   = 1024
	summarizeMaxTokens  = 60
	summarizeInputLimit = 2000
	summaryMaxLen       = 80
)

var (
	openaiClient *openai.Client
	openaiOnce   sync.Once
)

func getOpenAIClient() *openai.Client {
	openaiOnce.Do(func() {
		cfg := config.Get()
		clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			clientCfg.BaseURL = cfg.OpenAIBaseURL
		}
		openaiClient = openai.NewClientWithConfig(clientCfg)
	})
	return openaiClient
}

// GenerateCL produces computation layer code for a natural language prompt
func GenerateCL(ctx context.Context, prompt string) (string, error) {
	cfg := config.Get()
	if cfg.OpenAIAPIKey == "" {
		return "", ErrNoAPIKey
	}

	resp, err := getOpenAIClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: clSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: generateMaxTokens,
	})
	if err != nil {
		logger.Error().Err(err).Msg("code generation failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SummarizeCode produces a short thumbnail caption for stored slide code.
// The result is stripped of surrounding quotes and clamped to 80 characters.
func SummarizeCode(ctx context.Context, code string) (string, error) {
	cfg := config.Get()
	if cfg.OpenAIAPIKey == "" {
		return "", ErrNoAPIKey
	}

	resp, err := getOpenAIClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: clampRunes(code, summarizeInputLimit)},
		},
		MaxCompletionTokens: summarizeMaxTokens,
	})
	if err != nil {
		logger.Error().Err(err).Msg("summarize failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	return CleanSummary(resp.Choices[0].Message.Content), nil
}

// CleanSummary normalizes a raw model summary: trims whitespace, removes one
// pair of surrounding quotes, and clamps the length
func CleanSummary(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return clampRunes(s, summaryMaxLen)
}

func clampRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
