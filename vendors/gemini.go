package vendors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"google.golang.org/genai"

	"clstudio/config"
)

const dezzyMaxTokens = 1024

// ChatTurn is one turn of assistant conversation context.
// Role is "user" or "model".
type ChatTurn struct {
	Role string
	Text string
}

var (
	geminiClient *genai.Client
	geminiOnce   sync.Once
	geminiErr    error
)

func getGeminiClient(ctx context.Context) (*genai.Client, error) {
	geminiOnce.Do(func() {
		cfg := config.Get()
		geminiClient, geminiErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return geminiClient, geminiErr
}

// quotaPattern matches errors that mean the model's quota is exhausted
// rather than the request being bad
var quotaPattern = regexp.MustCompile(`(?i)quota|RESOURCE_EXHAUSTED|rate.?limit|\b429\b`)

func isQuotaError(err error) bool {
	return err != nil && quotaPattern.MatchString(err.Error())
}

// DezzyReply sends one assistant turn to Gemini. The system text carries the
// persona plus assembled docs context; history is replayed ahead of the new
// user message. On quota exhaustion the configured fallback model is tried
// once before giving up.
func DezzyReply(ctx context.Context, systemText string, history []ChatTurn, userText string) (string, error) {
	cfg := config.Get()
	if cfg.GeminiAPIKey == "" {
		return "", ErrNoAPIKey
	}

	cli, err := getGeminiClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: userText}},
	})

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemText}}},
		MaxOutputTokens:   dezzyMaxTokens,
	}

	resp, err := cli.Models.GenerateContent(ctx, cfg.GeminiModel, contents, genCfg)
	if isQuotaError(err) && cfg.GeminiFallbackModel != "" && cfg.GeminiFallbackModel != cfg.GeminiModel {
		logger.Warn().
			Str("model", cfg.GeminiModel).
			Str("fallback", cfg.GeminiFallbackModel).
			Msg("quota exhausted, retrying with fallback model")
		resp, err = cli.Models.GenerateContent(ctx, cfg.GeminiFallbackModel, contents, genCfg)
	}
	if err != nil {
		logger.Error().Err(err).Msg("dezzy reply failed")
		return "", err
	}

	return extractReply(resp)
}

func extractReply(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		reason := ""
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = " Block reason: " + string(resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("model returned no reply." + reason)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", errors.New("model returned an empty candidate")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
