// Package rewriter drives text generation through an OpenAI-compatible
// chat model. It assembles the conversation for each unit, carries a short
// rolling history between calls, and degrades to the original text when
// the model cannot be reached.
package rewriter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const (
	// rewriteTemperature is the sampling temperature for rewrite and validation calls
	rewriteTemperature = 0.3
	// resolveTemperature is the sampling temperature for target identification
	resolveTemperature = 0.1
	// defaultHistoryDepth is how many history messages feed the next call
	defaultHistoryDepth = 5
	// historyEchoLimit caps how much of a reply is kept in the history
	historyEchoLimit = 100
)

const rewriteSystemPrompt = "Tu es un assistant expert en révision de documents. " +
	"Tu dois UNIQUEMENT retourner le texte modifié, sans explications, " +
	"sans commentaires, sans formatage markdown. " +
	"Préserve la structure exacte du texte (sauts de ligne, espaces, etc.)."

// Rewriter sends unit text through a chat model and tracks a rolling
// conversation history so consecutive units stay coherent.
type Rewriter struct {
	model        model.BaseChatModel
	maxRetries   uint64
	historyDepth int
	history      []*schema.Message
}

// New builds a Rewriter from the application configuration.
func New(ctx context.Context, cfg *types.Config) (*Rewriter, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "OpenAI API key required", nil)
	}

	modelCfg := &openai.ChatModelConfig{
		Model:  cfg.OpenAIModel,
		APIKey: cfg.OpenAIAPIKey,
	}
	if cfg.OpenAIBaseURL != "" {
		modelCfg.BaseURL = cfg.OpenAIBaseURL
	}
	if cfg.RequestTimeout > 0 {
		modelCfg.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}

	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "cannot create chat model", err)
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	depth := cfg.HistoryDepth
	if depth <= 0 {
		depth = defaultHistoryDepth
	}

	return &Rewriter{
		model:        chatModel,
		maxRetries:   uint64(retries),
		historyDepth: depth,
	}, nil
}

// NewWithModel builds a Rewriter around an existing chat model.
func NewWithModel(m model.BaseChatModel, maxRetries uint64) *Rewriter {
	return &Rewriter{
		model:        m,
		maxRetries:   maxRetries,
		historyDepth: defaultHistoryDepth,
	}
}

// Generate rewrites text according to instruction. contextText carries the
// preceding units, language the detected document language for corrections.
// On model failure the original text comes back unchanged so a review pass
// can keep going.
func (rw *Rewriter) Generate(ctx context.Context, instruction, text, contextText string, isCorrection bool, language string) string {
	system := rewriteSystemPrompt
	if isCorrection && language != "" {
		system += fmt.Sprintf("\nLe document est en %s. Effectue la correction dans cette langue.", language)
	}

	messages := []*schema.Message{schema.SystemMessage(system)}
	if n := len(rw.history); n > 0 {
		start := n - rw.historyDepth
		if start < 0 {
			start = 0
		}
		messages = append(messages, rw.history[start:]...)
	}
	if contextText != "" {
		messages = append(messages, schema.SystemMessage("Contexte: "+contextText))
	}
	messages = append(messages, schema.UserMessage(fmt.Sprintf("%s\n\nTexte:\n%s", instruction, text)))

	result, err := rw.call(ctx, messages, rewriteTemperature)
	if err != nil {
		logger.Warn("model call failed, keeping original text", logger.Err(err))
		return text
	}

	rw.history = append(rw.history,
		schema.UserMessage(instruction+" (paragraphe)"),
		schema.AssistantMessage(truncateEcho(result), nil))

	return result
}

// ResetHistory clears the rolling conversation history.
func (rw *Rewriter) ResetHistory() {
	rw.history = nil
}

// call runs one chat completion with exponential backoff and returns the
// trimmed reply.
func (rw *Rewriter) call(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	reply, err := backoff.RetryWithData(func() (*schema.Message, error) {
		return rw.model.Generate(ctx, messages, model.WithTemperature(temperature))
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), rw.maxRetries), ctx))
	if err != nil {
		return "", types.NewAppError(types.ErrAPICall, "chat completion failed", err)
	}
	return strings.TrimSpace(reply.Content), nil
}

// truncateEcho shortens an assistant reply before it enters the history.
func truncateEcho(s string) string {
	runes := []rune(s)
	if len(runes) <= historyEchoLimit {
		return s
	}
	return string(runes[:historyEchoLimit]) + "..."
}
