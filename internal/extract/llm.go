package extract

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apierr "github.com/injhive/injhive/internal/errors"
)

// Intent is a structured reading of a user message, produced by the
// model-backed extractor when the regex extractors come up empty.
type Intent struct {
	Action     string            `json:"action"`
	Params     map[string]string `json:"params"`
	Confidence float64           `json:"confidence"`
}

// LLM asks a chat model to classify a message against the known actions.
// It is optional: the agent only constructs one when an API key is set.
type LLM struct {
	client *openai.Client
	model  string
}

// NewLLM builds the model-backed extractor from an OpenAI API key.
func NewLLM(apiKey string) *LLM {
	return &LLM{client: openai.NewClient(apiKey), model: openai.GPT4oMini}
}

const intentPrompt = `You classify messages to an Injective blockchain assistant.
Known actions: GET_PRICE, GET_TVL, GET_BALANCE, SHOW_PORTFOLIO, GET_WALLET_INFO,
GET_NETWORK_STATS, GET_LATEST_BLOCKS, GET_LATEST_TRANSACTIONS, TRANSFER_INJ,
TRANSFER_TOKEN, SWAP_TOKENS.
Reply with JSON only: {"action": "...", "params": {"token": "...", "amount": "...",
"address": "...", "from": "...", "to": "...", "protocol": "..."}, "confidence": 0.0}.
Omit params you cannot find. Use lowercase token symbols.`

// ParseIntent classifies text into an action with parameters.
func (l *LLM) ParseIntent(ctx context.Context, text string) (Intent, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: intentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Intent{}, apierr.Wrap(apierr.CodeAPIError, "intent classification", err)
	}
	if len(resp.Choices) == 0 {
		return Intent{}, apierr.New(apierr.CodeAPIError, "intent classification returned no choices")
	}
	var intent Intent
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return Intent{}, apierr.Wrap(apierr.CodeAPIError, "decode intent JSON", err)
	}
	if intent.Action == "" {
		return Intent{}, apierr.New(apierr.CodeDataNotAvailable, "no action recognized")
	}
	return intent, nil
}
