// Package llmclassifier adapts the Anthropic Claude API for agent review of
// transactions the heuristic classifier left ambiguous.
package llmclassifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

// ReviewItem is one ambiguous transaction reduced to the fields the model
// needs to decide revenue vs non-revenue.
type ReviewItem struct {
	ID            string  `json:"id"`
	Date          *string `json:"date,omitempty"`
	Amount        string  `json:"amount"`
	Purpose       string  `json:"purpose"`
	Sender        string  `json:"sender"`
	Correspondent string  `json:"correspondent"`
	BIN           string  `json:"bin,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

// Decision is the model's verdict for one reviewed item.
type Decision struct {
	ID        string `json:"id"`
	IsRevenue bool   `json:"-"`
	Reason    string `json:"reason"`
}

// rawDecision accepts the legacy key spellings the extractor/LLM may emit:
// is_revenue, isRevenue, revenue (bool), or label == "revenue" (string).
type rawDecision struct {
	ID        string `json:"id"`
	IsRevenue *bool  `json:"is_revenue"`
	IsRevenueCamel *bool `json:"isRevenue"`
	Revenue   *bool  `json:"revenue"`
	Label     string `json:"label"`
	Reason    string `json:"reason"`
}

func (r rawDecision) resolveIsRevenue() bool {
	switch {
	case r.IsRevenue != nil:
		return *r.IsRevenue
	case r.IsRevenueCamel != nil:
		return *r.IsRevenueCamel
	case r.Revenue != nil:
		return *r.Revenue
	case strings.EqualFold(r.Label, "revenue"):
		return true
	default:
		return false
	}
}

// Classifier calls the LLM with a batch of ambiguous transactions and
// returns decisions, persisting both the outgoing prompt and the reply as
// messages via the supplied sink.
type Classifier struct {
	client    *anthropic.Client
	model     string
	timeout   time.Duration
	limiter   *rate.Limiter
	maxTokens int
}

// MessageSink persists a single conversational turn in strict causal order.
type MessageSink func(role string, content string) error

const systemPolicy = `You are a financial analyst classifying bank transactions as revenue or non-revenue for a business.
Respond with ONLY a JSON array of objects: [{"id": "<transaction id>", "is_revenue": <bool>, "reason": "<short reason>"}].
Do not include any other text. Every id you were given must appear exactly once in your response.`

// New constructs a Classifier. limiter throttles the rate at which calls to
// the API start across all sessions (a shared *rate.Limiter, not one per
// call). maxRetries
// is handed straight to the SDK client, which retries transient failures
// (rate limits, 5xx, timeouts) with its own backoff before giving up.
func New(apiKey, model string, timeout time.Duration, limiter *rate.Limiter, maxRetries int) *Classifier {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &Classifier{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(maxRetries)),
		model:     model,
		timeout:   timeout,
		limiter:   limiter,
		maxTokens: 8192,
	}
}

// Classify sends items for review and returns the model's decisions. It does
// not retry on semantic failure (missing ids); the caller resolves any
// uncovered items deterministically.
func (c *Classifier) Classify(ctx context.Context, items []ReviewItem, persist MessageSink) ([]Decision, error) {
	if len(items) == 0 {
		return nil, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode review items: %w", err)
	}
	prompt := fmt.Sprintf("transactions_for_review = %s", string(payload))

	if persist != nil {
		if err := persist("user", prompt); err != nil {
			return nil, fmt.Errorf("failed to persist prompt message: %w", err)
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPolicy}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := c.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			reply.WriteString(block.Text)
		}
	}
	replyText := reply.String()

	if persist != nil {
		if err := persist("assistant", replyText); err != nil {
			return nil, fmt.Errorf("failed to persist assistant message: %w", err)
		}
	}

	return parseDecisions(replyText)
}

// parseDecisions recovers a JSON array of decisions from the model's reply,
// tolerating surrounding prose the way pdfextractor tolerates log noise.
func parseDecisions(reply string) ([]Decision, error) {
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start < 0 || end < start {
		return nil, fmt.Errorf("unparseable LLM response: no JSON array found")
	}

	var raws []rawDecision
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raws); err != nil {
		return nil, fmt.Errorf("unparseable LLM response: %w", err)
	}

	decisions := make([]Decision, 0, len(raws))
	for _, r := range raws {
		if r.ID == "" {
			continue
		}
		decisions = append(decisions, Decision{
			ID:        r.ID,
			IsRevenue: r.resolveIsRevenue(),
			Reason:    r.Reason,
		})
	}
	return decisions, nil
}
