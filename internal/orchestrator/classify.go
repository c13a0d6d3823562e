package orchestrator

import (
	"context"

	"github.com/revenueguard/analyzer/internal/adapter/llmclassifier"
	"github.com/revenueguard/analyzer/internal/classify"
	"github.com/revenueguard/analyzer/internal/domain"
)

// classify runs the heuristic pre-classification over every transaction,
// then, if any remain ambiguous, invokes the LLM adapter on that subset and
// folds its decisions back in. It returns the fully classified transactions
// and the session's resulting openai-status.
func (o *Orchestrator) classify(ctx context.Context, sessionID string, transactions []domain.Transaction) ([]domain.Transaction, domain.OpenAIStatus) {
	var ambiguous []int
	for i, tx := range transactions {
		d := classify.Classify(tx.Purpose, tx.Sender)
		if d.Ambiguous {
			ambiguous = append(ambiguous, i)
			transactions[i].PossibleNonRevenue = true
			transactions[i].ClassificationSource = domain.ClassificationAgentMissing
			transactions[i].ClassificationReason = d.Reason
			continue
		}
		transactions[i].IsRevenue = d.IsRevenue
		transactions[i].ClassificationSource = domain.ClassificationHeuristic
		transactions[i].ClassificationReason = d.Reason
	}

	if len(ambiguous) == 0 {
		return transactions, domain.OpenAIStatusSkipped
	}

	if o.llm == nil {
		return transactions, domain.OpenAIStatusFailed
	}

	items := make([]llmclassifier.ReviewItem, 0, len(ambiguous))
	for _, i := range ambiguous {
		items = append(items, toReviewItem(transactions[i]))
	}

	if err := o.limiter.Wait(ctx); err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("rate limiter wait failed, proceeding without LLM review")
		return transactions, domain.OpenAIStatusFailed
	}

	decisions, err := o.llm.Classify(ctx, items, func(role, content string) error {
		return o.registry.AppendMessage(sessionID, domain.MessageRole(role), content)
	})
	if err != nil {
		o.logger.Error().Err(err).Str("session_id", sessionID).Msg("llm classifier failed")
		return transactions, domain.OpenAIStatusFailed
	}

	byID := make(map[string]llmclassifier.Decision, len(decisions))
	for _, d := range decisions {
		byID[d.ID] = d
	}

	resolved := 0
	for _, i := range ambiguous {
		d, ok := byID[transactions[i].InternalID]
		if !ok {
			// Conservative default: an ambiguous item the LLM did not cover
			// is treated as non-revenue, source agent-missing.
			continue
		}
		transactions[i].IsRevenue = d.IsRevenue
		transactions[i].ClassificationSource = domain.ClassificationAgent
		transactions[i].ClassificationReason = d.Reason
		resolved++
	}

	switch {
	case resolved == len(ambiguous):
		return transactions, domain.OpenAIStatusCompleted
	case resolved > 0:
		return transactions, domain.OpenAIStatusPartial
	default:
		return transactions, domain.OpenAIStatusPartial
	}
}

func toReviewItem(tx domain.Transaction) llmclassifier.ReviewItem {
	item := llmclassifier.ReviewItem{
		ID:            tx.InternalID,
		Amount:        tx.ParsedAmount.String(),
		Purpose:       tx.Purpose,
		Sender:        tx.Sender,
		Correspondent: tx.Correspondent,
		BIN:           tx.BIN,
	}
	if tx.ValueDate != nil {
		date := tx.ValueDate.Format("2006-01-02")
		item.Date = &date
	}
	return item
}
