// Package classify implements the deterministic keyword-based
// pre-classification of transactions into revenue / non-revenue / ambiguous
// buckets, ahead of any LLM review of the ambiguous remainder.
package classify

import "strings"

// Source records whether a decision was reached by the heuristic rules
// or still requires agent review.
type Source string

const (
	SourceHeuristic    Source = "heuristic"
	SourceAgentRequired Source = "agent-required"
)

// Decision is the outcome of classifying one transaction's text.
type Decision struct {
	IsRevenue bool
	Ambiguous bool
	Source    Source
	Reason    string
}

// terminalDepositMarkers identify self-service cash-in terminal deposits,
// which dominate every other rule (§4.2 rule 2).
var terminalDepositMarkers = []string{
	"cash in",
	"терминал id",
	"наличность в терминалах",
	"пополнение через терминал",
	"cash-in",
	"терминал №",
}

// nonRevenueMarkers catch loans, refunds, internal transfers, and other
// money movements that are never operating revenue (§4.2 rule 3).
var nonRevenueMarkers = []string{
	"кредит", "credit", "займ", "loan",
	"возврат", "refund", "refunded",
	"собственные средства", "own transfer", "перевод между своими",
	"депозит", "deposit",
	"дивиденд", "dividend",
	"зарплата", "salary", "заработная плата",
	"налог", "tax",
	"штраф", "penalty", "пеня",
	"пополнение счета по карте", // card-to-own-account top-up, not a sale
}

// revenueMarkers catch unambiguous signs of a commercial sale (§4.2 rule 4).
var revenueMarkers = []string{
	"оплата", "payment",
	"счет на оплату", "счёт на оплату", "счет-фактур", "счёт-фактур", "invoice",
	"договор", "contract",
	"поставка", "delivery",
	"продажа", "sale",
	"услуги", "services",
	"маркетплейс", "marketplace",
	"wildberries", "ozon", "kaspi",
}

// topUpOrTransferMarkers are weaker signals that need LLM context unless a
// terminal marker already fired (§4.2 rule 5).
var topUpOrTransferMarkers = []string{
	"пополнение", "top-up", "topup",
	"перевод", "transfer",
}

// Classify partitions a transaction's (purpose, sender) text per the closed,
// ordered rule set. Matching is case-insensitive and substring-based.
func Classify(purpose, sender string) Decision {
	p := strings.ToLower(purpose)
	s := strings.ToLower(sender)
	combined := p + " " + s

	if strings.TrimSpace(purpose) == "" && strings.TrimSpace(sender) == "" {
		return Decision{Ambiguous: true, Source: SourceAgentRequired, Reason: "no text"}
	}

	if containsAny(combined, terminalDepositMarkers) {
		return Decision{IsRevenue: false, Source: SourceHeuristic, Reason: "terminal self-deposit"}
	}

	if containsAny(combined, nonRevenueMarkers) {
		return Decision{IsRevenue: false, Source: SourceHeuristic, Reason: "non-revenue marker"}
	}

	if containsAny(p, revenueMarkers) {
		return Decision{IsRevenue: true, Source: SourceHeuristic, Reason: "revenue marker"}
	}

	if containsAny(p, topUpOrTransferMarkers) {
		return Decision{Ambiguous: true, Source: SourceAgentRequired, Reason: "needs context"}
	}

	return Decision{Ambiguous: true, Source: SourceAgentRequired, Reason: "no explicit markers"}
}

func containsAny(haystack string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}
