package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationSource records how a transaction's revenue/non-revenue
// decision was reached.
type ClassificationSource string

const (
	ClassificationHeuristic    ClassificationSource = "heuristic"
	ClassificationAgent        ClassificationSource = "agent"
	ClassificationAgentMissing ClassificationSource = "agent-missing"
)

// Transaction is one credit-side entry extracted from a statement.
type Transaction struct {
	InternalID           string               `json:"id"`
	SessionID            string               `json:"sessionId"`
	RawAmount            string               `json:"rawAmount"`
	ParsedAmount         decimal.Decimal      `json:"parsedAmount"`
	ValueDate            *time.Time           `json:"valueDate,omitempty"`
	Purpose              string               `json:"purpose"`
	Sender               string               `json:"sender"`
	Correspondent        string               `json:"correspondent"`
	BIN                  string               `json:"bin,omitempty"`
	IsRevenue            bool                 `json:"isRevenue"`
	ClassificationSource ClassificationSource `json:"classificationSource"`
	ClassificationReason string               `json:"classificationReason"`
	PossibleNonRevenue   bool                 `json:"possibleNonRevenue"`
}

// MinValueDate and MaxValueDateSkew bound a plausible value-date (§3 invariant).
var MinValueDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const MaxValueDateSkew = 3 * 24 * time.Hour

// InValidDateWindow reports whether t falls in [2000-01-01, now+3d].
func InValidDateWindow(t time.Time, now time.Time) bool {
	return !t.Before(MinValueDate) && !t.After(now.Add(MaxValueDateSkew))
}
