package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money pairs a decimal value with its locale-stable formatted string.
type Money struct {
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

// MonthBucket is one month's total within a YearBucket.
type MonthBucket struct {
	Month int   `json:"month"` // 0..11
	Label string `json:"label"`
	Total Money `json:"total"`
}

// YearBucket aggregates a year's total and its month buckets.
type YearBucket struct {
	Year   int           `json:"year"`
	Total  Money         `json:"total"`
	Months []MonthBucket `json:"months"`
}

// TrailingTwelveMonths is the trailing-12-month revenue window.
type TrailingTwelveMonths struct {
	Value            decimal.Decimal `json:"value"`
	ReferencePeriodEnd time.Time     `json:"referencePeriodEnd"`
}

// Stats summarizes classification and reconciliation outcomes.
type Stats struct {
	Total                   int             `json:"total"`
	AutoRevenue             int             `json:"autoRevenue"`
	AgentReviewed           int             `json:"agentReviewed"`
	AgentDecisions          int             `json:"agentDecisions"`
	Unresolved              int             `json:"unresolved"`
	RevenueReconciliation   decimal.Decimal `json:"revenueReconciliationDelta"`
	NonRevenueReconciliation decimal.Decimal `json:"nonRevenueReconciliationDelta"`
}

// ReportStructured is the canonical machine form of a session's report;
// ReportText is rendered as a pure function of this value.
type ReportStructured struct {
	Totals struct {
		Revenue    Money `json:"revenue"`
		NonRevenue Money `json:"nonRevenue"`
	} `json:"totals"`
	RevenueYears       []YearBucket         `json:"revenueYears"`
	NonRevenueYears    []YearBucket         `json:"nonRevenueYears"`
	Trailing12Revenue  TrailingTwelveMonths `json:"trailing12MonthsRevenue"`
	Stats              Stats                `json:"stats"`
}

// Report is the terminal artifact of a session.
type Report struct {
	SessionID    string            `json:"sessionId"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Structured   *ReportStructured `json:"structured"`
	Text         string            `json:"text"`
}
