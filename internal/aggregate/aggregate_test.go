package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revenueguard/analyzer/internal/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234567.89", "1 234 567,89 KZT"},
		{"0", "0,00 KZT"},
		{"-500", "-500,00 KZT"},
		{"999", "999,00 KZT"},
		{"1000", "1 000,00 KZT"},
	}
	for _, tt := range tests {
		v, _ := decimal.NewFromString(tt.in)
		if got := FormatCurrency(v, "KZT"); got != tt.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRun_EndToEndScenarioOne(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{
			InternalID: "a_1", ParsedAmount: decimal.NewFromInt(500000),
			ValueDate: date(2024, 3, 4), IsRevenue: true,
			ClassificationSource: domain.ClassificationHeuristic,
		},
		{
			InternalID: "a_2", ParsedAmount: decimal.NewFromInt(1200000),
			ValueDate: date(2024, 3, 15), IsRevenue: true,
			ClassificationSource: domain.ClassificationHeuristic,
		},
		{
			InternalID: "a_3", ParsedAmount: decimal.NewFromInt(50000),
			ValueDate: date(2024, 4, 2), IsRevenue: false,
			ClassificationSource: domain.ClassificationHeuristic,
		},
		{
			InternalID: "b_1", ParsedAmount: decimal.NewFromInt(750000),
			ValueDate: date(2024, 4, 18), IsRevenue: true,
			ClassificationSource: domain.ClassificationHeuristic,
		},
	}

	structured := Run(txs, now)

	wantRevenue := decimal.NewFromInt(2450000)
	if !structured.Totals.Revenue.Value.Equal(wantRevenue) {
		t.Errorf("revenue total = %s, want %s", structured.Totals.Revenue.Value, wantRevenue)
	}
	wantNonRevenue := decimal.NewFromInt(50000)
	if !structured.Totals.NonRevenue.Value.Equal(wantNonRevenue) {
		t.Errorf("non-revenue total = %s, want %s", structured.Totals.NonRevenue.Value, wantNonRevenue)
	}
	if structured.Stats.AutoRevenue != 3 {
		t.Errorf("autoRevenue = %d, want 3", structured.Stats.AutoRevenue)
	}
	if structured.Stats.AgentReviewed != 0 {
		t.Errorf("agentReviewed = %d, want 0", structured.Stats.AgentReviewed)
	}

	var march, april decimal.Decimal
	for _, y := range structured.RevenueYears {
		if y.Year != 2024 {
			continue
		}
		for _, m := range y.Months {
			switch m.Month {
			case 2: // March, 0-indexed
				march = m.Total.Value
			case 3: // April
				april = m.Total.Value
			}
		}
	}
	if !march.Equal(decimal.NewFromInt(1700000)) {
		t.Errorf("march total = %s, want 1700000", march)
	}
	if !april.Equal(decimal.NewFromInt(750000)) {
		t.Errorf("april total = %s, want 750000", april)
	}
}

func TestRun_ExcludesOutOfWindowDatesFromBucketsButNotTotals(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{InternalID: "u_1", ParsedAmount: decimal.NewFromInt(100), IsRevenue: true, ClassificationSource: domain.ClassificationHeuristic},
		{InternalID: "u_2", ParsedAmount: decimal.NewFromInt(200), ValueDate: date(1999, 1, 1), IsRevenue: true, ClassificationSource: domain.ClassificationHeuristic},
	}
	structured := Run(txs, now)
	if !structured.Totals.Revenue.Value.Equal(decimal.NewFromInt(300)) {
		t.Errorf("revenue total = %s, want 300", structured.Totals.Revenue.Value)
	}
	if len(structured.RevenueYears) != 0 {
		t.Errorf("expected no year buckets for undated/out-of-window transactions, got %+v", structured.RevenueYears)
	}
	if !structured.Stats.RevenueReconciliation.Equal(decimal.NewFromInt(300)) {
		t.Errorf("reconciliation delta = %s, want 300", structured.Stats.RevenueReconciliation)
	}
}
