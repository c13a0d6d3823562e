// Package aggregate computes the monthly/yearly revenue breakdown, the
// trailing-twelve-month window, and reconciliation deltas that make up a
// session's structured report.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/util"
)

var monthLabels = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Run computes the full ReportStructured for a session's classified
// transactions, sorted by date (nulls last, stable) before aggregation.
func Run(transactions []domain.Transaction, now time.Time) *domain.ReportStructured {
	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ValueDate, sorted[j].ValueDate
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return false // nulls last
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	var revenueTotal, nonRevenueTotal decimal.Decimal
	revenueByYearMonth := map[int]map[int]decimal.Decimal{}
	nonRevenueByYearMonth := map[int]map[int]decimal.Decimal{}

	stats := domain.Stats{}
	var latestRevenueDate *time.Time

	for _, tx := range sorted {
		stats.Total++
		switch tx.ClassificationSource {
		case domain.ClassificationHeuristic:
			if tx.IsRevenue {
				stats.AutoRevenue++
			}
		case domain.ClassificationAgent:
			stats.AgentReviewed++
			stats.AgentDecisions++
		case domain.ClassificationAgentMissing:
			stats.AgentReviewed++
			stats.Unresolved++
		}

		if tx.IsRevenue {
			revenueTotal = revenueTotal.Add(tx.ParsedAmount)
		} else {
			nonRevenueTotal = nonRevenueTotal.Add(tx.ParsedAmount)
		}

		if tx.ValueDate == nil || !domain.InValidDateWindow(*tx.ValueDate, now) {
			continue
		}

		year, month := tx.ValueDate.Year(), int(tx.ValueDate.Month())-1
		bucket := revenueByYearMonth
		if !tx.IsRevenue {
			bucket = nonRevenueByYearMonth
		}
		if bucket[year] == nil {
			bucket[year] = map[int]decimal.Decimal{}
		}
		bucket[year][month] = bucket[year][month].Add(tx.ParsedAmount)

		if tx.IsRevenue && (latestRevenueDate == nil || tx.ValueDate.After(*latestRevenueDate)) {
			d := *tx.ValueDate
			latestRevenueDate = &d
		}
	}

	revenueYears, revenueBucketedSum := buildYearBuckets(revenueByYearMonth)
	nonRevenueYears, nonRevenueBucketedSum := buildYearBuckets(nonRevenueByYearMonth)

	stats.RevenueReconciliation = revenueTotal.Sub(revenueBucketedSum)
	stats.NonRevenueReconciliation = nonRevenueTotal.Sub(nonRevenueBucketedSum)

	structured := &domain.ReportStructured{
		RevenueYears:    revenueYears,
		NonRevenueYears: nonRevenueYears,
		Trailing12Revenue: trailingTwelveMonths(revenueByYearMonth, latestRevenueDate, now),
		Stats:           stats,
	}
	structured.Totals.Revenue = Money(revenueTotal)
	structured.Totals.NonRevenue = Money(nonRevenueTotal)

	return structured
}

func buildYearBuckets(byYearMonth map[int]map[int]decimal.Decimal) ([]domain.YearBucket, decimal.Decimal) {
	years := make([]int, 0, len(byYearMonth))
	for y := range byYearMonth {
		years = append(years, y)
	}
	sort.Ints(years)

	sum := decimal.Zero
	buckets := make([]domain.YearBucket, 0, len(years))
	for _, y := range years {
		months := byYearMonth[y]
		monthIdxs := make([]int, 0, len(months))
		for m := range months {
			monthIdxs = append(monthIdxs, m)
		}
		sort.Ints(monthIdxs)

		yearTotal := decimal.Zero
		monthBuckets := make([]domain.MonthBucket, 0, len(monthIdxs))
		for _, m := range monthIdxs {
			total := months[m]
			yearTotal = yearTotal.Add(total)
			monthBuckets = append(monthBuckets, domain.MonthBucket{
				Month: m,
				Label: monthLabels[m],
				Total: Money(total),
			})
		}
		sum = sum.Add(yearTotal)
		buckets = append(buckets, domain.YearBucket{
			Year:   y,
			Total:  Money(yearTotal),
			Months: monthBuckets,
		})
	}
	return buckets, sum
}

// trailingTwelveMonths sums revenue over the twelve months ending at
// reference, where reference is the latest observed revenue-transaction
// date, falling back to now when there is none. The window is walked
// backward month by month with util.PreviousMonth, the same step the
// teacher's month-bucket code uses to navigate between adjacent months.
func trailingTwelveMonths(byYearMonth map[int]map[int]decimal.Decimal, latest *time.Time, now time.Time) domain.TrailingTwelveMonths {
	reference := now
	if latest != nil {
		reference = *latest
	}

	year, month := reference.Year(), int(reference.Month())
	sum := decimal.Zero
	for i := 0; i < 12; i++ {
		if months, ok := byYearMonth[year]; ok {
			sum = sum.Add(months[month-1])
		}
		year, month = util.PreviousMonth(year, month)
	}

	return domain.TrailingTwelveMonths{
		Value:              sum,
		ReferencePeriodEnd: reference,
	}
}

// Money renders a decimal into the canonical {value, formatted} pair: grouped
// integer thousands, two decimal places, trailing currency tag.
func Money(v decimal.Decimal) domain.Money {
	return domain.Money{
		Value:     v,
		Formatted: FormatCurrency(v, "KZT"),
	}
}

// FormatCurrency renders v as grouped integer thousands with two decimal
// places and a trailing currency tag, e.g. "1 234 567,89 KZT". Pure function.
func FormatCurrency(v decimal.Decimal, currency string) string {
	rounded := v.Round(2)
	negative := rounded.IsNegative()
	abs := rounded.Abs()

	whole := abs.Truncate(0)
	frac := abs.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0)

	wholeStr := whole.StringFixed(0)
	grouped := groupThousands(wholeStr)

	sign := ""
	if negative {
		sign = "-"
	}

	return fmt.Sprintf("%s%s,%02d %s", sign, grouped, frac.IntPart(), currency)
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	groups = append([]string{s}, groups...)

	out := groups[0]
	for _, g := range groups[1:] {
		out += " " + g
	}
	return out
}
