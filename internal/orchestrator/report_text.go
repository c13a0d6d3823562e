package orchestrator

import (
	"fmt"
	"strings"

	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/util"
)

// renderReportText renders structured as human-readable text. Apart from
// the "(current or future month)" marker, which compares each month with
// the current date via util.IsHistoricalMonth, the output depends on
// structured alone; it is derived from report-structured, never the other
// way around.
func renderReportText(structured *domain.ReportStructured) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Revenue total: %s\n", structured.Totals.Revenue.Formatted)
	fmt.Fprintf(&b, "Non-revenue total: %s\n", structured.Totals.NonRevenue.Formatted)
	fmt.Fprintf(&b, "Trailing 12 months revenue (through %s): %s\n",
		structured.Trailing12Revenue.ReferencePeriodEnd.Format("2006-01-02"),
		structured.Trailing12Revenue.Value.StringFixed(2))

	for _, year := range structured.RevenueYears {
		fmt.Fprintf(&b, "\n%d revenue: %s\n", year.Year, year.Total.Formatted)
		for _, month := range year.Months {
			marker := ""
			if !util.IsHistoricalMonth(year.Year, month.Month+1) {
				marker = " (current or future month)"
			}
			fmt.Fprintf(&b, "  %s: %s%s\n", month.Label, month.Total.Formatted, marker)
		}
	}

	s := structured.Stats
	fmt.Fprintf(&b, "\nTransactions: %d total, %d auto-revenue, %d agent-reviewed (%d decided, %d unresolved)\n",
		s.Total, s.AutoRevenue, s.AgentReviewed, s.AgentDecisions, s.Unresolved)
	if !s.RevenueReconciliation.IsZero() {
		fmt.Fprintf(&b, "Revenue reconciliation delta: %s\n", s.RevenueReconciliation.StringFixed(2))
	}
	if !s.NonRevenueReconciliation.IsZero() {
		fmt.Fprintf(&b, "Non-revenue reconciliation delta: %s\n", s.NonRevenueReconciliation.StringFixed(2))
	}

	return b.String()
}
