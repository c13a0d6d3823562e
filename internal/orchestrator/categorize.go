package orchestrator

import (
	"path/filepath"
	"strings"

	"github.com/revenueguard/analyzer/internal/domain"
)

// taxMarkers identify PDFs that carry tax/declaration documents rather than
// bank statements, matched case-insensitively against the original filename.
var taxMarkers = []string{
	"налог", "tax", "декларац", "declaration", "кнд",
}

// financialMarkers identify PDFs that carry financial statements (balance
// sheets, income statements) rather than bank transaction history.
var financialMarkers = []string{
	"баланс", "balance sheet", "отчет о доходах", "income statement",
	"финанс", "financial statement", "p&l",
}

func isPDF(name, mime string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf") || strings.EqualFold(mime, "application/pdf")
}

// categorizeNonPDF classifies a non-PDF upload: every XLSX, image, and ZIP
// is `financial` regardless of filename (§4.1 step 3).
func categorizeNonPDF() domain.FileCategory {
	return domain.FileCategoryFinancial
}

// categorizePDF classifies a PDF by filename marker: tax documents and
// financial statements are distinguished from ordinary bank statements.
func categorizePDF(name string) domain.FileCategory {
	lower := strings.ToLower(name)
	if containsAny(lower, taxMarkers) {
		return domain.FileCategoryTaxes
	}
	if containsAny(lower, financialMarkers) {
		return domain.FileCategoryFinancial
	}
	return domain.FileCategoryStatements
}

func containsAny(haystack string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}
