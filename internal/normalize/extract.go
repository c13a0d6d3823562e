package normalize

import (
	"strconv"
	"strings"
	"time"
)

// datePriorityKeys lists canonical key spellings (normalized to lowercase,
// trimmed) checked in order before falling back to a value-scan.
var datePriorityKeys = []string{
	"date", "operation date", "payment date", "transaction date", "value date",
	"дата", "дата операции", "дата платежа", "дата проводки", "датаоперации",
}

// internalMarkerKeys are excluded from the value-scan fallback: they carry
// identifiers or metadata, never dates.
var internalMarkerKeys = map[string]bool{
	"id": true, "internal_id": true, "internalid": true,
	"bin": true, "amount": true, "raw_amount": true,
	"__typename": true, "type": true,
}

// ExtractDate locates the value-date within a free-form transaction record,
// trying canonical keys first, then keys containing the "та" fragment, then
// every remaining field as a last resort.
func ExtractDate(record map[string]any) (time.Time, bool) {
	normalized := make(map[string]any, len(record))
	for k, v := range record {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	for _, key := range datePriorityKeys {
		if v, ok := normalized[key]; ok {
			if t, ok := ParseDate(v); ok {
				return t, true
			}
		}
	}

	for k, v := range normalized {
		if strings.Contains(k, "та") {
			if t, ok := ParseDate(v); ok {
				return t, true
			}
		}
	}

	now := time.Now().UTC()
	minYear, maxYear := 2000, now.Year()+2
	for k, v := range normalized {
		if internalMarkerKeys[k] {
			continue
		}
		switch v.(type) {
		case string, float64, int, int64:
		default:
			continue
		}
		t, ok := ParseDate(v)
		if !ok {
			continue
		}
		if t.Year() >= minYear && t.Year() <= maxYear {
			return t, true
		}
	}

	return time.Time{}, false
}

// ExtractString looks up the first of keys (case/space-insensitive) present
// in record and returns its value coerced to a trimmed string.
func ExtractString(record map[string]any, keys ...string) (string, bool) {
	normalized := make(map[string]any, len(record))
	for k, v := range record {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	for _, key := range keys {
		v, ok := normalized[key]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed, true
			}
		case float64, int, int64:
			return NormalizeText(toString(s)), true
		}
	}
	return "", false
}

// amountPriorityKeys lists canonical key spellings for a transaction's raw
// amount field, checked in order.
var amountPriorityKeys = []string{
	"amount", "raw_amount", "sum", "summa", "сумма", "сумма операции",
}

// ExtractAmount locates the raw amount field within a transaction record.
func ExtractAmount(record map[string]any) (any, bool) {
	normalized := make(map[string]any, len(record))
	for k, v := range record {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for _, key := range amountPriorityKeys {
		if v, ok := normalized[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
