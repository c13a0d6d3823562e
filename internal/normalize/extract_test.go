package normalize

import (
	"testing"
	"time"
)

func TestExtractDate_CanonicalKey(t *testing.T) {
	record := map[string]any{
		"id":   "s_1",
		"Date": "2024-03-04",
	}
	got, ok := ExtractDate(record)
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractDate_RussianCanonicalKey(t *testing.T) {
	record := map[string]any{
		"Дата операции": "04.03.2024",
		"purpose":        "Оплата по СФ №12",
	}
	got, ok := ExtractDate(record)
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Year() != 2024 || got.Month() != 3 || got.Day() != 4 {
		t.Errorf("got %v", got)
	}
}

func TestExtractDate_FragmentFallback(t *testing.T) {
	record := map[string]any{
		"ДатаПроводки": "05.03.2024",
		"amount":        "500000",
	}
	got, ok := ExtractDate(record)
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Day() != 5 {
		t.Errorf("got %v", got)
	}
}

func TestExtractDate_ValueScanFallback(t *testing.T) {
	record := map[string]any{
		"id":      "s_1",
		"comment": "Оплата по договору от 04.03.2024",
		"purpose": "04.03.2024",
	}
	got, ok := ExtractDate(record)
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Year() != 2024 {
		t.Errorf("got %v", got)
	}
}

func TestExtractDate_NoneFound(t *testing.T) {
	record := map[string]any{
		"id":     "s_1",
		"amount": "500000",
	}
	if _, ok := ExtractDate(record); ok {
		t.Error("expected not ok")
	}
}
