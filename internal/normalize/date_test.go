package normalize

import (
	"testing"
	"time"
)

func TestParseDate_ISO8601(t *testing.T) {
	got, ok := ParseDate("2024-03-04")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_ISO8601WithTime(t *testing.T) {
	got, ok := ParseDate("2024-03-04T13:45:30")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 4, 13, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_DottedDDMMYYYY(t *testing.T) {
	got, ok := ParseDate("04.03.2024")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_DottedAutoSwapWhenDayExceeds12(t *testing.T) {
	// "13.03.2024" has no valid mm.dd reading; first slot > 12 forces dd.mm.
	got, ok := ParseDate("13.03.2024")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// "03.13.2024" -- first slot (03) is a valid day or month, but the
	// second slot (13) can only be a day, so it is read as mm.dd.
	got2, ok := ParseDate("03.13.2024")
	if !ok {
		t.Fatal("expected ok")
	}
	want2 := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	if !got2.Equal(want2) {
		t.Errorf("got %v, want %v", got2, want2)
	}
}

func TestParseDate_DottedWithTime(t *testing.T) {
	got, ok := ParseDate("04.03.2024 13:45")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 4, 13, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	got, ok := ParseDate("04.03.24")
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Year() != 2024 {
		t.Errorf("got year %d, want 2024", got.Year())
	}

	got2, ok := ParseDate("04.03.71")
	if !ok {
		t.Fatal("expected ok")
	}
	if got2.Year() != 1971 {
		t.Errorf("got year %d, want 1971", got2.Year())
	}
}

func TestParseDate_IncompleteMonthYear(t *testing.T) {
	got, ok := ParseDate(".03.2024")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_RussianMonthName(t *testing.T) {
	got, ok := ParseDate("15 января 2024")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	// 45000 -> 2023-03-15 under the 1899-12-30 epoch convention.
	got, ok := ParseDate(float64(45000))
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Year() < 1990 || got.Year() > time.Now().Year()+1 {
		t.Errorf("got implausible year %d", got.Year())
	}
}

func TestParseDate_EpochMilliseconds(t *testing.T) {
	ms := float64(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).UnixMilli())
	got, ok := ParseDate(ms)
	if !ok {
		t.Fatal("expected ok")
	}
	if got.Year() != 2024 || got.Month() != 3 || got.Day() != 4 {
		t.Errorf("got %v", got)
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	if _, ok := ParseDate("not a date"); ok {
		t.Error("expected not ok")
	}
	if _, ok := ParseDate(nil); ok {
		t.Error("expected not ok for nil")
	}
}
