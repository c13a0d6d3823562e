package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the day Excel's serial date 0 represents (with the
// historical 1900 leap-year bug baked in, per the long-standing convention).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var russianMonths = map[string]time.Month{
	"января": time.January, "январь": time.January,
	"февраля": time.February, "февраль": time.February,
	"марта": time.March, "март": time.March,
	"апреля": time.April, "апрель": time.April,
	"мая": time.May, "май": time.May,
	"июня": time.June, "июнь": time.June,
	"июля": time.July, "июль": time.July,
	"августа": time.August, "август": time.August,
	"сентября": time.September, "сентябрь": time.September,
	"октября": time.October, "октябрь": time.October,
	"ноября": time.November, "ноябрь": time.November,
	"декабря": time.December, "декабрь": time.December,
}

var (
	reISODate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})([T ](\d{2}):(\d{2})(:(\d{2}))?)?`)
	reDotted      = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
	reIncomplete  = regexp.MustCompile(`^\.(\d{1,2})\.(\d{2,4})$`)
	reRussianDate = regexp.MustCompile(`(\d{1,2})\s+([а-яА-ЯёЁ]+)\s+(\d{4})`)
	reAllDigits   = regexp.MustCompile(`^\d+$`)
)

// ParseDate parses a raw value (string or number) into a UTC instant.
// It returns ok=false when no recognized shape matches.
func ParseDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v.UTC(), true
	case float64:
		return parseNumericDate(v)
	case int:
		return parseNumericDate(float64(v))
	case int64:
		return parseNumericDate(float64(v))
	case string:
		return parseDateString(strings.TrimSpace(v))
	default:
		return parseDateString(strings.TrimSpace(fmt.Sprintf("%v", v)))
	}
}

func parseDateString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, min, sec := 0, 0, 0
		if m[5] != "" {
			hour, _ = strconv.Atoi(m[5])
			min, _ = strconv.Atoi(m[6])
			if m[8] != "" {
				sec, _ = strconv.Atoi(m[8])
			}
		}
		return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), true
	}

	if m := reDotted.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year := resolveTwoDigitYear(m[3])
		day, month := a, b
		if b > 12 && a <= 12 {
			day, month = b, a
		}
		hour, min, sec := 0, 0, 0
		if m[4] != "" {
			hour, _ = strconv.Atoi(m[4])
			min, _ = strconv.Atoi(m[5])
			if m[6] != "" {
				sec, _ = strconv.Atoi(m[6])
			}
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), true
	}

	if m := reIncomplete.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		year := resolveTwoDigitYear(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	}

	if m := reRussianDate.FindStringSubmatch(strings.ToLower(s)); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := russianMonths[m[2]]
		if !ok {
			return time.Time{}, false
		}
		year, _ := strconv.Atoi(m[3])
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}

	if reAllDigits.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return parseNumericDate(n)
	}

	return time.Time{}, false
}

// parseNumericDate disambiguates a bare number between an Excel serial date
// and an epoch-milliseconds timestamp, accepting whichever yields a
// plausible calendar year.
func parseNumericDate(n float64) (time.Time, bool) {
	currentYear := time.Now().UTC().Year()

	if n >= 1e11 { // epoch milliseconds
		t := time.UnixMilli(int64(n)).UTC()
		if t.Year() >= 2000 {
			return t, true
		}
		return time.Time{}, false
	}

	days := int(n)
	t := excelEpoch.AddDate(0, 0, days)
	if t.Year() >= 1990 && t.Year() <= currentYear+1 {
		return t, true
	}
	return time.Time{}, false
}

func resolveTwoDigitYear(raw string) int {
	if len(raw) == 4 {
		y, _ := strconv.Atoi(raw)
		return y
	}
	y, _ := strconv.Atoi(raw)
	if y > 70 {
		return 1900 + y
	}
	return 2000 + y
}
