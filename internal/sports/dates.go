package sports

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"schoolhub/backend/internal/models"
)

var (
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})\b`)
	leadingDigits      = regexp.MustCompile(`^\d{1,2}`)
	clockPattern       = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?\s*m\b\.?)?`)
)

var monthPrefixes = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ParseMonthDay reads a year-less date such as "Oct 5", "Tue, Oct 5", "October 5",
// "Sept. 12" or "10/5". Ranges like "Oct 5-6" resolve to their first day.
func ParseMonthDay(text string) (time.Month, int, error) {
	text = cleanText(text)
	if text == "" {
		return 0, 0, fmt.Errorf("empty date")
	}

	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return 0, 0, fmt.Errorf("invalid date %q", text)
		}
		return time.Month(month), day, nil
	}

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.'
	})
	for i, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		month, ok := monthPrefixes[strings.ToLower(tok[:3])]
		if !ok || i+1 >= len(tokens) {
			continue
		}
		digits := leadingDigits.FindString(tokens[i+1])
		if digits == "" {
			continue
		}
		day, _ := strconv.Atoi(digits)
		if day < 1 || day > 31 {
			return 0, 0, fmt.Errorf("invalid day in %q", text)
		}
		return month, day, nil
	}

	return 0, 0, fmt.Errorf("unrecognized date %q", text)
}

// ParseClock reads "3:30 PM", "3:30pm", "3 p.m." or "15:30". ok is false for
// "TBA", "TBD", empty cells and anything else without a usable time.
func ParseClock(text string) (hour, minute int, ok bool) {
	text = cleanText(text)
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch strings.ToLower(m[3]) {
	case "a":
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 12 {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ResolveDate combines a year-less date cell and an optional time cell into an
// instant in loc, taking the calendar year from the school year. Missing or
// unparseable times resolve to midnight.
func ResolveDate(year models.SchoolYear, dateText, timeText string, loc *time.Location) (time.Time, error) {
	month, day, err := ParseMonthDay(dateText)
	if err != nil {
		return time.Time{}, err
	}

	calendarYear := year.YearFor(month)
	hour, minute, _ := ParseClock(timeText)

	t := time.Date(calendarYear, month, day, hour, minute, 0, 0, loc)
	if t.Month() != month {
		return time.Time{}, fmt.Errorf("%s %d does not exist in %d", month, day, calendarYear)
	}
	return t, nil
}
