package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var schoolYearPattern = regexp.MustCompile(`(\d{4})\s*[-–/]\s*(\d{2,4})`)

// SchoolYear is a "YYYY-YY" season spanning two calendar years
type SchoolYear struct {
	First  int
	Second int
}

// ParseSchoolYear finds the first "YYYY-YY" (or "YYYY-YYYY") occurrence in text
func ParseSchoolYear(text string) (SchoolYear, error) {
	m := schoolYearPattern.FindStringSubmatch(text)
	if m == nil {
		return SchoolYear{}, fmt.Errorf("no school year in %q", text)
	}

	first, err := strconv.Atoi(m[1])
	if err != nil {
		return SchoolYear{}, fmt.Errorf("invalid school year %q: %w", m[0], err)
	}

	second, err := strconv.Atoi(m[2])
	if err != nil {
		return SchoolYear{}, fmt.Errorf("invalid school year %q: %w", m[0], err)
	}

	if len(m[2]) == 2 {
		second += first / 100 * 100
		if second <= first {
			second += 100
		}
	}

	if second != first+1 {
		return SchoolYear{}, fmt.Errorf("school year %q does not span consecutive years", m[0])
	}

	return SchoolYear{First: first, Second: second}, nil
}

// YearFor returns the calendar year of a month in this school year.
// August through December belong to the first year, everything else to the second.
func (y SchoolYear) YearFor(month time.Month) int {
	if month >= time.August {
		return y.First
	}
	return y.Second
}

// String formats the school year as "2017-18"
func (y SchoolYear) String() string {
	return fmt.Sprintf("%d-%02d", y.First, y.Second%100)
}
