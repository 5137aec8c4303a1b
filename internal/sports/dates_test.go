package sports

import (
	"testing"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthDay(t *testing.T) {
	tests := []struct {
		text  string
		month time.Month
		day   int
	}{
		{"Oct 5", time.October, 5},
		{"Tue, Oct 5", time.October, 5},
		{"October 5", time.October, 5},
		{"Sept. 12", time.September, 12},
		{"10/5", time.October, 5},
		{"3/02", time.March, 2},
		{"Oct 5-6", time.October, 5},
		{"Fri Mar 2nd", time.March, 2},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			month, day, err := ParseMonthDay(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.day, day)
		})
	}
}

func TestParseMonthDay_Invalid(t *testing.T) {
	for _, text := range []string{"", "TBA", "13/40", "Oct", "Oct 45"} {
		_, _, err := ParseMonthDay(text)
		assert.Error(t, err, text)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		text   string
		hour   int
		minute int
		ok     bool
	}{
		{"3:30 PM", 15, 30, true},
		{"3:30pm", 15, 30, true},
		{"3 p.m.", 15, 0, true},
		{"12:00 AM", 0, 0, true},
		{"12:15 PM", 12, 15, true},
		{"15:30", 15, 30, true},
		{"7:00 PM PDT", 19, 0, true},
		{"TBA", 0, 0, false},
		{"", 0, 0, false},
		{"25:00", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			hour, minute, ok := ParseClock(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestResolveDate_SchoolYear(t *testing.T) {
	year, err := models.ParseSchoolYear("2017-18")
	require.NoError(t, err)

	fall, err := ResolveDate(year, "Oct 5", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2017, fall.Year())

	spring, err := ResolveDate(year, "Mar 2", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2018, spring.Year())
	assert.Equal(t, time.March, spring.Month())
	assert.Equal(t, 2, spring.Day())
}

func TestResolveDate_WithTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	year := models.SchoolYear{First: 2017, Second: 2018}

	got, err := ResolveDate(year, "Oct 5", "7:00 PM", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.October, 5, 19, 0, 0, 0, loc), got)

	tba, err := ResolveDate(year, "Oct 5", "TBA", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.October, 5, 0, 0, 0, 0, loc), tba)
}

func TestResolveDate_RejectsMissingDay(t *testing.T) {
	year := models.SchoolYear{First: 2017, Second: 2018}

	_, err := ResolveDate(year, "Feb 29", "", time.UTC)
	assert.Error(t, err)

	leap := models.SchoolYear{First: 2019, Second: 2020}
	got, err := ResolveDate(leap, "Feb 29", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day())
}
