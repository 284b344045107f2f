package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	now := date(2025, time.June, 15)

	tests := []struct {
		name     string
		dob      string
		now      time.Time
		expected int
	}{
		{"birthday today", "2000-06-15", now, 25},
		{"birthday tomorrow", "2000-06-16", now, 24},
		{"birthday yesterday", "2000-06-14", now, 25},
		{"birthday earlier in year", "2000-01-01", now, 25},
		{"birthday later in year", "2000-12-31", now, 24},
		{"born this year", "2025-01-10", now, 0},
		{"surrounding whitespace", " 1990-06-15 ", now, 35},
		{"empty", "", now, 0},
		{"garbage", "not-a-date", now, 0},
		{"wrong separator", "2000/06/15", now, 0},
		{"impossible date", "2001-02-29", now, 0},
		{"leap birthday before feb 29 in non-leap year", "2004-02-29", date(2025, time.February, 28), 20},
		{"leap birthday after feb in non-leap year", "2004-02-29", date(2025, time.March, 1), 21},
		{"leap birthday on leap day", "2004-02-29", date(2024, time.February, 29), 20},
		{"leap birthday day before leap day", "2004-02-29", date(2024, time.February, 28), 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Age(tt.dob, tt.now))
		})
	}
}

func TestAge_AnniversaryBoundary(t *testing.T) {
	now := date(2025, time.June, 15)
	for n := 1; n <= 80; n += 7 {
		onAnniversary := now.AddDate(-n, 0, 0).Format("2006-01-02")
		dayBefore := now.AddDate(-n, 0, 1).Format("2006-01-02")

		assert.Equal(t, n, Age(onAnniversary, now), "dob %s", onAnniversary)
		assert.Equal(t, n-1, Age(dayBefore, now), "dob %s", dayBefore)
	}
}
