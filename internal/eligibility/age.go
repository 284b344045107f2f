package eligibility

import (
	"strings"
	"time"

	"yogyatha-workers/internal/models"
)

// Age returns the number of completed years between dob (YYYY-MM-DD) and now.
// An empty or unparseable date yields 0.
func Age(dob string, now time.Time) int {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0
	}
	birth, err := time.Parse(models.DateLayout, dob)
	if err != nil {
		return 0
	}

	age := now.Year() - birth.Year()
	// Compare month/day pairs, not day of year, so Feb 29 birthdays do not drift.
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
