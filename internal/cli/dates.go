package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/utils"
)

// ParseDay accepts YYYY-MM-DD, "today", "tomorrow", "yesterday", or a signed
// day offset such as "+3" or "-1", relative to today. It returns a date key.
func ParseDay(ref string, today time.Time) (string, error) {
	ref = strings.TrimSpace(strings.ToLower(ref))
	switch ref {
	case "", "today":
		return utils.DateKey(today), nil
	case "tomorrow":
		return utils.DateKey(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return utils.DateKey(today.AddDate(0, 0, -1)), nil
	}
	if strings.HasPrefix(ref, "+") || strings.HasPrefix(ref, "-") {
		n, err := strconv.Atoi(ref)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", ref)
		}
		return utils.DateKey(today.AddDate(0, 0, n)), nil
	}
	if !utils.ValidateDate(ref) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, tomorrow, or +N)", ref)
	}
	return ref, nil
}

// ParseClock parses HH:MM on day in loc.
func ParseClock(day, hhmm string, loc *time.Location) (time.Time, error) {
	if !utils.ValidateTimeFormat(hhmm) {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", hhmm)
	}
	return utils.CombineDateAndTime(day, hhmm, loc)
}
