package utils

import "time"

// LastNDays returns the last n calendar days as YYYY-MM-DD strings in UTC,
// oldest first, ending with today. Used for dashboard time-series grouping.
func LastNDays(n int) []string {
	days := make([]string, 0, n)
	now := time.Now().UTC()
	for i := n - 1; i >= 0; i-- {
		days = append(days, now.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return days
}
