package utils

import (
	"time"
)

// BuildChartCacheKey keys a rendered dashboard chart by its owner and
// date filter so each (user, range) pair caches independently.
func BuildChartCacheKey(userID string, from, to *time.Time) string {
	f := ""
	if from != nil {
		f = from.UTC().Format("2006-01-02")
	}
	t := ""
	if to != nil {
		t = to.UTC().Format("2006-01-02")
	}

	return "chart:v1:user=" + userID +
		":from=" + f +
		":to=" + t
}
