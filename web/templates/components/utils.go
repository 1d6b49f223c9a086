package components

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// FormatRelativeTime formats a time.Time as a relative time string like "3 minutes ago"
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatGameNumber formats a saved game id with thousands separators.
func FormatGameNumber(id int64) string {
	return "#" + humanize.Comma(id)
}
