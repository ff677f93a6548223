package utils

import (
	"fmt"
	"time"
)

// TimeAgo renders a timestamp the way the post cards show it.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return "Just now"
	}

	minutes := int(time.Since(t).Minutes())
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return t.Format("Jan 2, 2006")
}
