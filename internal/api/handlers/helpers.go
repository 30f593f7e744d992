package handlers

import (
	"fmt"
	"time"
)

// parseScheduledTime accepts the datetime-local form format or RFC 3339.
func parseScheduledTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid scheduled_time: %q", value)
}
