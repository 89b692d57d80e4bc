package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDeadZoneCutoffMinutes is the end of the early-morning dead zone for
// overnight shifts, in minutes since midnight (05:00). An overnight shift is
// treated as "already ended" only between its end time and this cutoff; every
// other instant is open-able, because a worker may be opening today's
// assignment before its start or anywhere inside the overnight span.
// TODO: derive this from shift configuration instead of a fixed default.
const DefaultDeadZoneCutoffMinutes = 300

// OpenAllowed reports whether a shift with the given wall-clock start and end
// times ("HH:MM", no date) may be opened at the given instant.
//
// Same-day shifts (end >= start) may be opened any time up to and including
// the end time. Overnight shifts (end < start) are closed to opening only in
// the dead zone after the end time and before the cutoff the next morning.
func OpenAllowed(startTime, endTime string, now time.Time, deadZoneCutoffMinutes int) (bool, error) {
	startMin, err := parseWallClockMinutes(startTime)
	if err != nil {
		return false, fmt.Errorf("invalid shift start time: %w", err)
	}
	endMin, err := parseWallClockMinutes(endTime)
	if err != nil {
		return false, fmt.Errorf("invalid shift end time: %w", err)
	}

	nowMin := now.Hour()*60 + now.Minute()

	if endMin >= startMin {
		return nowMin <= endMin, nil
	}

	// Overnight shift: only the dead zone the morning after counts as "ended".
	if nowMin > endMin && nowMin < deadZoneCutoffMinutes {
		return false, nil
	}
	return true, nil
}

// parseWallClockMinutes converts "HH:MM" to minutes since midnight.
func parseWallClockMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%q is not in HH:MM form", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%q has an invalid hour", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%q has an invalid minute", s)
	}

	return hour*60 + minute, nil
}
