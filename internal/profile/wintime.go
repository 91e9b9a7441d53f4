package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadWinTime is returned for timestamps ParseWinTime cannot read.
var ErrBadWinTime = errors.New("malformed windows timestamp")

// ParseWinTime reads a Windows locale timestamp "M/D/YYYY H:MM[:SS] AM|PM".
// Any marker other than AM, including a missing one, adds 12 to the hour.
// 12 PM is not special-cased: it becomes hour 24, which rolls over to
// midnight of the following day, and 12 AM stays at hour 12.
func ParseWinTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadWinTime, s)
	}

	date, err := splitInts(fields[0], "/", 3, 3)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", ErrBadWinTime, fields[0], err)
	}
	clock, err := splitInts(fields[1], ":", 2, 3)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q: %w", ErrBadWinTime, fields[1], err)
	}

	marker := ""
	if len(fields) > 2 {
		marker = strings.ToUpper(fields[2])
	}
	hour := clock[0]
	if marker != "AM" {
		hour += 12
	}
	sec := 0
	if len(clock) == 3 {
		sec = clock[2]
	}

	month, day, year := date[0], date[1], date[2]
	return time.Date(year, time.Month(month), day, hour, clock[1], sec, 0, loc), nil
}

// splitInts splits s on sep into between minParts and maxParts integers.
func splitInts(s, sep string, minParts, maxParts int) ([]int, error) {
	parts := strings.Split(s, sep)
	if len(parts) < minParts || len(parts) > maxParts {
		return nil, fmt.Errorf("want %d to %d parts, got %d", minParts, maxParts, len(parts))
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// elapsed splits the absolute time between start and now into whole days,
// hours and minutes.
func elapsed(start, now time.Time) (days, hours, minutes int) {
	d := now.Sub(start)
	if d < 0 {
		d = -d
	}
	const day = 24 * time.Hour
	days = int(d / day)
	hours = int(d % day / time.Hour)
	minutes = int(d % time.Hour / time.Minute)
	return days, hours, minutes
}
