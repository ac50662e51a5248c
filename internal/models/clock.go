package models

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a bare time of day, stored as seconds since midnight. Pass
// claim and return stamps carry no date, matching the legacy log format.
type ClockTime int

// ParseClockTime accepts "HH:MM" or "HH:MM:SS".
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)

	var h, m, s int
	var err error
	switch strings.Count(raw, ":") {
	case 1:
		_, err = fmt.Sscanf(raw, "%d:%d", &h, &m)
	case 2:
		_, err = fmt.Sscanf(raw, "%d:%d:%d", &h, &m, &s)
	default:
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	return ClockTime(h*3600 + m*60 + s), nil
}

// ClockTimeOf extracts the time of day from an instant.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// String renders "HH:MM:SS".
func (c ClockTime) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// SecondsUntil returns the span from c to later in seconds. A later value
// behind c means the clock wrapped past midnight; the span is clamped to
// zero rather than going negative.
func (c ClockTime) SecondsUntil(later ClockTime) int {
	d := int(later) - int(c)
	if d < 0 {
		return 0
	}
	return d
}

// MarshalText keeps clock times as "HH:MM:SS" strings in JSON.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses "HH:MM" or "HH:MM:SS".
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
