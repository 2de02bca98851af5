package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses a clock timecode such as "01:02:03.456", "1:02:03,456" or "02:03.456".
// Fractions longer than milliseconds are truncated.
func ParseClock(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timecode")
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed timecode %q", value)
	}

	var hours int
	if len(parts) == 3 {
		h, err := parseDigits(parts[0])
		if err != nil {
			return 0, fmt.Errorf("malformed hours in %q: %w", value, err)
		}
		hours = h
		parts = parts[1:]
	}

	minutes, err := parseDigits(parts[0])
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("malformed minutes in %q", value)
	}

	seconds, millis, err := parseSeconds(parts[1])
	if err != nil || seconds > 59 {
		return 0, fmt.Errorf("malformed seconds in %q", value)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// ParseTimeExpression parses the time expressions found in XML caption formats:
// clock values ("0:00:01.500"), offsets with a unit ("1.5s", "1500ms", "2m", "1h")
// and bare seconds ("1.5").
func ParseTimeExpression(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty time expression")
	}
	if strings.Contains(value, ":") {
		return ParseClock(value)
	}

	unit := time.Second
	number := value
	switch {
	case strings.HasSuffix(value, "ms"):
		unit = time.Millisecond
		number = strings.TrimSuffix(value, "ms")
	case strings.HasSuffix(value, "s"):
		number = strings.TrimSuffix(value, "s")
	case strings.HasSuffix(value, "m"):
		unit = time.Minute
		number = strings.TrimSuffix(value, "m")
	case strings.HasSuffix(value, "h"):
		unit = time.Hour
		number = strings.TrimSuffix(value, "h")
	}

	f, err := strconv.ParseFloat(number, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("malformed time expression %q", value)
	}
	return time.Duration(f * float64(unit)).Round(time.Millisecond), nil
}

// FormatTimestamp renders d as a canonical "HH:MM:SS,mmm" timecode.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}

// parseSeconds parses "SS", "SS.fff" or "SS,fff"
func parseSeconds(s string) (int, int, error) {
	whole, frac, hasFrac := strings.Cut(strings.ReplaceAll(s, ",", "."), ".")
	seconds, err := parseDigits(whole)
	if err != nil {
		return 0, 0, err
	}
	if !hasFrac {
		return seconds, 0, nil
	}
	if frac == "" {
		return 0, 0, fmt.Errorf("empty fraction")
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	millis, err := parseDigits(frac)
	if err != nil {
		return 0, 0, err
	}
	return seconds, millis, nil
}
