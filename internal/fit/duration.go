package fit

import (
	"strconv"
	"strings"
)

// DefaultDurationSec is used whenever a step duration cannot be parsed.
// Producing a slightly-wrong file beats refusing the whole workout, so
// malformed values degrade here instead of erroring.
const DefaultDurationSec = 60

// ParseDuration normalizes a human-entered duration into whole seconds.
// Recognized forms, checked in order:
//
//	"7min", "7.5 min"  minutes, fractional allowed, truncated to seconds
//	"2:30", "12:05"    minutes:seconds
//	"90", "90.9"       plain seconds, truncated
//
// Anything else returns DefaultDurationSec. This function never fails.
func ParseDuration(raw string) int {
	switch {
	case strings.Contains(raw, "min"):
		minutes, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, "min", "")), 64)
		if err != nil {
			return DefaultDurationSec
		}
		return int(minutes * 60)

	case strings.Contains(raw, ":"):
		parts := strings.Split(raw, ":")
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return DefaultDurationSec
		}
		seconds := 0
		if len(parts) > 1 {
			seconds, err = strconv.Atoi(parts[1])
			if err != nil {
				return DefaultDurationSec
			}
		}
		return minutes*60 + seconds

	default:
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return DefaultDurationSec
		}
		return int(seconds)
	}
}
