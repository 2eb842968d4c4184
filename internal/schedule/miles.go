package schedule

import (
	"regexp"
	"strconv"
)

var milesRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mi`)

// ExtractMiles returns the first distance in miles found in a workout text,
// e.g. "6 mi + 6×20s hill strides" -> 6. Texts without a distance yield 0.
func ExtractMiles(workout string) float64 {
	match := milesRegex.FindStringSubmatch(workout)
	if len(match) < 2 {
		return 0
	}
	miles, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return miles
}

// IsOff reports whether the workout text denotes a rest day.
func IsOff(workout string) bool {
	return workout == OffWorkout
}
