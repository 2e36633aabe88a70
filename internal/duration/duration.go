// Package duration converts "H:M:S" call durations into minutes.
package duration

import (
	"math"
	"strconv"
	"strings"

	"fire-insights-go/internal/types"
)

// HMSToMinutes returns h*60 + m + s/60 for an "H:M:S" string. The second return
// value is false when the text does not split into exactly three numeric parts
// or the total is not finite. Values are not otherwise range checked.
func HMSToMinutes(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var nums [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, false
		}
		nums[i] = v
	}
	total := nums[0]*60 + nums[1] + nums[2]/60
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, false
	}
	return total, true
}

// Derive fills DurationMin/HasDuration on every record and returns how many
// durations parsed.
func Derive(records []types.CallRecord) int {
	ok := 0
	for i := range records {
		records[i].DurationMin, records[i].HasDuration = HMSToMinutes(records[i].Duration)
		if records[i].HasDuration {
			ok++
		}
	}
	return ok
}
