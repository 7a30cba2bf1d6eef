package timer

import (
	"fmt"
	"math"
	"time"
)

// maxTenths caps the tenths count so huge finite inputs stay within int64
const maxTenths = float64(1 << 62)

// FormatMillis renders a duration in milliseconds as mm:ss.t, or h:mm:ss.t once an hour has
// passed. Negative and non-finite inputs render as zero; huge inputs saturate.
func FormatMillis(ms float64) string {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		ms = 0
	}

	totalTenths := int64(math.Min(math.Floor(ms/100), maxTenths))
	tenths := totalTenths % 10
	totalSeconds := totalTenths / 10
	seconds := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%d", hours, minutes, seconds, tenths)
	}
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}

// FormatElapsed renders d with FormatMillis
func FormatElapsed(d time.Duration) string {
	return FormatMillis(float64(d) / float64(time.Millisecond))
}
