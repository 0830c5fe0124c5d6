package timer

import (
	"fmt"
	"time"
)

// FormatTime converts a remaining duration into a mm:ss string, rounding
// partial seconds up so a countdown reads 00:01 until it expires.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
