package matching

import (
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDurationMs converts a "PT#H#M#S" duration, as reported by YouTube
// contentDetails, into milliseconds. Empty or malformed input yields 0.
func ParseDurationMs(iso string) int {
	m := isoDurationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}

	var total int64
	for i, unit := range []int64{3600, 60, 1} {
		part := m[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 32)
		if err != nil {
			return 0
		}
		total += n * unit
	}

	ms := total * 1000
	if ms > int64(maxInt) {
		return 0
	}
	return int(ms)
}

const maxInt = int(^uint(0) >> 1)
