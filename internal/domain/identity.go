package domain

import (
	"strconv"
	"strings"
)

// IdentityKey derives the deduplication fingerprint used as the store's
// uniqueness constraint. A source-native identifier wins when present;
// otherwise the key is the digits-only concatenation of date, time, latitude,
// and longitude. Stripping every non-digit (separators, decimal points,
// signs) is lossy but deterministic: the same timestamp and coordinates
// always collide to the same key, which is exactly the dedup behavior
// repeated polling relies on. The known cost is that sign stripping cannot
// tell symmetric-opposite coordinates apart.
func IdentityKey(ev QuakeEvent) string {
	if ev.SourceID != "" {
		return ev.SourceID
	}

	var b strings.Builder
	for _, part := range []string{ev.Date, ev.Time, formatCoord(ev.Lat), formatCoord(ev.Lon)} {
		for _, r := range part {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// formatCoord renders a coordinate with at most four fractional digits,
// matching the precision of every known listing, so key derivation does not
// depend on float formatting quirks.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
