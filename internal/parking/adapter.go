package parking

import "time"

// NormalizeFunc converts one city's raw API payload into the canonical
// snapshot. It returns nil when the payload is absent or missing the
// source's expected container — "no usable data this cycle", not an
// error. now supplies the capture time used wherever the source omits a
// timestamp.
//
// Implementations must be pure: no I/O, no shared state, and identical
// output for identical input (given the same now).
type NormalizeFunc func(city string, raw RawPayload, now time.Time) *Snapshot

// CaptureTime formats the fallback timestamp used when a source provides
// none of its own.
func CaptureTime(now time.Time) string {
	return now.Format(time.RFC3339)
}
