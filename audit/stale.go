package audit

import "time"

// DefaultWindow is the freshness window: a document reviewed within this
// span of the current date is not due for review.
const DefaultWindow = 30 * 24 * time.Hour

// IsStale reports whether a document is due for review. A document with no
// review date (ok false) is always stale. Otherwise it is stale iff
// strictly more than the window has elapsed; exactly the window is still
// fresh. Both times are expected to be midnight-UTC calendar dates, which
// keeps the boundary deterministic.
func IsStale(reviewed time.Time, ok bool, now time.Time, window time.Duration) bool {
	if !ok {
		return true
	}
	return now.Sub(reviewed) > window
}
