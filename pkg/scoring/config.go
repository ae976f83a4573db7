package scoring

import "time"

// Options tunes report classification and archive statistics.
type Options struct {
	// CloseMargin is the lead, in valuation points, below which a win is
	// reported as close.
	CloseMargin float64

	// RecentWindow bounds the "recent" counter in Stats.
	RecentWindow time.Duration
}
