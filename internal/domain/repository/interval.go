package repository

import (
	"strings"
	"time"

	"StockCast/pkg/util"
)

// Interval is a sampling/forecast horizon token (e.g. "1day", "15min").
type Interval string

const (
	Interval1Min   Interval = "1min"
	Interval5Min   Interval = "5min"
	Interval15Min  Interval = "15min"
	Interval30Min  Interval = "30min"
	Interval45Min  Interval = "45min"
	Interval1H     Interval = "1h"
	Interval2H     Interval = "2h"
	Interval4H     Interval = "4h"
	Interval1Day   Interval = "1day"
	Interval1Week  Interval = "1week"
	Interval1Month Interval = "1month"
)

// Intervals lists every supported token.
var Intervals = []Interval{
	Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval45Min,
	Interval1H, Interval2H, Interval4H, Interval1Day, Interval1Week, Interval1Month,
}

// IsValidInterval reports whether s is a supported token.
func IsValidInterval(s string) bool {
	for _, iv := range Intervals {
		if string(iv) == s {
			return true
		}
	}
	return false
}

// IntervalDuration maps a token to its forecast horizon. Exact day/week/month
// tokens are matched before the "h" substring check so that "1month" does not
// fall into the hour branch; unrecognized tokens default to one day.
func IntervalDuration(token string) time.Duration {
	switch {
	case token == string(Interval1Day):
		return 24 * time.Hour
	case token == string(Interval1Week):
		return 7 * 24 * time.Hour
	case token == string(Interval1Month):
		// fixed 30-day approximation
		return 30 * 24 * time.Hour
	case strings.Contains(token, "min"):
		return time.Duration(util.LeadingInt(token, 1)) * time.Minute
	case strings.Contains(token, "h"):
		return time.Duration(util.LeadingInt(token, 1)) * time.Hour
	default:
		return 24 * time.Hour
	}
}
