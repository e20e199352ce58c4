// Package recency resolves the free-form posted-time strings job boards
// emit ("3 hours ago", "January 2, 2026") into timestamps and filters out
// listings older than a configured age.
package recency

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownPolicy decides what happens to a listing whose posted time could
// not be parsed. Rejecting is the conservative default; accepting risks
// reporting stale listings but never drops a fresh one.
type UnknownPolicy string

const (
	UnknownReject UnknownPolicy = "reject"
	UnknownAccept UnknownPolicy = "accept"
)

// Outcome is the verdict of a recency check.
type Outcome int

const (
	Accept Outcome = iota
	Reject
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

var relativeRe = regexp.MustCompile(`^(\d+)\+?\s+(minute|hour|day|week)s?\s+ago$`)

// Absolute formats seen in the wild: intern-list.com spells dates out,
// LinkedIn's <time datetime> attribute is ISO.
var absoluteLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

// ParsePostedAt resolves a posted-time string against now. The relative
// grammar is tried first, then the absolute layouts. The boolean is false
// when the text fits neither.
func ParsePostedAt(text string, now time.Time) (time.Time, bool) {
	// Strip a "Posted" prefix (Workday style) case-insensitively but keep
	// the original casing: time.Parse month names are case-sensitive.
	stripped := strings.TrimSpace(text)
	if len(stripped) > 7 && strings.EqualFold(stripped[:7], "posted ") {
		stripped = strings.TrimSpace(stripped[7:])
	}

	s := strings.ToLower(stripped)
	if s == "" {
		return time.Time{}, false
	}

	switch s {
	case "just now", "moments ago", "a moment ago":
		return now, true
	case "today":
		return midnight(now), true
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), true
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		var unit time.Duration
		switch m[2] {
		case "minute":
			unit = time.Minute
		case "hour":
			unit = time.Hour
		case "day":
			unit = 24 * time.Hour
		case "week":
			unit = 7 * 24 * time.Hour
		}
		// "30+ days ago" resolves to the floor of the range.
		return now.Add(-time.Duration(n) * unit), true
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, stripped, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Filter rejects listings older than MaxAge. Unparsable posted times fall
// through to the Unknown policy.
type Filter struct {
	MaxAge  time.Duration
	Unknown UnknownPolicy
}

// Check parses text against now and returns the verdict plus the resolved
// timestamp (nil when unknown). The age boundary is inclusive: a listing
// exactly MaxAge old is accepted.
func (f Filter) Check(text string, now time.Time) (Outcome, *time.Time) {
	t, ok := ParsePostedAt(text, now)
	if !ok {
		return Unknown, nil
	}
	age := now.Sub(t)
	if age <= f.MaxAge {
		return Accept, &t
	}
	return Reject, &t
}

// Admit applies the unknown policy: Accept always passes, Reject never
// does, and Unknown passes only when the policy is accept.
func (f Filter) Admit(o Outcome) bool {
	switch o {
	case Accept:
		return true
	case Unknown:
		return f.Unknown == UnknownAccept
	default:
		return false
	}
}
