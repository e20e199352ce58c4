package model

import (
	"context"
	"time"
)

// RawRecord is one listing as a source scraper found it. No field besides
// URL is guaranteed to be present or well-formed.
type RawRecord struct {
	Source      string // scraper name
	Title       string
	Company     string
	Location    string
	URL         string
	PostedText  string // free-form posted-time string ("3 hours ago", "January 2, 2026", ...)
	Description string
}

// Listing is the canonical, normalized form of a job posting.
type Listing struct {
	IdentityKey  string     `json:"identity_key"` // derived from the canonical URL; sole dedup key
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	URL          string     `json:"url"` // canonical URL
	Source       string     `json:"source"`
	PostedAt     *time.Time `json:"posted_at"` // nil when the posted time was unparsable
	MatchedRoles []string   `json:"matched_roles"`
	FirstSeen    time.Time  `json:"first_seen"` // set when the identity store first records the key
}

// RoleGroup is one target role and the new listings classified under it,
// ordered by PostedAt descending (unknown last, identity key tiebreak).
type RoleGroup struct {
	Role     string    `json:"role"`
	Listings []Listing `json:"listings"`
}

// RunResult is the role-grouped output of one run (or of a combine pass).
// Groups follow the configured role order; empty groups are omitted. A listing
// matching several roles appears under each of them.
type RunResult struct {
	Groups []RoleGroup `json:"groups"`
}

// Total returns the number of distinct listings across all groups.
func (r RunResult) Total() int {
	seen := make(map[string]struct{})
	for _, g := range r.Groups {
		for _, l := range g.Listings {
			seen[l.IdentityKey] = struct{}{}
		}
	}
	return len(seen)
}

// RunStats counts what happened to every raw record in a run. Nothing is
// dropped silently: Fetched == Dropped + NoRole + Stale + Duplicates + New
// holds for records from sources that completed.
type RunStats struct {
	Sources      int // scrapers attempted
	SourceErrors int // scrapers that failed entirely
	Fetched      int // raw records received
	Dropped      int // normalization failures (missing/invalid URL)
	NoRole       int // matched zero target roles
	Stale        int // rejected by the recency filter
	Duplicates   int // identity already in the seen store
	New          int // emitted in the RunResult
}

// SourceScraper fetches raw listings from one job source.
type SourceScraper interface {
	Name() string
	Scrape(ctx context.Context) ([]RawRecord, error)
}

// SeenStore is the durable set of listing identities seen across runs.
// Record is insert-if-absent: it returns true exactly once per key, no matter
// how many callers race on it.
type SeenStore interface {
	Record(ctx context.Context, key, source, title string, firstSeen time.Time) (bool, error)
	Purge(ctx context.Context, retention time.Duration) (int64, error)
	Close() error
}

// Notifier delivers a run's new listings to the user.
type Notifier interface {
	Notify(result RunResult) error
}
