// Package merge turns a run's candidate listings into the final
// deduplicated, role-grouped result, and combines historical run snapshots
// into one globally deduplicated collection.
package merge

import (
	"context"
	"sort"
	"time"

	"internscout/internal/model"
)

// Run gates candidates through the seen store and groups the survivors by
// role. It returns the result, the number of duplicates dropped, and an
// error when the store fails — in which case nothing may be emitted, since
// without the store there is no duplicate guarantee.
//
// Candidates are sorted by (identity key, source) first so the winner of a
// cross-source collision does not depend on scraper completion order.
func Run(ctx context.Context, candidates []model.Listing, st model.SeenStore, now time.Time, roleOrder []string) (model.RunResult, int, error) {
	sorted := make([]model.Listing, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].IdentityKey != sorted[j].IdentityKey {
			return sorted[i].IdentityKey < sorted[j].IdentityKey
		}
		return sorted[i].Source < sorted[j].Source
	})

	var survivors []model.Listing
	duplicates := 0
	for _, l := range sorted {
		isNew, err := st.Record(ctx, l.IdentityKey, l.Source, l.Title, now)
		if err != nil {
			return model.RunResult{}, 0, &model.StoreError{Op: "record", Err: err}
		}
		if !isNew {
			duplicates++
			continue
		}
		l.FirstSeen = now
		survivors = append(survivors, l)
	}

	return group(survivors, roleOrder), duplicates, nil
}

// Combine merges listings drawn from any number of run snapshots into one
// deduplicated grouped collection. It never touches the live store: the
// snapshots carry identity key and first-seen themselves. When the same
// identity appears in several snapshots the earliest FirstSeen wins.
// Idempotent: combining the output of a combine changes nothing.
func Combine(listings []model.Listing, roleOrder []string) model.RunResult {
	sorted := make([]model.Listing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].IdentityKey != sorted[j].IdentityKey {
			return sorted[i].IdentityKey < sorted[j].IdentityKey
		}
		if !sorted[i].FirstSeen.Equal(sorted[j].FirstSeen) {
			return sorted[i].FirstSeen.Before(sorted[j].FirstSeen)
		}
		return sorted[i].Source < sorted[j].Source
	})

	var unique []model.Listing
	for _, l := range sorted {
		if n := len(unique); n > 0 && unique[n-1].IdentityKey == l.IdentityKey {
			continue
		}
		unique = append(unique, l)
	}

	return group(unique, roleOrder)
}

// Flatten returns every listing of a result exactly once. Snapshots persist
// this flat form; Combine takes it back in.
func Flatten(r model.RunResult) []model.Listing {
	seen := make(map[string]bool)
	var out []model.Listing
	for _, g := range r.Groups {
		for _, l := range g.Listings {
			if seen[l.IdentityKey] {
				continue
			}
			seen[l.IdentityKey] = true
			out = append(out, l)
		}
	}
	return out
}

// group partitions listings into one group per matched role. A listing
// matching several roles appears under each of them: grouping is a view,
// not a partition. Groups follow roleOrder; roles present in the listings
// but absent from roleOrder (combine across config changes) are appended
// alphabetically. Within a group listings are ordered by PostedAt
// descending, unknown timestamps last, identity key as the tiebreak.
func group(listings []model.Listing, roleOrder []string) model.RunResult {
	byRole := make(map[string][]model.Listing)
	for _, l := range listings {
		for _, role := range l.MatchedRoles {
			byRole[role] = append(byRole[role], l)
		}
	}

	ordered := make([]string, 0, len(byRole))
	known := make(map[string]bool, len(roleOrder))
	for _, role := range roleOrder {
		known[role] = true
		if len(byRole[role]) > 0 {
			ordered = append(ordered, role)
		}
	}
	var extra []string
	for role := range byRole {
		if !known[role] {
			extra = append(extra, role)
		}
	}
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	var result model.RunResult
	for _, role := range ordered {
		ls := byRole[role]
		sort.Slice(ls, func(i, j int) bool {
			pi, pj := ls[i].PostedAt, ls[j].PostedAt
			switch {
			case pi == nil && pj == nil:
				// fall through to the tiebreak
			case pi == nil:
				return false
			case pj == nil:
				return true
			case !pi.Equal(*pj):
				return pi.After(*pj)
			}
			return ls[i].IdentityKey < ls[j].IdentityKey
		})
		result.Groups = append(result.Groups, model.RoleGroup{Role: role, Listings: ls})
	}
	return result
}
