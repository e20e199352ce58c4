// Package normalize converts raw scraped records into canonical listings
// with a stable identity key derived from the listing URL.
package normalize

import (
	"net/url"
	"sort"
	"strings"

	"internscout/internal/model"
)

// Query parameters that never distinguish one posting from another.
var trackingParams = map[string]bool{
	"ref":        true,
	"refid":      true,
	"trk":        true,
	"trackingid": true,
	"gclid":      true,
	"fbclid":     true,
	"msclkid":    true,
	"mc_cid":     true,
	"mc_eid":     true,
	"mkt_tok":    true,
}

func isTrackingParam(key string) bool {
	lk := strings.ToLower(key)
	return strings.HasPrefix(lk, "utm_") || trackingParams[lk]
}

// Record converts a RawRecord into a canonical Listing. It is pure: the only
// failure mode is a missing or unparsable URL, returned as a
// *model.NormalizationError so the caller can count the drop.
func Record(rec model.RawRecord) (model.Listing, error) {
	canonical, err := CanonicalURL(rec.URL)
	if err != nil {
		if nerr, ok := err.(*model.NormalizationError); ok {
			nerr.Source = rec.Source
			nerr.Title = rec.Title
		}
		return model.Listing{}, err
	}

	return model.Listing{
		IdentityKey: IdentityKey(canonical),
		Title:       CleanText(rec.Title),
		Company:     CleanText(rec.Company),
		Location:    CleanText(rec.Location),
		URL:         canonical,
		Source:      rec.Source,
	}, nil
}

// CanonicalURL rewrites a listing URL into its canonical form: https assumed
// for schemeless URLs, scheme and host lower-cased, fragment removed, tracking
// query parameters stripped, remaining query encoded deterministically, and
// the trailing slash removed. Idempotent: CanonicalURL(CanonicalURL(u))
// returns CanonicalURL(u) unchanged.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &model.NormalizationError{Reason: model.ReasonMissingURL}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &model.NormalizationError{Reason: model.ReasonInvalidURL}
	}

	// Scrapers occasionally emit bare host+path links ("x.com/job/1").
	// url.Parse reads those as a relative path, so reparse with a scheme.
	if u.Host == "" && u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil || u.Host == "" {
			return "", &model.NormalizationError{Reason: model.ReasonInvalidURL}
		}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		if isTrackingParam(k) {
			q.Del(k)
		}
	}
	// Sorted values make Encode deterministic for repeated keys.
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// IdentityKey derives the dedup key from a canonical URL: host + path
// (+ "?" + query when present), lower-cased. The scheme is excluded so the
// http and https variants of the same posting share one key.
func IdentityKey(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil || u.Host == "" {
		return strings.ToLower(canonical)
	}
	key := u.Host + u.Path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return strings.ToLower(key)
}

// CleanText replaces non-breaking spaces, collapses runs of whitespace to a
// single space, and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
