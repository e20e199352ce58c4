// Package inspect is the interactive diagnostic surface: it shows
// everything a source returned next to what survived normalization,
// classification, and the recency filter, with the verdict for each record.
// It is how you answer "why did this listing not show up in the report".
package inspect

import (
	"time"

	"internscout/internal/classify"
	"internscout/internal/model"
	"internscout/internal/normalize"
	"internscout/internal/recency"
)

// Drop reasons shown in the detail pane.
const (
	DropNone        = ""
	DropBadURL      = "invalid or missing URL"
	DropNoRole      = "matched no target role"
	DropStale       = "older than max age"
	DropUnknownTime = "posted time unparsable (policy: reject)"
)

// Evaluation is one raw record's trip through the pipeline stages.
type Evaluation struct {
	Raw        model.RawRecord
	Listing    model.Listing // zero value when normalization failed
	Roles      []string
	Outcome    recency.Outcome
	PostedAt   *time.Time
	DropReason string
}

// Survived reports whether the record would have reached the dedup stage.
func (e Evaluation) Survived() bool { return e.DropReason == DropNone }

// Title returns the best display title for the record.
func (e Evaluation) Title() string {
	if e.Listing.Title != "" {
		return e.Listing.Title
	}
	if e.Raw.Title != "" {
		return e.Raw.Title
	}
	return "(untitled)"
}

// Evaluate runs every record through normalize, classify, and the recency
// filter, recording the verdict at each stage. The seen store is not
// consulted: inspect is read-only diagnostics.
func Evaluate(records []model.RawRecord, classifier *classify.Classifier, filter recency.Filter, now time.Time) []Evaluation {
	evals := make([]Evaluation, 0, len(records))
	for _, rec := range records {
		e := Evaluation{Raw: rec}

		listing, err := normalize.Record(rec)
		if err != nil {
			e.DropReason = DropBadURL
			evals = append(evals, e)
			continue
		}
		e.Listing = listing

		e.Roles = classifier.Classify(listing.Title)
		e.Listing.MatchedRoles = e.Roles

		e.Outcome, e.PostedAt = filter.Check(rec.PostedText, now)
		e.Listing.PostedAt = e.PostedAt

		switch {
		case len(e.Roles) == 0:
			e.DropReason = DropNoRole
		case e.Outcome == recency.Reject:
			e.DropReason = DropStale
		case e.Outcome == recency.Unknown && !filter.Admit(recency.Unknown):
			e.DropReason = DropUnknownTime
		}

		evals = append(evals, e)
	}
	return evals
}

// Survivors filters evaluations down to the records that passed every
// stage.
func Survivors(evals []Evaluation) []Evaluation {
	var out []Evaluation
	for _, e := range evals {
		if e.Survived() {
			out = append(out, e)
		}
	}
	return out
}
