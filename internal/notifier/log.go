// Package notifier delivers a run's new listings to the user.
package notifier

import (
	"log/slog"

	"internscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new listings to the given logger as structured
// messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs every listing once under each matched role. Returns nil
// (stdout logging does not fail).
func (n *LogNotifier) Notify(result model.RunResult) error {
	for _, g := range result.Groups {
		for _, l := range g.Listings {
			args := []any{
				"role", g.Role,
				"title", l.Title,
				"company", l.Company,
				"location", l.Location,
				"url", l.URL,
				"source", l.Source,
			}
			if l.PostedAt != nil {
				args = append(args, "posted_at", *l.PostedAt)
			}
			n.logger.Info("new listing", args...)
		}
	}
	return nil
}
