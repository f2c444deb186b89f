package changes

import (
	"github.com/rs/zerolog"

	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/pkg/datefmt"
)

// BuildChangeLinks resolves each event to the encounter whose timestamp is
// exactly equal to the event's. Events without a match are dropped and
// logged at warn level; the list and the timeline can drift apart after a
// reload, so a miss is not an error.
func BuildChangeLinks(logger zerolog.Logger, kind Kind, events []Event, tl *timeline.Timeline) []Link {
	links := make([]Link, 0, len(events))
	for _, ev := range events {
		subject := ev.Subject(kind)
		idx, ok := tl.IndexOfTimestamp(ev.Timestamp)
		if !ok {
			logger.Warn().
				Str("kind", string(kind)).
				Str("subject", subject).
				Str("timestamp", ev.Timestamp).
				Msgf("encounter not found for %s change", kind)
			continue
		}
		rec, _ := tl.At(idx)
		links = append(links, Link{
			Kind:     kind,
			Subject:  subject,
			Date:     datefmt.Format(ev.Timestamp, datefmt.Date),
			Filename: rec.Filename,
			Index:    idx,
		})
	}
	return links
}
