// Package recordings finds Teams call recordings. It walks users' chats and
// teams' channels through a Graph implementation, keeps the call recording
// events of the lookback window, reports each recording URL once per run and
// enriches it with the profile of the user who started the recording.
package recordings

import (
	"time"

	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// FilterRecent keeps the messages that carry an event detail and were last
// modified at or after since. The Graph client applies the same predicate
// page by page while listing messages.
func FilterRecent(messages []graph.Message, since time.Time) []graph.Message {
	var recent []graph.Message
	for _, m := range messages {
		if m.IsEventSince(since) {
			recent = append(recent, m)
		}
	}
	return recent
}

// ExtractRecordings returns the call recording event details found in messages,
// in message order.
func ExtractRecordings(messages []graph.Message) []graph.EventDetail {
	var details []graph.EventDetail
	for _, m := range messages {
		if m.EventDetail != nil && m.EventDetail.IsCallRecording() {
			details = append(details, *m.EventDetail)
		}
	}
	return details
}

// Cutoff returns the start of a lookback window of days ending at now, in UTC.
func Cutoff(now time.Time, days int) time.Time {
	return now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
}
