// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// Catalog event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CatalogEvent is published after every successful catalog mutation.  It
// carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type CatalogEvent struct {
	Entity     string `json:"entity"`      // movie | genre | director
	Action     string `json:"action"`      // created | updated | deleted
	ID         uint64 `json:"id"`          // entity primary key
	Name       string `json:"name"`        // movie title / genre name / director full name
	OccurredAt string `json:"occurred_at"` // UTC timestamp, RFC3339
}
