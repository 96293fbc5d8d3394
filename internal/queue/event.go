// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckInConfirmedEvent is published when an attendee's check-in
// transition succeeds.  It carries enough information for downstream
// consumers (attendance dashboards, notifications) to act without
// querying the primary database.
type CheckInConfirmedEvent struct {
	MessageID   string `json:"message_id"` // uuid for consumer-side dedup
	EventID     uint64 `json:"event_id"`
	EventName   string `json:"event_name"`
	AttendeeID  uint64 `json:"attendee_id"`
	PRN         string `json:"prn"`
	Name        string `json:"name"`
	Year        string `json:"year"`
	CheckInTime string `json:"check_in_time"` // RFC 3339, UTC
}
