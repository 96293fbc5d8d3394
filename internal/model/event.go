package model

import "time"

// Event is a check-in event owned by the operator team.  Every attendee
// record belongs to exactly one event and all roster imports and code
// lookups are scoped to one active event.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the event; never empty.
//  Date        – free-form date string supplied by the organizer,
//                may be empty.
//  Description – optional long-form description.
//  CreatedAt   – timestamp when the record was created.
type Event struct {
	ID          uint64    // events.id
	Name        string    // events.name
	Date        string    // events.event_date
	Description string    // events.description
	CreatedAt   time.Time // events.created_at
}
