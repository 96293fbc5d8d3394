package model

import "time"

// Attendee is one roster entry scoped to an event.  The (EventID, PRN)
// pair is unique within an event; the PRN is the roster-supplied
// identifier, not globally unique across events.  An attendee is created
// by a roster import with CheckedIn=false and transitions to
// CheckedIn=true exactly once, at which point CheckInTime is set.
// CheckedIn=true without a CheckInTime (or the inverse) is invalid and
// never produced by this codebase.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – owning event; cascade-deleted with it.
//  PRN         – roster-supplied identifier, unique per event.
//  Name        – attendee display name; never empty.
//  Email       – contact email, format not validated upstream.
//  Mobile      – contact number, stored as text.
//  Year        – cohort/year label from the roster.
//  Payload     – scannable identifier payload, derived from PRN once
//                at import time and never regenerated.
//  CheckedIn   – whether the one-way check-in transition happened.
//  CheckInTime – when it happened; nil until then.
//  CreatedAt   – timestamp when the record was created; immutable.
type Attendee struct {
	ID          uint64     // attendees.id
	EventID     uint64     // attendees.event_id
	PRN         string     // attendees.prn
	Name        string     // attendees.name
	Email       string     // attendees.email
	Mobile      string     // attendees.mobile
	Year        string     // attendees.year
	Payload     string     // attendees.payload
	CheckedIn   bool       // attendees.checked_in
	CheckInTime *time.Time // attendees.check_in_time
	CreatedAt   time.Time  // attendees.created_at
}
