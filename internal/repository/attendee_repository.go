package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mihirt/rollcall/internal/model"
)

// AttendeeRepo provides data access to the attendees table.  It
// satisfies both the roster importer's store interface (Probe, Exists,
// Create) and the check-in resolver's (FindByEventAndPRN,
// MarkCheckedIn).  All timestamps are stored and compared in UTC.
type AttendeeRepo struct {
	db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the given database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

const attendeeCols = `id, event_id, prn, name, email, mobile, year, payload, checked_in, check_in_time, created_at`

// scanAttendee reads one attendee row from a *sql.Row or *sql.Rows via
// the common Scan signature.
func scanAttendee(scan func(dest ...any) error) (*model.Attendee, error) {
	var (
		a   model.Attendee
		cit sql.NullTime
	)
	if err := scan(&a.ID, &a.EventID, &a.PRN, &a.Name, &a.Email, &a.Mobile,
		&a.Year, &a.Payload, &a.CheckedIn, &cit, &a.CreatedAt); err != nil {
		return nil, err
	}
	if cit.Valid {
		t := cit.Time
		a.CheckInTime = &t
	}
	return &a, nil
}

// Probe performs one lightweight read to verify the database is
// reachable.  The importer calls it before committing any row.
func (r *AttendeeRepo) Probe(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

// Exists reports whether an attendee with this PRN is already persisted
// for the event.
func (r *AttendeeRepo) Exists(ctx context.Context, eventID uint64, prn string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM attendees WHERE event_id = ? AND prn = ? LIMIT 1`,
		eventID, prn).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new attendee record and populates its generated id
// and server-assigned creation timestamp.  CheckedIn and CheckInTime
// are left at their column defaults (false, NULL).
func (r *AttendeeRepo) Create(ctx context.Context, a *model.Attendee) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attendees (event_id, prn, name, email, mobile, year, payload)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.EventID, a.PRN, a.Name, a.Email, a.Mobile, a.Year, a.Payload)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM attendees WHERE id = ?`, a.ID).Scan(&a.CreatedAt)
}

// FindByEventAndPRN returns the attendee for (eventID, prn) or
// (nil, nil) when none exists.  The per-event uniqueness constraint
// guarantees at most one well-formed match; should the invariant have
// been violated out-of-band, the lowest id wins and no error is raised.
func (r *AttendeeRepo) FindByEventAndPRN(ctx context.Context, eventID uint64, prn string) (*model.Attendee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attendeeCols+` FROM attendees
          WHERE event_id = ? AND prn = ? ORDER BY id LIMIT 1`,
		eventID, prn)
	a, err := scanAttendee(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// MarkCheckedIn applies the one-way check-in transition as a single
// conditional update guarded by the row's current state: the UPDATE
// only matches while checked_in is still 0, so of two concurrent
// attempts exactly one flips the row.  ok is false when the guard did
// not match, i.e. the attendee was already checked in.  Both columns
// change in the same statement, so checked_in=1 with a NULL
// check_in_time can never be observed.
func (r *AttendeeRepo) MarkCheckedIn(ctx context.Context, attendeeID uint64) (time.Time, bool, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`UPDATE attendees SET checked_in = 1, check_in_time = ?
          WHERE id = ? AND checked_in = 0`,
		now, attendeeID)
	if err != nil {
		return time.Time{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, false, err
	}
	if n == 0 {
		return time.Time{}, false, nil
	}
	return now, true, nil
}

// GetByID returns the attendee with the given id or ErrAttendeeNotFound.
func (r *AttendeeRepo) GetByID(ctx context.Context, id uint64) (*model.Attendee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attendeeCols+` FROM attendees WHERE id = ?`, id)
	a, err := scanAttendee(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAttendeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByEvent returns the attendees of an event ordered by PRN.  When
// checkedIn is non-nil the list is filtered to that check-in state.
func (r *AttendeeRepo) ListByEvent(ctx context.Context, eventID uint64, checkedIn *bool) ([]model.Attendee, error) {
	q := `SELECT ` + attendeeCols + ` FROM attendees WHERE event_id = ?`
	args := []any{eventID}
	if checkedIn != nil {
		q += ` AND checked_in = ?`
		args = append(args, *checkedIn)
	}
	q += ` ORDER BY prn`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendees := make([]model.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows.Scan)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attendees, nil
}

// Stats returns the total attendee count and how many are checked in
// for an event.
func (r *AttendeeRepo) Stats(ctx context.Context, eventID uint64) (total, checked int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(checked_in), 0)
           FROM attendees WHERE event_id = ?`,
		eventID).Scan(&total, &checked)
	return total, checked, err
}
