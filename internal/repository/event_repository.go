package repository

import (
	"context"
	"database/sql"

	"github.com/mihirt/rollcall/internal/model"
)

// EventRepo provides data access to the events table.  Deleting an
// event cascades over its attendees inside a single transaction so a
// well-formed delete never leaves orphaned attendee records.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event and returns it with its generated id and
// server-assigned creation timestamp populated.
func (r *EventRepo) Create(ctx context.Context, name, date, description string) (*model.Event, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (name, event_date, description) VALUES (?, ?, ?)`,
		name, date, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID returns the event with the given id or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var (
		e    model.Event
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, event_date, description, created_at FROM events WHERE id = ?`,
		id).Scan(&e.ID, &e.Name, &e.Date, &desc, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	return &e, nil
}

// List returns all events ordered by creation time, newest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, event_date, description, created_at
           FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var (
			e    model.Event
			desc sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &desc, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Description = desc.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteCascade removes an event and all of its attendee records.  The
// attendee rows go first, then the event row, all inside one
// transaction, so the caller observes either the full cascade or no
// change at all.  It returns the number of attendee rows removed, or
// ErrEventNotFound when the event does not exist.
func (r *EventRepo) DeleteCascade(ctx context.Context, id uint64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? FOR UPDATE`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return 0, ErrEventNotFound
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM attendees WHERE event_id = ?`, id)
	if err != nil {
		return 0, err
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return removed, nil
}
