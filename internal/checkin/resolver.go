// Package checkin resolves a scanned or typed identifier to an
// attendee of the active event and applies the at-most-once check-in
// transition.  Each call is a fresh resolution with a terminal outcome;
// no state machine is persisted between calls.
package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/mihirt/rollcall/internal/codec"
	"github.com/mihirt/rollcall/internal/model"
)

// ErrNoEventSelected is returned when a resolution is attempted without
// an active event.  The guard fires before any store access.
var ErrNoEventSelected = errors.New("checkin: no event selected")

// Outcome classifies a resolution attempt.
type Outcome int

const (
	// Success means the attendee was found not-yet-checked-in and the
	// transition was applied by this call.
	Success Outcome = iota
	// AlreadyCheckedIn means the attendee was checked in previously;
	// the call performed zero writes.
	AlreadyCheckedIn
	// NotFound means no attendee of the active event carries this
	// identifier.  A valid outcome, not an error.
	NotFound
	// Error means the store failed during lookup or update.  Callers
	// must not treat it as NotFound.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AlreadyCheckedIn:
		return "already_checked_in"
	case NotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Result carries the outcome of one resolution.  Attendee is set for
// Success and AlreadyCheckedIn, with its display fields as they were
// before any update.  CheckInTime is the transition time for Success
// and the original, unchanged timestamp for AlreadyCheckedIn.  Err
// holds the underlying cause when Outcome is Error.
type Result struct {
	Outcome     Outcome
	Attendee    *model.Attendee
	CheckInTime time.Time
	Err         error
}

// Store is the persistence surface the resolver needs.  The attendee
// repository satisfies it; tests use an in-memory fake.
type Store interface {
	// FindByEventAndPRN returns the attendee for (eventID, prn) or
	// (nil, nil) when none exists.  When the per-event uniqueness
	// invariant has been violated upstream it returns the first match.
	FindByEventAndPRN(ctx context.Context, eventID uint64, prn string) (*model.Attendee, error)
	// MarkCheckedIn atomically flips checked_in false→true and sets
	// the check-in time in one conditional update.  ok is false when
	// the record was already checked in, which is how a lost race
	// between two concurrent scans surfaces.
	MarkCheckedIn(ctx context.Context, attendeeID uint64) (t time.Time, ok bool, err error)
}

// Resolver performs code resolution against a store.  All store calls
// run under the configured timeout.
type Resolver struct {
	store   Store
	timeout time.Duration
}

// NewResolver builds a Resolver.  A non-positive timeout falls back to
// 10s.
func NewResolver(store Store, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{store: store, timeout: timeout}
}

// Resolve looks up rawCode within the given event and applies the
// check-in transition when the attendee has not been checked in yet.
// It returns ErrNoEventSelected when eventID is zero, before any store
// access.  Every other condition, including store failures, is reported
// through the Result.
//
// Resolve is safe to call redundantly for the same code: repeat calls
// after a Success yield AlreadyCheckedIn with the original timestamp
// and perform no writes, and of two concurrent calls racing on a fresh
// record exactly one observes Success.
func (r *Resolver) Resolve(ctx context.Context, eventID uint64, rawCode string) (Result, error) {
	if eventID == 0 {
		return Result{}, ErrNoEventSelected
	}
	prn, err := codec.Decode(rawCode)
	if err != nil {
		// Blank input cannot match any record; no store access needed.
		return Result{Outcome: NotFound}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	a, err := r.store.FindByEventAndPRN(ctx, eventID, prn)
	if err != nil {
		return Result{Outcome: Error, Err: err}, nil
	}
	if a == nil {
		return Result{Outcome: NotFound}, nil
	}
	if a.CheckedIn {
		res := Result{Outcome: AlreadyCheckedIn, Attendee: a}
		if a.CheckInTime != nil {
			res.CheckInTime = *a.CheckInTime
		}
		return res, nil
	}

	t, ok, err := r.store.MarkCheckedIn(ctx, a.ID)
	if err != nil {
		return Result{Outcome: Error, Err: err}, nil
	}
	if !ok {
		// Lost the race to a concurrent scan: re-read for the winning
		// timestamp and report the duplicate.
		return r.reportRaceLoss(ctx, eventID, prn, a)
	}
	return Result{Outcome: Success, Attendee: a, CheckInTime: t}, nil
}

// reportRaceLoss re-reads the record after a failed conditional update
// so the AlreadyCheckedIn result carries the timestamp written by the
// winning call.  If the re-read fails, the stale attendee is still
// returned; the outcome classification does not depend on it.
func (r *Resolver) reportRaceLoss(ctx context.Context, eventID uint64, prn string, stale *model.Attendee) (Result, error) {
	res := Result{Outcome: AlreadyCheckedIn, Attendee: stale}
	fresh, err := r.store.FindByEventAndPRN(ctx, eventID, prn)
	if err == nil && fresh != nil {
		res.Attendee = fresh
		if fresh.CheckInTime != nil {
			res.CheckInTime = *fresh.CheckInTime
		}
	}
	return res, nil
}
