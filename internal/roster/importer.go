package roster

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mihirt/rollcall/internal/model"
)

// Store is the narrow persistence surface the importer needs.  The
// attendee repository satisfies it; tests use an in-memory fake.
type Store interface {
	// Probe performs one lightweight read to verify the store is
	// reachable before any row is committed.
	Probe(ctx context.Context) error
	// Exists reports whether an attendee with this PRN already exists
	// for the event.
	Exists(ctx context.Context, eventID uint64, prn string) (bool, error)
	// Create persists a new attendee record.
	Create(ctx context.Context, a *model.Attendee) error
}

// ConnectivityError wraps a failed pre-import probe.  When it is
// returned, zero writes have been performed.
type ConnectivityError struct {
	Cause error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("roster: store unreachable before import: %v", e.Cause)
}

func (e *ConnectivityError) Unwrap() error { return e.Cause }

// Report is the sole contract of an import run with its caller.
// Uploaded+Skipped+Failed always equals Total; per-row commit errors
// are absorbed into Failed and never abort the run once the probe has
// passed.
type Report struct {
	RunID    string `json:"run_id"`
	Total    int    `json:"total"`
	Uploaded int    `json:"uploaded"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// Importer commits normalized roster entries for one event,
// reconciling each row against already-persisted attendees.  Rows are
// processed sequentially and independently: one row failing never
// blocks the rest, and there is deliberately no cross-row atomicity —
// the uploaded/skipped/failed accounting depends on it.
type Importer struct {
	store         Store
	probeTimeout  time.Duration
	commitTimeout time.Duration
}

// NewImporter builds an Importer.  Non-positive timeouts fall back to
// 8s for the probe and 10s per row.
func NewImporter(store Store, probeTimeout, commitTimeout time.Duration) *Importer {
	if probeTimeout <= 0 {
		probeTimeout = 8 * time.Second
	}
	if commitTimeout <= 0 {
		commitTimeout = 10 * time.Second
	}
	return &Importer{store: store, probeTimeout: probeTimeout, commitTimeout: commitTimeout}
}

// Run imports the entries into the given event.  It probes the store
// first and returns a *ConnectivityError with zero side effects when
// the probe fails.  After that, each entry is checked against the
// store: present PRNs are skipped, absent ones are inserted with
// CheckedIn=false and no CheckInTime, and any per-row error is counted
// as failed and logged.  Entries carrying no payload (their PRN could
// not be encoded) count as failed without touching the store.
func (im *Importer) Run(ctx context.Context, eventID uint64, entries []Entry) (Report, error) {
	rep := Report{RunID: uuid.NewString(), Total: len(entries)}

	probeCtx, cancel := context.WithTimeout(ctx, im.probeTimeout)
	err := im.store.Probe(probeCtx)
	cancel()
	if err != nil {
		return Report{}, &ConnectivityError{Cause: err}
	}

	for _, e := range entries {
		if e.Payload == "" {
			log.Printf("roster import %s: row prn=%q failed: prn has no scannable payload", rep.RunID, e.PRN)
			rep.Failed++
			continue
		}
		if err := im.commitRow(ctx, eventID, e); err != nil {
			if err == errSkipped {
				rep.Skipped++
				continue
			}
			log.Printf("roster import %s: row prn=%q failed: %v", rep.RunID, e.PRN, err)
			rep.Failed++
			continue
		}
		rep.Uploaded++
	}
	return rep, nil
}

// errSkipped is an internal marker for rows already present in the
// store.  It never escapes Run.
var errSkipped = fmt.Errorf("roster: row already present")

// commitRow reconciles and persists a single entry under a bounded
// per-row timeout covering both the existence check and the insert.
func (im *Importer) commitRow(ctx context.Context, eventID uint64, e Entry) error {
	rowCtx, cancel := context.WithTimeout(ctx, im.commitTimeout)
	defer cancel()

	exists, err := im.store.Exists(rowCtx, eventID, e.PRN)
	if err != nil {
		return err
	}
	if exists {
		return errSkipped
	}
	a := &model.Attendee{
		EventID: eventID,
		PRN:     e.PRN,
		Name:    e.Name,
		Email:   e.Email,
		Mobile:  e.Mobile,
		Year:    e.Year,
		Payload: e.Payload,
	}
	return im.store.Create(rowCtx, a)
}
