package roster

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihirt/rollcall/internal/model"
)

// fakeStore is an in-memory Store keyed by (eventID, prn).
type fakeStore struct {
	records   map[string]*model.Attendee
	probeErr  error
	createErr map[string]error // per-prn injected insert failures
	existsErr map[string]error // per-prn injected lookup failures
	createCnt int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:   map[string]*model.Attendee{},
		createErr: map[string]error{},
		existsErr: map[string]error{},
	}
}

func key(eventID uint64, prn string) string { return fmt.Sprintf("%d/%s", eventID, prn) }

func (s *fakeStore) Probe(ctx context.Context) error { return s.probeErr }

func (s *fakeStore) Exists(ctx context.Context, eventID uint64, prn string) (bool, error) {
	if err := s.existsErr[prn]; err != nil {
		return false, err
	}
	_, ok := s.records[key(eventID, prn)]
	return ok, nil
}

func (s *fakeStore) Create(ctx context.Context, a *model.Attendee) error {
	if err := s.createErr[a.PRN]; err != nil {
		return err
	}
	s.createCnt++
	a.ID = uint64(s.createCnt)
	a.CreatedAt = time.Now().UTC()
	s.records[key(a.EventID, a.PRN)] = a
	return nil
}

func entriesFor(prns ...string) []Entry {
	entries := make([]Entry, 0, len(prns))
	for _, prn := range prns {
		entries = append(entries, Entry{Name: "N" + prn, PRN: prn, Payload: prn})
	}
	return entries
}

func TestRunCleanImport(t *testing.T) {
	store := newFakeStore()
	im := NewImporter(store, time.Second, time.Second)

	rep, err := im.Run(context.Background(), 1, entriesFor("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 2, rep.Uploaded)
	assert.Equal(t, 0, rep.Skipped)
	assert.Equal(t, 0, rep.Failed)
	assert.NotEmpty(t, rep.RunID)

	// New records start not checked in with no timestamp.
	for _, prn := range []string{"1", "2"} {
		a := store.records[key(1, prn)]
		require.NotNil(t, a)
		assert.False(t, a.CheckedIn)
		assert.Nil(t, a.CheckInTime)
	}
}

func TestRunDuplicateImportSkipsEverything(t *testing.T) {
	store := newFakeStore()
	im := NewImporter(store, time.Second, time.Second)

	_, err := im.Run(context.Background(), 1, entriesFor("1", "2"))
	require.NoError(t, err)

	rep, err := im.Run(context.Background(), 1, entriesFor("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Uploaded)
	assert.Equal(t, 2, rep.Skipped)
	assert.Equal(t, 0, rep.Failed)
}

func TestRunSamePRNDifferentEventsBothUpload(t *testing.T) {
	// PRNs are unique per event, not globally.
	store := newFakeStore()
	im := NewImporter(store, time.Second, time.Second)

	rep1, err := im.Run(context.Background(), 1, entriesFor("1"))
	require.NoError(t, err)
	rep2, err := im.Run(context.Background(), 2, entriesFor("1"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep1.Uploaded)
	assert.Equal(t, 1, rep2.Uploaded)
}

func TestRunRowFailureDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	store.createErr["2"] = errors.New("write timeout")
	im := NewImporter(store, time.Second, time.Second)

	rep, err := im.Run(context.Background(), 1, entriesFor("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Uploaded)
	assert.Equal(t, 0, rep.Skipped)
	assert.Equal(t, 1, rep.Failed)

	// The rows after the failed one still landed.
	assert.NotNil(t, store.records[key(1, "3")])
	assert.Nil(t, store.records[key(1, "2")])
}

func TestRunPayloadlessEntryCountsAsFailed(t *testing.T) {
	// A row whose PRN could not be encoded reaches the importer with an
	// empty payload; it must count as failed without any store write.
	store := newFakeStore()
	im := NewImporter(store, time.Second, time.Second)

	entries := append(entriesFor("1"), Entry{Name: "B", PRN: "bad\x01prn"})
	rep, err := im.Run(context.Background(), 1, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Uploaded)
	assert.Equal(t, 0, rep.Skipped)
	assert.Equal(t, 1, rep.Failed)
	assert.Len(t, store.records, 1)
	assert.Nil(t, store.records[key(1, "bad\x01prn")])
}

func TestRunLookupFailureCountsAsFailed(t *testing.T) {
	store := newFakeStore()
	store.existsErr["1"] = errors.New("connection reset")
	im := NewImporter(store, time.Second, time.Second)

	rep, err := im.Run(context.Background(), 1, entriesFor("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Uploaded)
	assert.Equal(t, 1, rep.Failed)
}

func TestRunProbeFailureAbortsWithZeroWrites(t *testing.T) {
	store := newFakeStore()
	store.probeErr = errors.New("dial timeout")
	im := NewImporter(store, time.Second, time.Second)

	_, err := im.Run(context.Background(), 1, entriesFor("1", "2"))
	var connErr *ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, store.probeErr)
	assert.Empty(t, store.records)
}

func TestRunAccountingInvariant(t *testing.T) {
	store := newFakeStore()
	store.records[key(1, "2")] = &model.Attendee{EventID: 1, PRN: "2"}
	store.createErr["4"] = errors.New("boom")
	im := NewImporter(store, time.Second, time.Second)

	rep, err := im.Run(context.Background(), 1, entriesFor("1", "2", "3", "4", "5"))
	require.NoError(t, err)
	assert.Equal(t, rep.Total, rep.Uploaded+rep.Skipped+rep.Failed)
	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, 3, rep.Uploaded)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 1, rep.Failed)
}
