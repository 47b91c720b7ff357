package usecase

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophieizhu/biodex/internal/model"
)

type fakeStore struct {
	updateErr error
	deleteErr error
	updates   []model.SpeciesPatch
	deletes   []int64
}

func (f *fakeStore) FetchRecord(ctx context.Context, id int64) (*model.Species, error) {
	return nil, model.ErrNotFound
}

func (f *fakeStore) UpdateRecord(ctx context.Context, id int64, patch model.SpeciesPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, patch)
	return nil
}

func (f *fakeStore) DeleteRecord(ctx context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

type fakeNotifier struct {
	texts []string
	kinds []NotificationKind
}

func (f *fakeNotifier) Notify(text string, kind NotificationKind) {
	f.texts = append(f.texts, text)
	f.kinds = append(f.kinds, kind)
}

type fakeNavigator struct {
	refreshes int
}

func (f *fakeNavigator) Refresh() { f.refreshes++ }

func testRecord() *model.Species {
	return &model.Species{
		ID:             7,
		ScientificName: "Cavia porcellus",
		Kingdom:        model.KingdomAnimalia,
		Author:         "u1",
	}
}

func newTestEditor(t *testing.T, viewer model.UserID) (*Editor, *fakeStore, *fakeNotifier, *fakeNavigator) {
	t.Helper()
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	nav := &fakeNavigator{}
	ed := NewEditor(testRecord(), viewer, store, notifier, nav, hclog.NewNullLogger())
	return ed, store, notifier, nav
}

func Test_Editor_OpenClose(t *testing.T) {
	ed, store, notifier, nav := newTestEditor(t, "u1")

	require.False(t, ed.DetailOpen())
	ed.Open()
	assert.True(t, ed.DetailOpen())
	ed.Close()
	assert.False(t, ed.DetailOpen())

	assert.Empty(t, store.updates)
	assert.Empty(t, notifier.texts)
	assert.Zero(t, nav.refreshes)
}

func Test_Editor_NonOwnerCannotLeaveViewing(t *testing.T) {
	ed, _, _, _ := newTestEditor(t, "u2")

	ed.Open()
	ed.BeginEdit()
	assert.Equal(t, StateViewing, ed.State())
	assert.False(t, ed.Editing())

	ed.BeginDelete()
	assert.Equal(t, StateViewing, ed.State())
	assert.False(t, ed.DeleteConfirming())
	assert.False(t, ed.CanEdit())
}

func Test_Editor_CancelEditRestoresDraft(t *testing.T) {
	ed, _, _, _ := newTestEditor(t, "u1")
	before := ed.Draft()

	ed.BeginEdit()
	ed.SetDraft(model.SpeciesDraft{
		ScientificName: "Cavia aperea",
		Kingdom:        "Plantae",
		CommonName:     "mutated",
	})
	ed.CancelEdit()

	assert.Equal(t, StateViewing, ed.State())
	assert.Equal(t, before, ed.Draft())
	assert.Equal(t, "Cavia porcellus", ed.Record().ScientificName)
}

func Test_Editor_SubmitEmptyName_NoStoreCall(t *testing.T) {
	ed, store, _, nav := newTestEditor(t, "u1")
	ed.BeginEdit()

	draft := ed.Draft()
	draft.ScientificName = "   "
	ok := ed.SubmitEdit(context.Background(), draft)

	require.False(t, ok)
	assert.Equal(t, StateEditing, ed.State())
	assert.Contains(t, ed.FieldErrors(), model.FieldScientificName)
	assert.Empty(t, store.updates, "validation failure must not reach the store")
	assert.Zero(t, nav.refreshes)
}

func Test_Editor_SubmitNegativePopulation(t *testing.T) {
	ed, store, _, _ := newTestEditor(t, "u1")
	ed.BeginEdit()

	draft := ed.Draft()
	draft.TotalPopulation = "-5"
	ok := ed.SubmitEdit(context.Background(), draft)

	require.False(t, ok)
	assert.Equal(t, StateEditing, ed.State())
	assert.Contains(t, ed.FieldErrors(), model.FieldTotalPopulation)
	assert.Empty(t, store.updates)
}

func Test_Editor_ValidationFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
	ed := NewEditor(testRecord(), "u1", &fakeStore{}, &fakeNotifier{}, &fakeNavigator{}, logger)
	ed.BeginEdit()

	draft := ed.Draft()
	draft.ScientificName = ""
	draft.TotalPopulation = "-5"
	require.False(t, ed.SubmitEdit(context.Background(), draft))

	logged := buf.String()
	assert.Contains(t, logged, "validation failed")
	assert.Contains(t, logged, model.FieldScientificName, "folded error names each failed field")
	assert.Contains(t, logged, model.FieldTotalPopulation)
}

func Test_Editor_SubmitSuccess(t *testing.T) {
	ed, store, notifier, nav := newTestEditor(t, "u1")
	ed.BeginEdit()

	draft := ed.Draft()
	draft.ScientificName = "  Cavia aperea  "
	ok := ed.SubmitEdit(context.Background(), draft)

	require.True(t, ok)
	assert.Equal(t, StateViewing, ed.State())
	assert.Equal(t, "Cavia aperea", ed.Record().ScientificName)

	require.Len(t, store.updates, 1)
	assert.Equal(t, "Cavia aperea", store.updates[0].ScientificName)

	assert.Equal(t, 1, nav.refreshes, "exactly one refresh after the acknowledged write")
	require.Len(t, notifier.kinds, 1)
	assert.Equal(t, NotifySuccess, notifier.kinds[0])
}

func Test_Editor_SubmitStoreFailureKeepsDraft(t *testing.T) {
	ed, store, notifier, nav := newTestEditor(t, "u1")
	store.updateErr = fmt.Errorf("connection reset")
	ed.BeginEdit()

	draft := ed.Draft()
	draft.ScientificName = "Cavia aperea"
	ok := ed.SubmitEdit(context.Background(), draft)

	require.False(t, ok)
	assert.Equal(t, StateEditing, ed.State(), "edit mode stays open for retry")
	assert.Equal(t, "Cavia aperea", ed.Draft().ScientificName, "draft input preserved")
	assert.Equal(t, "Cavia porcellus", ed.Record().ScientificName, "committed record unchanged")
	assert.Zero(t, nav.refreshes)
	require.Len(t, notifier.kinds, 1)
	assert.Equal(t, NotifyError, notifier.kinds[0])
}

func Test_Editor_DeleteFlow(t *testing.T) {
	ed, store, notifier, nav := newTestEditor(t, "u1")
	ed.Open()

	ed.BeginDelete()
	require.Equal(t, StateDeleteConfirming, ed.State())

	ed.CancelDelete()
	require.Equal(t, StateViewing, ed.State())
	assert.Empty(t, store.deletes)

	ed.BeginDelete()
	ed.ConfirmDelete(context.Background())

	assert.Equal(t, StateViewing, ed.State())
	assert.False(t, ed.DetailOpen())
	assert.Equal(t, []int64{7}, store.deletes)
	assert.Equal(t, 1, nav.refreshes)
	require.Len(t, notifier.kinds, 1)
	assert.Equal(t, NotifySuccess, notifier.kinds[0])
}

// The dialog closes, refreshes and reports success even when the store
// rejects the delete. Current behavior, kept on purpose.
func Test_Editor_DeleteFailureStillClosesAndRefreshes(t *testing.T) {
	ed, store, notifier, nav := newTestEditor(t, "u1")
	store.deleteErr = fmt.Errorf("row locked")
	ed.Open()

	ed.BeginDelete()
	ed.ConfirmDelete(context.Background())

	assert.Equal(t, StateViewing, ed.State())
	assert.False(t, ed.DetailOpen())
	assert.Equal(t, 1, nav.refreshes)
	require.Len(t, notifier.kinds, 1)
	assert.Equal(t, NotifySuccess, notifier.kinds[0])
}

func Test_Editor_SubmitOutsideEditing_NoOp(t *testing.T) {
	ed, store, _, _ := newTestEditor(t, "u1")

	ok := ed.SubmitEdit(context.Background(), ed.Draft())

	require.False(t, ok)
	assert.Empty(t, store.updates)
	assert.Equal(t, StateViewing, ed.State())
}

func Test_Editor_RestoreDropsForgedStateForNonOwner(t *testing.T) {
	owner, _, _, _ := newTestEditor(t, "u1")
	owner.BeginEdit()
	sn := owner.Snapshot()

	stranger, _, _, _ := newTestEditor(t, "u2")
	stranger.Restore(sn)

	assert.Equal(t, StateViewing, stranger.State())
}

func Test_Editor_SnapshotRoundTrip(t *testing.T) {
	ed, _, _, _ := newTestEditor(t, "u1")
	ed.Open()
	ed.BeginEdit()
	draft := ed.Draft()
	draft.CommonName = "Cavy"
	ed.SetDraft(draft)

	sn := ed.Snapshot()

	restored, _, _, _ := newTestEditor(t, "u1")
	restored.Restore(sn)

	assert.True(t, restored.DetailOpen())
	assert.Equal(t, StateEditing, restored.State())
	assert.Equal(t, "Cavy", restored.Draft().CommonName)
}
