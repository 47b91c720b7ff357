package usecase

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/sophieizhu/biodex/internal/model"
)

// EditorState is the dialog state of a species card.
type EditorState string

const (
	StateViewing          EditorState = "viewing"
	StateEditing          EditorState = "editing"
	StateDeleteConfirming EditorState = "delete_confirming"
)

// Editor drives a single record's detail/edit dialog: read-only detail
// view, owner-gated edit mode with a draft copy, and owner-gated delete
// with a confirmation step.
//
// The owner gate here controls which transitions are reachable; the
// DataStore re-enforces ownership on every write regardless.
type Editor struct {
	record *model.Species
	viewer model.UserID

	state      EditorState
	detailOpen bool
	draft      model.SpeciesDraft
	fieldErrs  model.FieldErrors

	store    DataStore
	notifier Notifier
	nav      Navigator
	log      hclog.Logger
}

func NewEditor(record *model.Species, viewer model.UserID, store DataStore, notifier Notifier, nav Navigator, logger hclog.Logger) *Editor {
	return &Editor{
		record:   record,
		viewer:   viewer,
		state:    StateViewing,
		draft:    model.DraftOf(record),
		store:    store,
		notifier: notifier,
		nav:      nav,
		log:      logger,
	}
}

func (e *Editor) Record() *model.Species         { return e.record }
func (e *Editor) Viewer() model.UserID           { return e.viewer }
func (e *Editor) State() EditorState             { return e.state }
func (e *Editor) DetailOpen() bool               { return e.detailOpen }
func (e *Editor) Draft() model.SpeciesDraft      { return e.draft }
func (e *Editor) FieldErrors() model.FieldErrors { return e.fieldErrs }
func (e *Editor) Editing() bool                  { return e.state == StateEditing }
func (e *Editor) DeleteConfirming() bool         { return e.state == StateDeleteConfirming }

// CanEdit reports whether the viewer owns the record and so may see the
// edit and delete controls at all.
func (e *Editor) CanEdit() bool { return e.record.OwnedBy(e.viewer) }

// Open and Close toggle detail visibility only.
func (e *Editor) Open()  { e.detailOpen = true }
func (e *Editor) Close() { e.detailOpen = false }

// BeginEdit makes the form mutable, starting the draft from the
// committed record. No-op for non-owners and outside the viewing state.
func (e *Editor) BeginEdit() {
	if !e.CanEdit() || e.state != StateViewing {
		return
	}
	e.draft = model.DraftOf(e.record)
	e.fieldErrs = nil
	e.state = StateEditing
}

// SetDraft replaces the working draft. Only meaningful while editing.
func (e *Editor) SetDraft(d model.SpeciesDraft) {
	if e.state != StateEditing {
		return
	}
	e.draft = d
}

// CancelEdit discards the draft and returns to the committed values.
func (e *Editor) CancelEdit() {
	if e.state != StateEditing {
		return
	}
	e.draft = model.DraftOf(e.record)
	e.fieldErrs = nil
	e.state = StateViewing
}

// SubmitEdit validates the draft, and on success persists the
// normalized patch. Validation failure keeps the store untouched; a
// store failure keeps edit mode and the draft so the viewer can retry.
// Returns true only when the update was committed.
func (e *Editor) SubmitEdit(ctx context.Context, draft model.SpeciesDraft) bool {
	if e.state != StateEditing {
		return false
	}
	e.draft = draft

	if fe := draft.Validate(); !fe.Empty() {
		e.log.Debug("species validation failed", "id", e.record.ID, "error", fe.ErrOrNil())
		e.fieldErrs = fe
		return false
	}
	e.fieldErrs = nil

	patch := draft.Normalize()
	if err := e.store.UpdateRecord(ctx, e.record.ID, patch); err != nil {
		e.log.Error("species update failed", "id", e.record.ID, "error", err)
		e.notifier.Notify("Something went wrong saving the species. Please try again.", NotifyError)
		return false
	}

	e.record.ApplyPatch(patch)
	e.draft = model.DraftOf(e.record)
	e.state = StateViewing

	// Refresh is signalled only after the store acknowledged the write.
	e.nav.Refresh()
	e.notifier.Notify("Species updated.", NotifySuccess)
	return true
}

// BeginDelete opens the delete confirmation. No-op for non-owners.
func (e *Editor) BeginDelete() {
	if !e.CanEdit() || e.state != StateViewing {
		return
	}
	e.state = StateDeleteConfirming
}

// CancelDelete closes the confirmation without touching anything.
func (e *Editor) CancelDelete() {
	if e.state != StateDeleteConfirming {
		return
	}
	e.state = StateViewing
}

// ConfirmDelete asks the store to delete the record and closes the
// dialog whatever the outcome: the confirmation never stays open, the
// refresh signal is always sent and success is always reported. The
// store error is only logged.
//
// TODO(delete-errors): surface store failures here once the list page
// can distinguish a stale card from a removed one.
func (e *Editor) ConfirmDelete(ctx context.Context) {
	if e.state != StateDeleteConfirming {
		return
	}

	if err := e.store.DeleteRecord(ctx, e.record.ID); err != nil {
		e.log.Error("species delete failed", "id", e.record.ID, "error", err)
	}

	e.state = StateViewing
	e.detailOpen = false
	e.nav.Refresh()
	e.notifier.Notify("Species deleted.", NotifySuccess)
}

// EditorSnapshot is the serializable slice of editor state kept between
// requests. The committed record and the collaborators are rebuilt on
// every request.
type EditorSnapshot struct {
	State       EditorState        `json:"state"`
	DetailOpen  bool               `json:"detail_open"`
	Draft       model.SpeciesDraft `json:"draft"`
	FieldErrors model.FieldErrors  `json:"field_errors,omitempty"`
}

func (e *Editor) Snapshot() EditorSnapshot {
	return EditorSnapshot{
		State:       e.state,
		DetailOpen:  e.detailOpen,
		Draft:       e.draft,
		FieldErrors: e.fieldErrs,
	}
}

// Restore rehydrates dialog state. Mutating states are dropped for
// non-owners, so a stale or forged snapshot can never put a non-owner
// past viewing.
func (e *Editor) Restore(sn EditorSnapshot) {
	e.detailOpen = sn.DetailOpen

	if sn.State == "" {
		return
	}
	if !e.CanEdit() && sn.State != StateViewing {
		return
	}

	e.state = sn.State
	if sn.State == StateEditing {
		e.draft = sn.Draft
		e.fieldErrs = sn.FieldErrors
	}
}
