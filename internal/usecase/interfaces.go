package usecase

import (
	"context"

	"github.com/sophieizhu/biodex/internal/model"
)

// DataStore is the editor's view of persistence. The implementation is
// expected to re-enforce ownership on every write; the editor's own
// owner gate is a UX convenience, not the security boundary.
type DataStore interface {
	FetchRecord(ctx context.Context, id int64) (*model.Species, error)
	UpdateRecord(ctx context.Context, id int64, patch model.SpeciesPatch) error
	DeleteRecord(ctx context.Context, id int64) error
}

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier shows the viewer a transient message. Fire-and-forget.
type Notifier interface {
	Notify(text string, kind NotificationKind)
}

// Navigator signals dependent list views to re-fetch. Fire-and-forget;
// no data flows back through it.
type Navigator interface {
	Refresh()
}
