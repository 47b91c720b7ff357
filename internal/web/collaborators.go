package web

import (
	"github.com/hashicorp/go-hclog"

	"github.com/sophieizhu/biodex/internal/changes"
	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/session"
	"github.com/sophieizhu/biodex/internal/usecase"
)

// flashNotifier queues editor notifications as session flash messages.
type flashNotifier struct {
	store *session.Store
	token string
	log   hclog.Logger
}

func (n flashNotifier) Notify(text string, kind usecase.NotificationKind) {
	if err := n.store.PushFlash(n.token, text, string(kind)); err != nil {
		n.log.Error("flash push failed", "error", err)
	}
}

// refresher broadcasts a record change so list views re-fetch.
type refresher struct {
	b  *changes.Broadcaster
	id int64
}

func (r refresher) Refresh() {
	r.b.Notify(changes.Event{Table: model.SpeciesType, ID: r.id})
}
