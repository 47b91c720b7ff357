package web

import (
	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/session"
	"github.com/sophieizhu/biodex/internal/usecase"
)

// speciesView flattens a record into display strings for templates.
type speciesView struct {
	ID      int64
	Author  model.UserID
	CanEdit bool
	Fields  model.SpeciesDraft
}

func viewOf(sp *model.Species, viewer model.UserID) speciesView {
	return speciesView{
		ID:      sp.ID,
		Author:  sp.Author,
		CanEdit: sp.OwnedBy(viewer),
		Fields:  model.DraftOf(sp),
	}
}

// dialogView is the detail/edit dialog in whatever state the editor
// holds.
type dialogView struct {
	Species          speciesView
	Editing          bool
	DeleteConfirming bool
	Draft            model.SpeciesDraft
	Errors           model.FieldErrors
	Kingdoms         []model.Kingdom
}

func dialogOf(ed *usecase.Editor) dialogView {
	return dialogView{
		Species:          viewOf(ed.Record(), ed.Viewer()),
		Editing:          ed.Editing(),
		DeleteConfirming: ed.DeleteConfirming(),
		Draft:            ed.Draft(),
		Errors:           ed.FieldErrors(),
		Kingdoms:         model.Kingdoms(),
	}
}

// pageData is the shared page frame: the signed-in viewer plus any
// pending flash messages.
type pageData struct {
	Viewer  *session.Session
	Flashes []session.Flash
}

func (s *Server) pageFrame(sess *session.Session) pageData {
	flashes, err := s.sessions.PopFlashes(sess.Token)
	if err != nil {
		s.log.Error("flash pop failed", "error", err)
	}
	return pageData{Viewer: sess, Flashes: flashes}
}
