package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/pathvars"

	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/session"
	"github.com/sophieizhu/biodex/internal/usecase"
)

var (
	speciesDetailPath       = pathvars.NewExtractor("/species/{id}")
	speciesClosePath        = pathvars.NewExtractor("/species/{id}/close")
	speciesEditPath         = pathvars.NewExtractor("/species/{id}/edit")
	speciesCancelPath       = pathvars.NewExtractor("/species/{id}/cancel")
	speciesDeletePath       = pathvars.NewExtractor("/species/{id}/delete")
	speciesDeleteConfirm    = pathvars.NewExtractor("/species/{id}/delete/confirm")
	speciesDeleteCancelPath = pathvars.NewExtractor("/species/{id}/delete/cancel")
)

func recordID(e *pathvars.Extractor, u *url.URL) (int64, bool) {
	vars, ok := e.Extract(u)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type speciesPage struct {
	pageData
	Species  []speciesView
	Kingdoms []model.Kingdom
	Mine     bool
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	switch r.Method {
	case http.MethodGet:
		// ?mine=1 narrows the list to the viewer's own records and
		// bypasses the shared list cache.
		mine := r.URL.Query().Get("mine") == "1"

		var items []model.Species
		var err error
		if mine {
			items, err = s.species.ListByAuthor(r.Context(), sess.UserID)
		} else {
			items, err = s.listSpecies(r)
		}
		if err != nil {
			s.log.Error("species list failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		page := speciesPage{
			pageData: s.pageFrame(sess),
			Kingdoms: model.Kingdoms(),
			Mine:     mine,
		}
		for i := range items {
			page.Species = append(page.Species, viewOf(&items[i], sess.UserID))
		}
		s.render(w, "species.html", page)
	case http.MethodPost:
		s.handleCreateSpecies(w, r, sess)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type newSpeciesDialog struct {
	Draft    model.SpeciesDraft
	Errors   model.FieldErrors
	Kingdoms []model.Kingdom
}

func (s *Server) handleCreateSpecies(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	draft := draftFromForm(r)

	if fe := draft.Validate(); !fe.Empty() {
		s.log.Debug("species validation failed", "error", fe.ErrOrNil())
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, "_species_new.html", newSpeciesDialog{Draft: draft, Errors: fe, Kingdoms: model.Kingdoms()})
		return
	}

	id, err := s.species.Create(r.Context(), sess.UserID, draft.Normalize())
	if err != nil {
		s.log.Error("species create failed", "error", err)
		s.notifierFor(sess).Notify("Something went wrong adding the species. Please try again.", usecase.NotifyError)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, "_species_new.html", newSpeciesDialog{Draft: draft, Kingdoms: model.Kingdoms()})
		return
	}

	refresher{b: s.changes, id: id}.Refresh()
	s.notifierFor(sess).Notify("Species added.", usecase.NotifySuccess)
	s.redirectToList(w, r)
}

// routeSpecies dispatches the dialog sub-routes of a single record.
func (s *Server) routeSpecies(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.URL.Path == "/species/new" && r.Method == http.MethodGet {
		s.render(w, "_species_new.html", newSpeciesDialog{Kingdoms: model.Kingdoms()})
		return
	}

	if r.Method == http.MethodPost {
		switch {
		case matchOp(w, r, s, sess, speciesClosePath, func(ed *usecase.Editor) { ed.Close() }):
		case matchOp(w, r, s, sess, speciesEditPath, func(ed *usecase.Editor) { ed.BeginEdit() }):
		case matchOp(w, r, s, sess, speciesCancelPath, func(ed *usecase.Editor) { ed.CancelEdit() }):
		case matchOp(w, r, s, sess, speciesDeleteConfirm, func(ed *usecase.Editor) { ed.ConfirmDelete(r.Context()) }):
		case matchOp(w, r, s, sess, speciesDeleteCancelPath, func(ed *usecase.Editor) { ed.CancelDelete() }):
		case matchOp(w, r, s, sess, speciesDeletePath, func(ed *usecase.Editor) { ed.BeginDelete() }):
		default:
			s.handleSubmitEdit(w, r, sess)
		}
		return
	}

	if r.Method == http.MethodGet {
		if id, ok := recordID(speciesDetailPath, r.URL); ok {
			s.withEditor(w, r, sess, id, func(ed *usecase.Editor) {
				ed.Open()
			})
			return
		}
	}

	http.NotFound(w, r)
}

// matchOp runs op against the record's editor when the extractor
// matches. Reports whether the route was taken.
func matchOp(w http.ResponseWriter, r *http.Request, s *Server, sess *session.Session, e *pathvars.Extractor, op func(ed *usecase.Editor)) bool {
	id, ok := recordID(e, r.URL)
	if !ok {
		return false
	}
	s.withEditor(w, r, sess, id, op)
	return true
}

func (s *Server) handleSubmitEdit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := recordID(speciesDetailPath, r.URL)
	if !ok {
		http.NotFound(w, r)
		return
	}
	draft := draftFromForm(r)
	s.withEditor(w, r, sess, id, func(ed *usecase.Editor) {
		ed.SubmitEdit(r.Context(), draft)
	})
}

// withEditor rehydrates the record's editor for this session, applies
// op, persists the dialog state and renders the outcome.
func (s *Server) withEditor(w http.ResponseWriter, r *http.Request, sess *session.Session, id int64, op func(ed *usecase.Editor)) {
	ed, err := s.editorFor(r, sess, id)
	if errors.Is(err, model.ErrNotFound) {
		// The record is gone (deleted elsewhere); fall back to the list.
		_ = s.sessions.ClearEditorState(sess.Token, id)
		s.redirectToList(w, r)
		return
	} else if err != nil {
		s.log.Error("record fetch failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	op(ed)

	if !ed.DetailOpen() {
		_ = s.sessions.ClearEditorState(sess.Token, id)
		s.redirectToList(w, r)
		return
	}

	s.saveEditor(sess, id, ed)
	s.render(w, "_species_dialog.html", dialogOf(ed))
}

func (s *Server) editorFor(r *http.Request, sess *session.Session, id int64) (*usecase.Editor, error) {
	record, err := s.species.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	ed := usecase.NewEditor(
		record,
		sess.UserID,
		s.species.StoreFor(sess.UserID),
		s.notifierFor(sess),
		refresher{b: s.changes, id: id},
		s.log.Named("editor"),
	)

	if raw, err := s.sessions.LoadEditorState(sess.Token, id); err == nil {
		var sn usecase.EditorSnapshot
		if json.Unmarshal(raw, &sn) == nil {
			ed.Restore(sn)
		}
	}

	return ed, nil
}

func (s *Server) saveEditor(sess *session.Session, id int64, ed *usecase.Editor) {
	raw, err := json.Marshal(ed.Snapshot())
	if err != nil {
		s.log.Error("editor snapshot marshal failed", "id", id, "error", err)
		return
	}
	if err := s.sessions.SaveEditorState(sess.Token, id, raw); err != nil {
		s.log.Error("editor snapshot save failed", "id", id, "error", err)
	}
}

func (s *Server) notifierFor(sess *session.Session) usecase.Notifier {
	return flashNotifier{store: s.sessions, token: sess.Token, log: s.log}
}

func (s *Server) redirectToList(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/species")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/species", http.StatusSeeOther)
}

func draftFromForm(r *http.Request) model.SpeciesDraft {
	return model.SpeciesDraft{
		ScientificName:  r.FormValue(model.FieldScientificName),
		CommonName:      r.FormValue(model.FieldCommonName),
		Kingdom:         r.FormValue(model.FieldKingdom),
		TotalPopulation: r.FormValue(model.FieldTotalPopulation),
		Image:           r.FormValue(model.FieldImage),
		Description:     r.FormValue(model.FieldDescription),
	}
}
