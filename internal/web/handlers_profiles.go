package web

import (
	"net/http"

	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/session"
)

type profilesPage struct {
	pageData
	Profiles []model.Profile
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profiles, err := s.auth.ListProfiles(r.Context())
	if err != nil {
		s.log.Error("profile list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, "profiles.html", profilesPage{
		pageData: s.pageFrame(sess),
		Profiles: profiles,
	})
}
