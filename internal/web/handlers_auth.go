package web

import (
	"net/http"
	"strings"

	"github.com/sophieizhu/biodex/internal/session"
)

type loginPage struct {
	Email string
	Error string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login.html", loginPage{})
	case http.MethodPost:
		s.handleLoginPost(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	u, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, "login.html", loginPage{Email: email, Error: "Invalid email or password."})
		return
	}

	sess, err := s.sessions.Start(u)
	if err != nil {
		s.log.Error("session start failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.setSessionCookie(w, sess.Token)
	http.Redirect(w, r, "/species", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.sessions.Destroy(sess.Token); err != nil {
		s.log.Error("session destroy failed", "error", err)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
