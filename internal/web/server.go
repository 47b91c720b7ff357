package web

import (
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/sophieizhu/biodex/internal/changes"
	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/session"
	"github.com/sophieizhu/biodex/internal/usecase"
)

//go:embed templates/*.html
var tplFS embed.FS

const sessionCookie = "biodex_session"

// Server is the HTTP surface: session-protected pages plus the dialog
// partials driven by the record editor.
type Server struct {
	species  *usecase.SpeciesService
	auth     *usecase.AuthService
	sessions *session.Store
	changes  *changes.Broadcaster
	log      hclog.Logger

	tpl           *template.Template
	mux           *http.ServeMux
	secureCookies bool

	// list cache, re-fetched when the broadcaster reports a change
	listMu     sync.Mutex
	listObs    *changes.Observer
	listItems  []model.Species
	listLoaded bool
	listDirty  bool
}

func NewServer(speciesSvc *usecase.SpeciesService, authSvc *usecase.AuthService, sessions *session.Store, broadcaster *changes.Broadcaster, secureCookies bool, logger hclog.Logger) (*Server, error) {
	tpl, err := template.ParseFS(tplFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		species:       speciesSvc,
		auth:          authSvc,
		sessions:      sessions,
		changes:       broadcaster,
		log:           logger,
		tpl:           tpl,
		secureCookies: secureCookies,
		listObs:       broadcaster.Subscribe(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.requireSession(s.handleLogout))
	mux.HandleFunc("/species", s.requireSession(s.handleSpecies))
	mux.HandleFunc("/species/", s.requireSession(s.routeSpecies))
	mux.HandleFunc("/profiles", s.requireSession(s.handleProfiles))
	s.mux = mux

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/species", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.tpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", "template", name, "error", err)
	}
}

// listSpecies serves the cached species list, re-fetching after any
// broadcast change. Observing drains the events, so the dirty flag has
// to outlive a failed fetch or the change would be lost.
func (s *Server) listSpecies(r *http.Request) ([]model.Species, error) {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	if len(s.listObs.Observe()) > 0 {
		s.listDirty = true
	}
	if s.listLoaded && !s.listDirty {
		return s.listItems, nil
	}

	items, err := s.species.List(r.Context())
	if err != nil {
		return nil, err
	}
	s.listItems = items
	s.listLoaded = true
	s.listDirty = false
	return items, nil
}
