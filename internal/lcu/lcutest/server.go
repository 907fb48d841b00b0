// Package lcutest provides an in-process stand-in for the League client's
// local API, served over TLS with a self-signed certificate like the real one.
package lcutest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"lol-runesync/internal/domain"
	"lol-runesync/internal/lockfile"
)

type Request struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	password    string
	summoner    *domain.Summoner
	champSelect *domain.ChampSelectSession
	pages       []domain.RunePage
	nextID      int64
	requests    []Request
	failWrites  bool
}

// New starts a TLS server that accepts the given lockfile password.
// It is closed when the test ends.
func New(t testing.TB, password string) *Server {
	t.Helper()
	s := &Server{password: password, nextID: 1000}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Lockfile returns the lockfile line advertising this server.
func (s *Server) Lockfile() string {
	return fmt.Sprintf("LeagueClient:4242:%d:%s:https", s.Port(), s.password)
}

func (s *Server) Info() *lockfile.Info {
	info, err := lockfile.Parse(s.Lockfile())
	if err != nil {
		panic(err)
	}
	return info
}

func (s *Server) Port() int {
	u, err := url.Parse(s.URL)
	if err != nil {
		panic(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		panic(err)
	}
	return port
}

func (s *Server) SetSummoner(sum domain.Summoner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summoner = &sum
}

// SetChampSelect sets the session returned by the champ select endpoint;
// nil makes the endpoint answer 404 like a client outside champ select.
func (s *Server) SetChampSelect(cs *domain.ChampSelectSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.champSelect = cs
}

func (s *Server) SetPages(pages []domain.RunePage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append([]domain.RunePage(nil), pages...)
}

// FailWrites makes DELETE and POST answer 500 without changing state.
func (s *Server) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

func (s *Server) Pages() []domain.RunePage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RunePage(nil), s.pages...)
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path prefix.
func (s *Server) Count(method, pathPrefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})

	user, pass, ok := r.BasicAuth()
	if !ok || user != "riot" || pass != s.password {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/lol-summoner/v1/current-summoner":
		if s.summoner == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, s.summoner)

	case r.Method == http.MethodGet && r.URL.Path == "/lol-champ-select/v1/session":
		if s.champSelect == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, s.champSelect)

	case r.Method == http.MethodGet && r.URL.Path == "/lol-perks/v1/pages":
		pages := s.pages
		if pages == nil {
			pages = []domain.RunePage{}
		}
		writeJSON(w, pages)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/lol-perks/v1/pages/"):
		if s.failWrites {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/lol-perks/v1/pages/"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		for i, p := range s.pages {
			if p.ID == id {
				s.pages = append(s.pages[:i], s.pages[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)

	case r.Method == http.MethodPost && r.URL.Path == "/lol-perks/v1/pages":
		if s.failWrites {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		var np domain.NewRunePage
		if err := json.Unmarshal(body, &np); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		s.nextID++
		page := domain.RunePage{
			ID:              s.nextID,
			Name:            np.Name,
			Current:         np.Current,
			IsDeletable:     true,
			IsEditable:      true,
			PrimaryStyleID:  np.PrimaryStyleID,
			SubStyleID:      np.SubStyleID,
			SelectedPerkIDs: np.SelectedPerkIDs,
		}
		if np.Current {
			for i := range s.pages {
				s.pages[i].Current = false
			}
		}
		s.pages = append(s.pages, page)
		writeJSON(w, page)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
