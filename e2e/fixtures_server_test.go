//go:build e2e && unix

package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// apiServer serves the statistics endpoints robin talks to
type apiServer struct {
	*httptest.Server

	mu         sync.Mutex
	statsCalls []url.Values
	statsCode  int
}

type serverOption func(*apiServer)

// withStatsStatus makes the closed patch endpoint answer with code
func withStatsStatus(code int) serverOption {
	return func(s *apiServer) { s.statsCode = code }
}

func newAPIServer(t *testing.T, opts ...serverOption) *apiServer {
	t.Helper()
	s := &apiServer{statsCode: http.StatusOK}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/repositories/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			s.json(w, http.StatusOK, `{"count":3,"next":null,"previous":"`+s.URL+`/api/repositories/",
				"results":[{"id":3,"name":"libvirt","repository_id":13}]}`)
			return
		}
		s.json(w, http.StatusOK, `{"count":3,"next":"`+s.URL+`/api/repositories/?page=2","previous":null,
			"results":[{"id":1,"name":"kernel","repository_id":11},{"id":2,"name":"qemu","repository_id":12}]}`)
	})
	mux.HandleFunc("/api/teams/", func(w http.ResponseWriter, _ *http.Request) {
		s.json(w, http.StatusOK, `{"count":1,"next":null,"previous":null,
			"results":[{"team_code":"virt","team_name":"Virtualization","members":["alice","bob"]}]}`)
	})
	mux.HandleFunc("/api/stats/pending-patchs/", func(w http.ResponseWriter, _ *http.Request) {
		s.json(w, http.StatusOK, `{"count":1,"next":null,"previous":null,
			"results":[{"patch_number":42,"patch_title":"fix migration","author":"carol","reviews":1,"total_pending":3}]}`)
	})
	mux.HandleFunc("/api/stats/closed-patchs", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.statsCalls = append(s.statsCalls, r.URL.Query())
		code := s.statsCode
		s.mu.Unlock()
		if code != http.StatusOK {
			http.Error(w, "upstream unavailable", code)
			return
		}
		s.json(w, http.StatusOK, `{"count":1,"next":null,"previous":null,
			"results":[{"patch_number":5,"patch_title":"merge fix","author":"alice","pull_merged":true,"additions":10,"deletions":2}]}`)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) json(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// StatsCalls returns the query strings of every closed patch request
func (s *apiServer) StatsCalls() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.statsCalls...)
}
