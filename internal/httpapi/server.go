// Package httpapi exposes the analytics queries as a JSON HTTP API plus a
// presence websocket, mirroring the envelope format legacy consumers expect.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/internal/contract"
	"github.com/wikireflex/reflex/schema"
)

// Server routes API requests to the query composer and the store.
type Server struct {
	cfg      *schema.Config
	store    contract.Store
	composer *core.Composer
	hub      *Hub
	now      func() time.Time
}

// NewServer creates a Server over the given store.
func NewServer(cfg *schema.Config, store contract.Store) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		composer: core.NewComposer(store),
		hub:      NewHub(),
		now:      time.Now,
	}
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/getEdits", s.logged("getEdits", s.handleEdits))
	mux.HandleFunc("/api/getReverts", s.logged("getReverts", s.handleReverts))
	mux.HandleFunc("/api/getProjects", s.logged("getProjects", s.handleProjects))
	mux.HandleFunc("/api/getProjectPages", s.logged("getProjectPages", s.handleProjectPages))
	mux.HandleFunc("/api/getActiveProjects", s.logged("getActiveProjects", s.handleActiveProjects))
	mux.HandleFunc("/api/getActiveProjectPages", s.logged("getActiveProjectPages", s.handleActiveProjectPages))
	mux.HandleFunc("/api/getProjectMembers", s.logged("getProjectMembers", s.handleProjectMembers))
	mux.HandleFunc("/api/getProjectUserLinks", s.logged("getProjectUserLinks", s.handleProjectUserLinks))
	mux.HandleFunc("/api/getAnonCoords", s.logged("getAnonCoords", s.handleAnonCoords))
	mux.HandleFunc("/ws", s.hub.ServeWS)
	return mux
}

// logged wraps a handler with request logging and the per-request timeout.
func (s *Server) logged(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(os.Stderr, "Request handler %q was called\n", name)
		if s.cfg.RequestTimeout > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
			defer cancel()
			r = r.WithContext(ctx)
		}
		h(w, r)
	}
}

// Run serves the API until ctx is cancelled. When TLS is configured a second
// listener runs alongside the plain one, matching the original http/https
// pair.
func (s *Server) Run(ctx context.Context) error {
	handler := s.Handler()
	plain := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", s.cfg.ListenAddr)
		errCh <- plain.ListenAndServe()
	}()

	var secure *http.Server
	if s.cfg.TLSAddr != "" && s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
		secure = &http.Server{
			Addr:              s.cfg.TLSAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			fmt.Fprintf(os.Stderr, "Listening on %s (TLS)\n", s.cfg.TLSAddr)
			errCh <- secure.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		}()
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := plain.Shutdown(shutdownCtx)
		if secure != nil {
			if serr := secure.Shutdown(shutdownCtx); err == nil {
				err = serr
			}
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
