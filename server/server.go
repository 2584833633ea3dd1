// Package server exposes the background context over HTTP: the page message
// channel, the settings surface and the trigger entry points.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"grammar_enhancer/bridge"
	"grammar_enhancer/settings"
	"grammar_enhancer/trigger"
)

// Triggers receives the entry points; *trigger.Dispatcher implements it.
type Triggers interface {
	OnCommand(ctx context.Context, name string) bool
	OnContextMenu(ctx context.Context, menuItemID, selectionText string) bool
}

type Server struct {
	background *bridge.Background
	store      settings.Store
	triggers   Triggers
	logger     *zap.Logger
	page       *settingsPage
}

// New wires the handlers. triggers may be nil for a background that serves no
// pages of its own; the trigger routes then answer 503.
func New(bg *bridge.Background, store settings.Store, triggers Triggers, logger *zap.Logger) (*Server, error) {
	if bg == nil {
		return nil, errors.New("background required")
	}
	if store == nil {
		return nil, errors.New("settings store required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := newSettingsPage()
	if err != nil {
		return nil, err
	}
	return &Server{
		background: bg,
		store:      store,
		triggers:   triggers,
		logger:     logger,
		page:       page,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/api/settings", s.getSettings)
	r.Get("/health", s.health)
	r.Group(func(r chi.Router) {
		// Writes only come from our own page or from non-browser clients.
		r.Use(sameOrigin)
		r.Use(middleware.AllowContentType("application/json"))
		r.Post(bridge.MessagesPath, s.handleMessage)
		r.Post("/api/settings", s.updateSettings)
		r.Post("/api/commands/{name}", s.runCommand)
		r.Post("/api/context-menu", s.clickContextMenu)
	})
	r.Get("/", s.settingsPage)
	return r
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg bridge.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.background.Handle(r.Context(), msg))
}

type commandResponse struct {
	Handled bool `json:"handled"`
}

func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		http.Error(w, "no page attached", http.StatusServiceUnavailable)
		return
	}
	name := chi.URLParam(r, "name")
	writeJSON(w, commandResponse{Handled: s.triggers.OnCommand(r.Context(), name)})
}

type contextMenuRequest struct {
	MenuItemID    string `json:"menuItemId"`
	SelectionText string `json:"selectionText"`
}

func (s *Server) clickContextMenu(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		http.Error(w, "no page attached", http.StatusServiceUnavailable)
		return
	}
	var req contextMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	handled := s.triggers.OnContextMenu(r.Context(), req.MenuItemID, req.SelectionText)
	writeJSON(w, commandResponse{Handled: handled})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// sameOrigin rejects browser requests sent from pages we did not serve.
// Requests without an Origin header (curl, desktop shortcuts, HTTPChannel)
// pass through.
func sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" || !strings.EqualFold(u.Host, r.Host) {
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

var _ Triggers = (*trigger.Dispatcher)(nil)
