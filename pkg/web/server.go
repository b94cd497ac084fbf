package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Dashboard is the set of actions the web front end can trigger.
type Dashboard interface {
	View() bus.View
	Generate(level event.Level) event.Event
	Reset()
	SetFilter(level event.Level)
	SetThreshold(n int) int
	RefreshTopology() dashboard.Topology
}

// recentAlerts is how many alerts the page shows.
const recentAlerts = 5

type Server struct {
	dash      Dashboard
	hub       *Hub
	templates *template.Template
	keepalive time.Duration
}

func NewServer(dash Dashboard, hub *Hub) (*Server, error) {
	if dash == nil {
		return nil, errors.New("missing dashboard")
	}
	if hub == nil {
		hub = NewHub()
	}
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Server{
		dash:      dash,
		hub:       hub,
		templates: tmpl,
		keepalive: 15 * time.Second,
	}, nil
}

var templateFuncs = template.FuncMap{
	"clock":   dashboard.FormatTime,
	"lower":   strings.ToLower,
	"percent": func(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) },
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}

type levelButton struct {
	Name   string
	Active bool
}

type pageData struct {
	Title     string
	Snapshot  dashboard.Snapshot
	Alerts    []pipeline.Alert
	Buttons   []levelButton
	Inodes    map[string]uint64
	Errors    uint64
	Warnings  uint64
	Seq       uint64
	MaxThresh int
}

func newPageData(v bus.View) pageData {
	snap := v.Snapshot
	buttons := make([]levelButton, 0, len(event.Levels))
	for _, l := range event.Levels {
		buttons = append(buttons, levelButton{Name: l.String(), Active: l == snap.FilterLevel})
	}
	inodes := make(map[string]uint64, len(dashboard.NodeNames))
	for _, name := range dashboard.NodeNames {
		inodes[name] = snap.Topology.Inode(name)
	}

	alerts := make([]pipeline.Alert, 0, recentAlerts)
	for i := len(v.Alerts) - 1; i >= 0 && len(alerts) < recentAlerts; i-- {
		alerts = append(alerts, v.Alerts[i])
	}

	return pageData{
		Title:     "ALIN Stream Dashboard",
		Snapshot:  snap,
		Alerts:    alerts,
		Buttons:   buttons,
		Inodes:    inodes,
		Errors:    snap.Count(event.LevelError),
		Warnings:  snap.Count(event.LevelWarn),
		Seq:       v.Seq,
		MaxThresh: dashboard.MaxThreshold,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFS, "static")
	if err == nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /fragments/dashboard", s.handleFragment)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /events", s.handleEvents)

	mux.HandleFunc("POST /actions/reset", s.action(func(r *http.Request) error {
		s.dash.Reset()
		return nil
	}))
	mux.HandleFunc("POST /actions/refresh", s.action(func(r *http.Request) error {
		s.dash.RefreshTopology()
		return nil
	}))
	mux.HandleFunc("POST /actions/generate/{level}", s.action(func(r *http.Request) error {
		l, err := event.ParseKnownLevel(r.PathValue("level"))
		if err != nil {
			return err
		}
		s.dash.Generate(l)
		return nil
	}))
	mux.HandleFunc("POST /actions/filter/{level}", s.action(func(r *http.Request) error {
		l, err := event.ParseFilterLevel(r.PathValue("level"))
		if err != nil {
			return err
		}
		s.dash.SetFilter(l)
		return nil
	}))
	mux.HandleFunc("POST /actions/threshold", s.action(func(r *http.Request) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("threshold")))
		if err != nil {
			return errors.Errorf("invalid threshold %q", r.PostFormValue("threshold"))
		}
		s.dash.SetThreshold(n)
		return nil
	}))

	return mux
}

// action wraps a mutation: bad input is a 400, success redirects back to the
// page.
func (s *Server) action(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r); err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected action")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) render(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, newPageData(s.dash.View())); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html")
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	s.render(w, "dashboard")
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.dash.View()); err != nil {
		log.Warn().Err(err).Msg("encode snapshot")
	}
}

type ssePayload struct {
	Seq   uint64 `json:"seq"`
	Total uint64 `json:"total"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(ssePayload{Seq: v.Seq, Total: v.Snapshot.Total})
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", b); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
