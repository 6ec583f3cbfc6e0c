// Package server runs the planner as a local web app: the page, the
// action API, and a server-sent event stream of render updates.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/remote"
	"github.com/theirongolddev/tripvault/internal/render"
	"github.com/theirongolddev/tripvault/internal/share"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr             string
	EventsBuffer     int
	AutosaveInterval time.Duration
}

// Event is one streamed render.
type Event struct {
	ID        int64         `json:"id"`
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Update    render.Update `json:"update"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	Seq             int64     `json:"seq"`
	Days            int       `json:"days"`
	TripTotal       float64   `json:"trip_total"`
	RemoteEnabled   bool      `json:"remote_enabled"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// RemoteClient is the save service as the server uses it.
type RemoteClient interface {
	planner.Saver
	LoginURL() string
}

// Service serves one planner session over HTTP.
type Service struct {
	cfg      Config
	session  *planner.Session
	renderer *render.Renderer
	remote   RemoteClient
	tripIDs  planner.TripIDCache
	log      *slog.Logger
	metrics  *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// Deps are the collaborators a Service drives. Remote and TripIDs may be
// nil when no save service is configured.
type Deps struct {
	Session  *planner.Session
	Renderer *render.Renderer
	Remote   RemoteClient
	TripIDs  planner.TripIDCache
	Logger   *slog.Logger
}

// New returns a new server with the provided config.
func New(cfg Config, deps Deps) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		session:   deps.Session,
		renderer:  deps.Renderer,
		remote:    deps.Remote,
		tripIDs:   deps.TripIDs,
		log:       deps.Logger,
		metrics:   newMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /api/actions", s.handleAction)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/share", s.handleShare)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(render.Static())))
	return mux
}

// Run serves HTTP and streams render passes until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	subID, frames := s.session.Subscribe(64)
	defer s.session.Unsubscribe(subID)

	autosaveCtx, stopAutosave := context.WithCancel(ctx)
	defer stopAutosave()
	go s.session.Autosave(autosaveCtx, s.cfg.AutosaveInterval)

	s.log.Info("planner listening", "addr", "http://"+s.cfg.Addr)

	for {
		select {
		case <-ctx.Done():
			s.session.Flush()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			s.handleFrame(f)
		case err := <-errCh:
			return fmt.Errorf("planner http server: %w", err)
		}
	}
}

func (s *Service) handleFrame(f planner.Frame) {
	u, err := s.renderer.Update(f)
	if err != nil {
		s.log.Error("render failed", "seq", f.Seq, "err", err)
		return
	}
	kind := "totals"
	if f.Full {
		kind = "full"
	}
	s.metrics.renders.WithLabelValues(kind).Inc()
	s.metrics.tripTotal.Set(f.Result.TripTotal)

	s.mu.Lock()
	s.nextEventID++
	ev := Event{ID: s.nextEventID, Type: "render", Timestamp: f.At, Update: u}
	s.mu.Unlock()
	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	it, res := s.session.Snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Seq:             s.session.Seq(),
		Days:            len(it.Days),
		TripTotal:       res.TripTotal,
		RemoteEnabled:   s.remote != nil,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handlePage(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get(share.Param); token != "" {
		it, err := share.DecodeOnto(token, s.session.Itinerary())
		if err != nil {
			s.log.Debug("ignoring share link", "err", err)
		} else {
			s.session.Replace(it)
			s.session.Flush()
		}
	}

	it, res := s.session.Snapshot()
	in := render.PageInput{
		Itinerary:     it,
		Result:        res,
		Seq:           s.session.Seq(),
		RemoteEnabled: s.remote != nil,
	}
	if s.remote != nil {
		in.SavedTripsURL = s.remote.SavedTripsURL()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, in); err != nil {
		s.log.Error("rendering page", "err", err)
		http.Error(w, "Template Error", http.StatusInternalServerError)
	}
}

func (s *Service) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Itinerary())
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	_, res := s.session.Snapshot()
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleShare(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	link, err := share.Link(scheme+"://"+r.Host+"/", s.session.Itinerary())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

type saveRequest struct {
	AsNew bool `json:"asNew"`
}

type saveResponse struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	TripID   int64  `json:"tripId,omitempty"`
	Link     string `json:"link,omitempty"`
	LoginURL string `json:"loginUrl,omitempty"`
}

func (s *Service) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.remote == nil {
		writeJSON(w, http.StatusServiceUnavailable, saveResponse{Message: "remote save is not configured"})
		return
	}
	var req saveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, saveResponse{Message: "invalid request body"})
			return
		}
	}

	out, err := s.session.Save(r.Context(), s.remote, s.tripIDs, req.AsNew)
	if err != nil {
		resp := saveResponse{Message: out.Notice.Text}
		status := http.StatusBadGateway
		if errors.Is(err, remote.ErrUnauthorized) {
			s.metrics.saves.WithLabelValues("unauthorized").Inc()
			resp.LoginURL = s.remote.LoginURL()
			status = http.StatusUnauthorized
		} else {
			s.metrics.saves.WithLabelValues("error").Inc()
		}
		writeJSON(w, status, resp)
		return
	}

	s.metrics.saves.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, saveResponse{
		OK:      true,
		Message: out.Notice.Text,
		TripID:  out.Result.TripID,
		Link:    out.Notice.Link,
	})
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Open with a full render of the current state.
	it, res := s.session.Snapshot()
	current, err := s.renderer.Update(planner.Frame{
		Seq:       s.session.Seq(),
		Full:      true,
		At:        time.Now(),
		Itinerary: it,
		Result:    res,
	})
	if err == nil {
		writeSSE(w, Event{Type: "render", Timestamp: time.Now(), Update: current})
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev.Update)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Set(float64(len(s.subs)))
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
	s.metrics.subscribers.Set(float64(len(s.subs)))
}
