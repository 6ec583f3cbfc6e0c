// Package planner owns the live itinerary. Every edit goes through a
// Session, which recomputes totals, publishes frames to subscribers and
// keeps the local draft current.
package planner

import (
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/tripvault/internal/config"
	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/pipeline"
)

// Default quiet windows of the two render paths.
const (
	DefaultFastWindow = 80 * time.Millisecond
	DefaultSlowWindow = 300 * time.Millisecond
)

// NoticeKind classifies a transient message shown to the user.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message carried by the next frame.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
	Link string     `json:"link,omitempty"`
}

// Frame is one render pass: a private copy of the plan and its totals.
// Full frames carry structural changes and rebuild day cards; the others
// only refresh totals. Subscribers share a frame and must not modify it.
type Frame struct {
	Seq       int64
	Full      bool
	At        time.Time
	Itinerary model.Itinerary
	Result    pipeline.Result
	Notice    *Notice
}

// DraftSink persists the plan after each render pass.
type DraftSink interface {
	SaveDraft(it model.Itinerary) error
}

// Options configures a Session. Zero values pick the defaults.
type Options struct {
	IDs        model.IDSource
	Tiers      config.TierTable
	Drafts     DraftSink
	FastWindow time.Duration
	SlowWindow time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// Session serializes edits to one itinerary.
type Session struct {
	ids    model.IDSource
	tiers  config.TierTable
	drafts DraftSink
	log    *slog.Logger
	now    func() time.Time

	fast *Debouncer
	slow *Debouncer

	mu        sync.Mutex
	it        model.Itinerary
	seq       int64
	notice    *Notice
	nextSubID int
	subs      map[int]chan Frame
	closed    bool

	persistMu    sync.Mutex
	persistedSeq int64
}

// New returns a session editing it.
func New(it model.Itinerary, opts Options) *Session {
	if opts.IDs == nil {
		opts.IDs = model.UUIDSource{}
	}
	if opts.Tiers == nil {
		opts.Tiers = config.DefaultTiers
	}
	if opts.FastWindow <= 0 {
		opts.FastWindow = DefaultFastWindow
	}
	if opts.SlowWindow <= 0 {
		opts.SlowWindow = DefaultSlowWindow
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	it = it.Clone()
	it.EnsureDay(opts.IDs)

	s := &Session{
		ids:    opts.IDs,
		tiers:  opts.Tiers,
		drafts: opts.Drafts,
		log:    opts.Logger,
		now:    opts.Now,
		it:     it,
		subs:   make(map[int]chan Frame),
	}
	s.fast = NewDebouncer(opts.FastWindow, func() { s.renderPass(true) })
	s.slow = NewDebouncer(opts.SlowWindow, func() { s.renderPass(false) })
	return s
}

// IDs returns the session's id source.
func (s *Session) IDs() model.IDSource { return s.ids }

// Itinerary returns a copy of the current plan.
func (s *Session) Itinerary() model.Itinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.it.Clone()
}

// Snapshot returns a copy of the current plan with fresh totals. It does
// not publish a frame.
func (s *Session) Snapshot() (model.Itinerary, pipeline.Result) {
	it := s.Itinerary()
	return it, pipeline.AggregateWith(it, s.tiers)
}

// Seq returns the number of the last published frame.
func (s *Session) Seq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Subscribe registers a frame channel with room for buf frames. Frames
// are dropped for a subscriber that is not keeping up.
func (s *Session) Subscribe(buf int) (int, <-chan Frame) {
	if buf < 1 {
		buf = 16
	}
	ch := make(chan Frame, buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return 0, ch
	}
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Session) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of live subscribers.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Notify attaches a notice to the next frame and schedules one.
func (s *Session) Notify(n Notice) {
	s.mu.Lock()
	s.notice = &n
	s.mu.Unlock()
	s.slow.Trigger()
}

// Refresh schedules a full frame without changing the plan.
func (s *Session) Refresh() { s.fast.Trigger() }

// Flush runs any scheduled render pass now. A pending full pass
// subsumes a pending totals pass.
func (s *Session) Flush() {
	if s.fast.Flush() {
		return
	}
	s.slow.Flush()
}

// Pending reports whether a render pass is scheduled.
func (s *Session) Pending() bool {
	return s.fast.Pending() || s.slow.Pending()
}

// Close flushes pending work, stops the debouncers and closes every
// subscriber channel.
func (s *Session) Close() {
	s.Flush()
	s.fast.Stop()
	s.slow.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) schedule(full bool) {
	if full {
		s.fast.Trigger()
		return
	}
	s.slow.Trigger()
}

// mutate applies fn under the session lock and schedules a render when
// fn reports a change.
func (s *Session) mutate(full bool, fn func(it *model.Itinerary) bool) bool {
	s.mu.Lock()
	ok := fn(&s.it)
	s.mu.Unlock()
	if ok {
		s.schedule(full)
	}
	return ok
}

func (s *Session) renderPass(full bool) {
	if full {
		s.slow.Cancel()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	frame := Frame{
		Seq:       s.seq,
		Full:      full,
		At:        s.now(),
		Itinerary: s.it.Clone(),
		Notice:    s.notice,
	}
	s.notice = nil
	frame.Result = pipeline.AggregateWith(frame.Itinerary, s.tiers)

	for _, ch := range s.subs {
		select {
		case ch <- frame:
		default:
		}
	}
	s.mu.Unlock()

	s.persist(frame.Seq, frame.Itinerary)
}

// persist writes the draft unless a newer pass already did.
func (s *Session) persist(seq int64, it model.Itinerary) {
	if s.drafts == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if seq <= s.persistedSeq {
		return
	}
	if err := s.drafts.SaveDraft(it); err != nil {
		s.log.Warn("draft save failed", "err", err)
		return
	}
	s.persistedSeq = seq
}
