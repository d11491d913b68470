package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/UnknownOlympus/hestia/internal/ui"
	"github.com/google/uuid"
)

const (
	sessionCookie = "hestia_session"

	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1000
)

type session struct {
	board    *ui.ViewModel
	lastSeen time.Time
}

// Sessions keeps one view model per browser, keyed by the session cookie.
// Sessions idle for longer than the TTL are dropped, and once the cap is
// reached the least recently seen session makes room for a new one.
type Sessions struct {
	log     *slog.Logger
	service tasks.TaskService
	metrics *metrics.Metrics

	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu     sync.Mutex
	boards map[string]*session
}

type SessionsOption func(*Sessions)

// WithIdleTTL sets how long an unused session is kept. Zero keeps sessions until evicted by the cap.
func WithIdleTTL(ttl time.Duration) SessionsOption {
	return func(s *Sessions) { s.ttl = ttl }
}

// WithMaxSessions caps the number of live sessions. Zero disables the cap.
func WithMaxSessions(limit int) SessionsOption {
	return func(s *Sessions) { s.maxSessions = limit }
}

func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

func NewSessions(
	log *slog.Logger,
	service tasks.TaskService,
	metrics *metrics.Metrics,
	opts ...SessionsOption,
) *Sessions {
	sessions := &Sessions{
		log:         log,
		service:     service,
		metrics:     metrics,
		ttl:         defaultSessionTTL,
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		boards:      make(map[string]*session),
	}
	for _, opt := range opts {
		opt(sessions)
	}

	return sessions
}

// Board returns the view model of the request's session, creating the
// session and setting its cookie when the request carries no live one.
func (s *Sessions) Board(writer http.ResponseWriter, req *http.Request) *ui.ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if board, ok := s.lookup(req, now); ok {
		return board
	}

	s.evict(now)

	id := uuid.NewString()
	board := ui.NewViewModel(s.log, tasks.NewStore(s.log, s.service))
	s.boards[id] = &session{board: board, lastSeen: now}
	s.metrics.Sessions.Set(float64(len(s.boards)))

	http.SetCookie(writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.DebugContext(req.Context(), "New board session", "session", id)

	return board
}

// Lookup returns the view model of the request's session without creating one.
func (s *Sessions) Lookup(req *http.Request) (*ui.ViewModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(req, s.now())
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.boards)
}

// lookup must be called with the mutex held.
func (s *Sessions) lookup(req *http.Request, now time.Time) (*ui.ViewModel, bool) {
	cookie, err := req.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}

	entry, ok := s.boards[cookie.Value]
	if !ok {
		return nil, false
	}
	if s.expired(entry, now) {
		delete(s.boards, cookie.Value)
		s.metrics.Sessions.Set(float64(len(s.boards)))
		return nil, false
	}

	entry.lastSeen = now
	return entry.board, true
}

// evict drops expired sessions and, at the cap, the least recently seen ones.
// It must be called with the mutex held.
func (s *Sessions) evict(now time.Time) {
	for id, entry := range s.boards {
		if s.expired(entry, now) {
			delete(s.boards, id)
		}
	}

	for s.maxSessions > 0 && len(s.boards) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, entry := range s.boards {
			if oldestID == "" || entry.lastSeen.Before(oldest) {
				oldestID, oldest = id, entry.lastSeen
			}
		}
		delete(s.boards, oldestID)
		s.log.Debug("Board session evicted", "session", oldestID)
	}

	s.metrics.Sessions.Set(float64(len(s.boards)))
}

func (s *Sessions) expired(entry *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
