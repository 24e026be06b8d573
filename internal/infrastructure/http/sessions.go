package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/infrastructure/logx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookie = "rt_session"

type session struct {
	ctl      *application.Controller
	lastSeen time.Time
}

// sessions maps browser sessions to their controllers.
type sessions struct {
	ttl    time.Duration
	newCtl func() *application.Controller
	now    func() time.Time

	mu   sync.Mutex
	byID map[string]*session
}

func newSessions(ttl time.Duration, newCtl func() *application.Controller) *sessions {
	return &sessions{ttl: ttl, newCtl: newCtl, now: time.Now, byID: map[string]*session{}}
}

// controllerFor returns the controller of the request's session, creating
// the session and setting its cookie when needed.
func (s *sessions) controllerFor(w http.ResponseWriter, r *http.Request) *application.Controller {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byID[id]; ok {
		sess.lastSeen = s.now()
		return sess.ctl
	}
	id = uuid.NewString()
	sess := &session{ctl: s.newCtl(), lastSeen: s.now()}
	s.byID[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl / time.Second),
	})
	return sess.ctl
}

// sweep drops sessions idle for longer than ttl and reports how many were dropped.
func (s *sessions) sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.byID {
		if sess.lastSeen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// run sweeps idle sessions until ctx is canceled.
func (s *sessions) run(ctx context.Context) {
	every := s.ttl / 2
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	log := logx.L().With(zap.String("worker", "sessions"))
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sweep(); n > 0 {
				log.Debug("sessions.swept", zap.Int("dropped", n), zap.Int("active", s.len()))
			}
		}
	}
}
