// Package session keeps per-client state: a cookie-backed session carrying
// the session ID, toasts and the current suggestion, plus a SQLite store for
// values too large for a cookie.
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/claude/fithome/internal/home"
)

const (
	keyID         = "sid"
	keySuggestion = "suggestion"
)

// Options configures the session cookie.
type Options struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

// Manager loads and saves sessions.
type Manager struct {
	store sessions.Store
	name  string
}

// NewManager creates a Manager backed by a signed cookie store.
func NewManager(opts Options) *Manager {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(opts.MaxAge.Seconds()))
	return &Manager{store: store, name: opts.Name}
}

// Get returns the request's session, starting a new one when the cookie is
// missing or no longer decodes. The error reports the decode failure.
func (m *Manager) Get(r *http.Request) (*Session, error) {
	raw, err := m.store.Get(r, m.name)
	if raw == nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	s := &Session{raw: raw}
	if _, ok := raw.Values[keyID].(string); !ok {
		raw.Values[keyID] = uuid.NewString()
	}
	if err != nil {
		return s, fmt.Errorf("decoding session cookie: %w", err)
	}
	return s, nil
}

// Session is one client's session.
type Session struct {
	raw *sessions.Session
}

// ID returns the stable session identifier.
func (s *Session) ID() string {
	id, _ := s.raw.Values[keyID].(string)
	return id
}

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool {
	return s.raw.IsNew
}

// AddFlash queues a toast for the client.
func (s *Session) AddFlash(msg string) {
	s.raw.AddFlash(msg)
}

// Flashes drains the queued toasts.
func (s *Session) Flashes() []string {
	var out []string
	for _, f := range s.raw.Flashes() {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Suggestion returns the suggestion last shown to this client.
func (s *Session) Suggestion() (home.Suggestion, bool) {
	data, ok := s.raw.Values[keySuggestion].(string)
	if !ok {
		return home.Suggestion{}, false
	}
	var sug home.Suggestion
	if err := json.Unmarshal([]byte(data), &sug); err != nil {
		return home.Suggestion{}, false
	}
	return sug, true
}

// SetSuggestion remembers the suggestion shown to this client.
func (s *Session) SetSuggestion(sug home.Suggestion) error {
	data, err := json.Marshal(sug)
	if err != nil {
		return fmt.Errorf("encoding suggestion: %w", err)
	}
	s.raw.Values[keySuggestion] = string(data)
	return nil
}

// Save writes the session cookie.
func (s *Session) Save(r *http.Request, w http.ResponseWriter) error {
	if err := s.raw.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Notifier returns a home.Notifier that queues toasts on this session.
func (s *Session) Notifier() home.Notifier {
	return FlashNotifier{session: s}
}

// FlashNotifier turns home screen toasts into session flashes.
type FlashNotifier struct {
	session *Session
}

func (n FlashNotifier) Error(message string) {
	n.session.AddFlash(message)
}
