package server

import (
	"errors"
	"net/http"

	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/session"
)

// HomeResponse is the body of GET /api/v1/home.
type HomeResponse struct {
	View   home.View `json:"view"`
	Toasts []string  `json:"toasts"`
}

// StartResponse is the body of POST /api/v1/home/suggested/start.
type StartResponse struct {
	Navigation *home.Navigation `json:"navigation,omitempty"`
	Toasts     []string         `json:"toasts"`
	Error      string           `json:"error,omitempty"`
}

// navRecorder captures the navigation requested by a screen during one request.
type navRecorder struct {
	nav *home.Navigation
}

func (n *navRecorder) Navigate(nav home.Navigation) {
	n.nav = &nav
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r)
	if sess == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		s.log.Warn("starting fresh session", "error", err)
	}
	return sess, true
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Save(r, w); err != nil {
		s.log.Error("saving session", "session", sess.ID(), "error", err)
	}
}

func (s *Server) screenDeps(sess *session.Session, nav home.Navigator) home.Deps {
	deps := home.Deps{
		Stats:      s.store,
		Routines:   s.store,
		Challenges: s.store,
		Generator:  s.generator,
		Slot:       s.slots.Bind(sess.ID()),
		Notifier:   sess.Notifier(),
		Navigator:  nav,
	}
	if s.profiles != nil {
		deps.Profile = s.profiles.Notifier()
	}
	return deps
}

// primeProfile makes sure the notifier knows the caller's display name before
// a screen subscribes.
func (s *Server) primeProfile(r *http.Request, info UserInfo) {
	if s.profiles == nil {
		return
	}
	u, err := s.profiles.Get(r.Context(), info.ID)
	if err == nil && u.DisplayName != "" {
		return
	}
	if err != nil {
		s.log.Warn("loading profile", "user_id", info.ID, "error", err)
	}
	s.profiles.Notifier().Publish(info.ID, info.DisplayName)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	info := userInfoFromContext(r)
	s.primeProfile(r, info)

	screen := home.New(info.ID, s.screenDeps(sess, &navRecorder{}), s.log)
	screen.Mount(r.Context())
	screen.Unmount()

	view := screen.View()
	view.IsGenerating = s.isGenerating(sess.ID())
	if view.Suggestion != nil {
		if err := sess.SetSuggestion(*view.Suggestion); err != nil {
			s.log.Error("storing suggestion", "error", err)
		}
	}
	toasts := sess.Flashes()
	s.saveSession(w, r, sess)

	writeJSON(w, http.StatusOK, HomeResponse{View: view, Toasts: nonNil(toasts)})
}

func (s *Server) handleStartSuggested(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	sug, ok := sess.Suggestion()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no suggested workout, load the home screen first"})
		return
	}
	if !s.beginGenerating(sess.ID()) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": home.ErrAlreadyGenerating.Error()})
		return
	}
	defer s.endGenerating(sess.ID())

	nav := &navRecorder{}
	screen := home.New(userIDFromContext(r), s.screenDeps(sess, nav), s.log, home.WithSuggestion(sug))
	err := screen.StartSuggestedWorkout(r.Context())
	toasts := nonNil(sess.Flashes())
	s.saveSession(w, r, sess)

	switch {
	case errors.Is(err, home.ErrAlreadyGenerating):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, StartResponse{Toasts: toasts, Error: home.GenerateFailedMessage})
	default:
		writeJSON(w, http.StatusOK, StartResponse{Navigation: nav.nav, Toasts: toasts})
	}
}

func (s *Server) handleSuggestedPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	data, err := s.slots.Get(r.Context(), sess.ID(), home.SlotKey)
	if errors.Is(err, session.ErrSlotEmpty) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no suggested plan stored"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func nonNil(toasts []string) []string {
	if toasts == nil {
		return []string{}
	}
	return toasts
}
