package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
	"github.com/claude/fithome/internal/profile"
	"github.com/claude/fithome/internal/session"
	"github.com/claude/fithome/internal/storage"
)

// Store is the persistence the HTTP handlers read and write.
type Store interface {
	home.StatsSource
	home.RoutineSource
	home.ChallengeSource
	profile.Store
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	InsertRoutine(ctx context.Context, r models.Routine) (*models.Routine, error)
	GetRoutine(ctx context.Context, id uuid.UUID, userID int) (*models.Routine, error)
	DeleteRoutine(ctx context.Context, id uuid.UUID, userID int) error
	InsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (uuid.UUID, error)
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
}

var _ Store = (*storage.DB)(nil)

// Deps are the components a Server is built from.
type Deps struct {
	Store     Store
	Profiles  *profile.Service
	Generator home.PlanGenerator
	Sessions  *session.Manager
	Slots     *session.SlotStore
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     Store
	profiles  *profile.Service
	generator home.PlanGenerator
	sessions  *session.Manager
	slots     *session.SlotStore
	whois     WhoIsClient
	log       *slog.Logger
	router    chi.Router

	mu         sync.Mutex
	generating map[string]bool
}

// New creates a new Server with all routes configured.
func New(deps Deps, log *slog.Logger) *Server {
	s := &Server{
		store:      deps.Store,
		profiles:   deps.Profiles,
		generator:  deps.Generator,
		sessions:   deps.Sessions,
		slots:      deps.Slots,
		log:        log,
		router:     chi.NewRouter(),
		generating: make(map[string]bool),
	}
	s.routes()
	return s
}

// SetTailscale switches identity from the local dev user to Tailscale WhoIs.
func (s *Server) SetTailscale(wc WhoIsClient) {
	s.whois = wc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identify)

		r.Get("/me", s.handleMe)
		r.Put("/me", s.handleUpdateMe)

		// Home screen
		r.Get("/home", s.handleHome)
		r.Post("/home/suggested/start", s.handleStartSuggested)
		r.Get("/home/suggested/plan", s.handleSuggestedPlan)

		r.Get("/stats", s.handleStats)
		r.Get("/routines", s.handleListRoutines)
		r.Post("/routines", s.handleCreateRoutine)
		r.Get("/routines/{id}", s.handleGetRoutine)
		r.Delete("/routines/{id}", s.handleDeleteRoutine)
		r.Post("/workouts/log", s.handleLogWorkout)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/challenges/next", s.handleNextChallenge)
		r.Post("/plans/generate", s.handleGeneratePlan)
	})
}

// SetFrontend mounts a static SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		f, err := webFS.Open(r.URL.Path[1:])
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

// beginGenerating marks a session as generating. It reports false when a
// generation for that session is already running.
func (s *Server) beginGenerating(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating[sessionID] {
		return false
	}
	s.generating[sessionID] = true
	return true
}

func (s *Server) endGenerating(sessionID string) {
	s.mu.Lock()
	delete(s.generating, sessionID)
	s.mu.Unlock()
}

func (s *Server) isGenerating(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating[sessionID]
}
