package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/fithome/internal/models"
	"github.com/claude/fithome/internal/profile"
	"github.com/claude/fithome/internal/storage"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info := userInfoFromContext(r)
	if s.profiles != nil {
		u, err := s.profiles.Get(r.Context(), info.ID)
		switch {
		case err == nil && u.DisplayName != "":
			info.DisplayName = u.DisplayName
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			s.log.Warn("loading profile", "user_id", info.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	err := s.profiles.UpdateDisplayName(r.Context(), uid, body.DisplayName)
	switch {
	case errors.Is(err, profile.ErrInvalidDisplayName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	info := userInfoFromContext(r)
	info.DisplayName = strings.TrimSpace(body.DisplayName)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.store.ListRoutines(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

type createRoutineRequest struct {
	Name        string             `json:"name"`
	Preferences models.Preferences `json:"preferences"`
	Plan        *models.Plan       `json:"plan"`
}

func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req createRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if err := req.Preferences.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !req.Plan.Complete() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan requires warmup, rounds and cooldown"})
		return
	}

	saved, err := s.store.InsertRoutine(r.Context(), models.Routine{
		UserID:      uid,
		Name:        req.Name,
		Preferences: req.Preferences,
		Plan:        *req.Plan,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine ID"})
		return
	}

	routine, err := s.store.GetRoutine(r.Context(), id, userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine ID"})
		return
	}

	err = s.store.DeleteRoutine(r.Context(), id, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type logWorkoutRequest struct {
	RoutineID   *uuid.UUID `json:"routine_id"`
	DurationSec int        `json:"duration_sec"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req logWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DurationSec < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "duration_sec cannot be negative"})
		return
	}

	entry := models.WorkoutLog{UserID: uid, RoutineID: req.RoutineID, DurationSec: req.DurationSec}
	if req.CompletedAt != nil {
		entry.CompletedAt = *req.CompletedAt
	}
	id, err := s.store.InsertWorkoutLog(r.Context(), entry)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	defs, err := s.store.ListAchievements(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleNextChallenge(w http.ResponseWriter, r *http.Request) {
	next, err := s.store.GetNextChallenge(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := prefs.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	plan, err := s.generator.GeneratePlan(r.Context(), prefs)
	if err != nil {
		s.log.Error("plan generation failed", "goal", prefs.Goal, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "plan generation failed"})
		return
	}
	if !plan.Complete() {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "generated plan is incomplete"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
