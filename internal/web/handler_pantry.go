package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sajithv/hospmeals/internal/domain"
)

func (s *Server) handlePantryStaffPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).PantryStaff
	_ = ctrl.Load(r.Context())
	s.renderPantryStaff(w, r, nil)
}

func (s *Server) renderPantryStaff(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	state, staff, lastErr := s.controllers(r).PantryStaff.Snapshot()

	data := map[string]any{
		"Staff": staff,
		"State": state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/pantry_staff.html")
}

func (s *Server) handleAddPantryStaff(w http.ResponseWriter, r *http.Request) {
	draft := domain.PantryStaffDraft{
		StaffName:   strings.TrimSpace(r.FormValue("staffName")),
		ContactInfo: strings.TrimSpace(r.FormValue("contactInfo")),
		Location:    strings.TrimSpace(r.FormValue("location")),
	}

	if err := s.controllers(r).PantryStaff.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderPantryStaff(w, r, map[string]any{"Error": "Please fill in all required fields.", "Draft": draft})
			return
		}
		s.logger.Error("add pantry staff failed", "error", err)
		s.renderPantryStaff(w, r, map[string]any{"Error": "Failed to add pantry staff.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/pantry-staff", http.StatusSeeOther)
}

func (s *Server) handleDeletePantryStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.controllers(r).PantryStaff.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete pantry staff failed", "id", id, "error", err)
		s.renderPantryStaff(w, r, map[string]any{"Error": "Could not delete the staff member."})
		return
	}
	http.Redirect(w, r, "/pantry-staff", http.StatusSeeOther)
}

func (s *Server) handlePantryTasksPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).PantryTasks
	_ = ctrl.Load(r.Context())
	s.renderPantryTasks(w, r, nil)
}

func (s *Server) renderPantryTasks(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	state, tasks, lastErr := s.controllers(r).PantryTasks.Snapshot()

	data := map[string]any{
		"Tasks": tasks,
		"State": state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/pantry_tasks.html")
}

func (s *Server) handleAddPantryTask(w http.ResponseWriter, r *http.Request) {
	draft := domain.PantryTaskDraft{
		PantryStaffID: formInt64(r, "pantryStaffId"),
		Task:          strings.TrimSpace(r.FormValue("task")),
		Status:        domain.StatusPending,
	}

	if err := s.controllers(r).PantryTasks.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderPantryTasks(w, r, map[string]any{"Error": "Please fill in all fields.", "Draft": draft})
			return
		}
		s.logger.Error("add pantry task failed", "error", err)
		s.renderPantryTasks(w, r, map[string]any{"Error": "Failed to add task.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/pantry-tasks", http.StatusSeeOther)
}

func (s *Server) handleUpdatePantryTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := domain.ParseTaskStatus(r.FormValue("status"))
	if err != nil {
		s.renderPantryTasks(w, r, map[string]any{"Error": "Unknown status."})
		return
	}

	if err := s.controllers(r).PantryTasks.Update(r.Context(), id, domain.StatusPatch{Status: status}); err != nil {
		s.logger.Error("update pantry task failed", "id", id, "error", err)
		s.renderPantryTasks(w, r, map[string]any{"Error": "Could not update the task status."})
		return
	}
	http.Redirect(w, r, "/pantry-tasks", http.StatusSeeOther)
}

func (s *Server) handleDeletePantryTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.controllers(r).PantryTasks.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete pantry task failed", "id", id, "error", err)
		s.renderPantryTasks(w, r, map[string]any{"Error": "Could not delete the task."})
		return
	}
	http.Redirect(w, r, "/pantry-tasks", http.StatusSeeOther)
}
