package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sajithv/hospmeals/internal/domain"
)

func (s *Server) handleMealPrepsPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).MealPreps
	_ = ctrl.Load(r.Context())
	s.renderMealPreps(w, r, nil)
}

func (s *Server) renderMealPreps(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	state, meals, lastErr := s.controllers(r).MealPreps.Snapshot()

	data := map[string]any{
		"Meals": meals,
		"State": state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/meal_preparations.html")
}

func (s *Server) handleAddMealPrep(w http.ResponseWriter, r *http.Request) {
	draft := domain.MealPreparationDraft{
		FoodChartID: formInt64(r, "foodChartId"),
		Status:      domain.StatusPending,
		Notes:       strings.TrimSpace(r.FormValue("notes")),
	}

	if err := s.controllers(r).MealPreps.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderMealPreps(w, r, map[string]any{"Error": "Please fill in all required fields.", "Draft": draft})
			return
		}
		s.logger.Error("add meal preparation failed", "error", err)
		s.renderMealPreps(w, r, map[string]any{"Error": "Failed to add meal preparation.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/meal-preparations", http.StatusSeeOther)
}

func (s *Server) handleUpdateMealPrep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := domain.ParseTaskStatus(r.FormValue("status"))
	if err != nil {
		s.renderMealPreps(w, r, map[string]any{"Error": "Unknown status."})
		return
	}

	if err := s.controllers(r).MealPreps.Update(r.Context(), id, domain.StatusPatch{Status: status}); err != nil {
		s.logger.Error("update meal preparation failed", "id", id, "error", err)
		s.renderMealPreps(w, r, map[string]any{"Error": "Could not update the meal status."})
		return
	}
	http.Redirect(w, r, "/meal-preparations", http.StatusSeeOther)
}

func (s *Server) handleDeleteMealPrep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.controllers(r).MealPreps.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete meal preparation failed", "id", id, "error", err)
		s.renderMealPreps(w, r, map[string]any{"Error": "Could not delete the meal preparation."})
		return
	}
	http.Redirect(w, r, "/meal-preparations", http.StatusSeeOther)
}

func (s *Server) handleDeliveriesPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).Deliveries
	_ = ctrl.Load(r.Context())
	s.renderDeliveries(w, r, nil)
}

func (s *Server) renderDeliveries(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	state, deliveries, lastErr := s.controllers(r).Deliveries.Snapshot()

	data := map[string]any{
		"Deliveries": deliveries,
		"State":      state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/deliveries.html")
}

func (s *Server) handleAddDelivery(w http.ResponseWriter, r *http.Request) {
	draft := domain.MealDeliveryDraft{
		FoodChartID: formInt64(r, "foodChartId"),
		Status:      domain.StatusPending,
		Notes:       strings.TrimSpace(r.FormValue("notes")),
	}

	if err := s.controllers(r).Deliveries.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderDeliveries(w, r, map[string]any{"Error": "Please fill in all required fields.", "Draft": draft})
			return
		}
		s.logger.Error("add delivery failed", "error", err)
		s.renderDeliveries(w, r, map[string]any{"Error": "Failed to add delivery.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/deliveries", http.StatusSeeOther)
}

func (s *Server) handleUpdateDelivery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := domain.ParseTaskStatus(r.FormValue("status"))
	if err != nil {
		s.renderDeliveries(w, r, map[string]any{"Error": "Unknown status."})
		return
	}

	if err := s.controllers(r).Deliveries.Update(r.Context(), id, domain.StatusPatch{Status: status}); err != nil {
		s.logger.Error("update delivery failed", "id", id, "error", err)
		s.renderDeliveries(w, r, map[string]any{"Error": "Could not update the delivery status."})
		return
	}
	http.Redirect(w, r, "/deliveries", http.StatusSeeOther)
}

func (s *Server) handleDeleteDelivery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.controllers(r).Deliveries.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete delivery failed", "id", id, "error", err)
		s.renderDeliveries(w, r, map[string]any{"Error": "Could not delete the delivery."})
		return
	}
	http.Redirect(w, r, "/deliveries", http.StatusSeeOther)
}
