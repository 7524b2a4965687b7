package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sajithv/hospmeals/internal/domain"
)

func (s *Server) handleFoodChartsPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).FoodCharts
	_ = ctrl.Load(r.Context())
	s.renderFoodCharts(w, r, nil)
}

func (s *Server) renderFoodCharts(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	state, charts, lastErr := s.controllers(r).FoodCharts.Snapshot()

	data := map[string]any{
		"Charts": charts,
		"State":  state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/food_charts.html")
}

func (s *Server) handleAddFoodChart(w http.ResponseWriter, r *http.Request) {
	draft := domain.FoodChartDraft{
		PatientID:    formInt64(r, "patientId"),
		MorningMeal:  strings.TrimSpace(r.FormValue("morningMeal")),
		EveningMeal:  strings.TrimSpace(r.FormValue("eveningMeal")),
		NightMeal:    strings.TrimSpace(r.FormValue("nightMeal")),
		Ingredients:  strings.TrimSpace(r.FormValue("ingredients")),
		Instructions: strings.TrimSpace(r.FormValue("instructions")),
	}

	if err := s.controllers(r).FoodCharts.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderFoodCharts(w, r, map[string]any{"Error": "Please fill in all required fields.", "Draft": draft})
			return
		}
		s.logger.Error("add food chart failed", "error", err)
		s.renderFoodCharts(w, r, map[string]any{"Error": "Failed to add food chart.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/food-charts", http.StatusSeeOther)
}

func (s *Server) handleDeleteFoodCharts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ids := r.Form["selected"]
	if len(ids) == 0 {
		s.renderFoodCharts(w, r, map[string]any{"Error": "Select at least one food chart to delete."})
		return
	}

	ctrl := s.controllers(r).FoodCharts
	ctrl.ClearSelection()
	for _, id := range ids {
		ctrl.ToggleSelect(id)
	}
	if err := ctrl.DeleteMany(r.Context(), ctrl.Selected()); err != nil {
		s.logger.Error("delete food charts failed", "error", err)
		s.renderFoodCharts(w, r, map[string]any{"Error": "Some food charts could not be deleted."})
		return
	}
	http.Redirect(w, r, "/food-charts", http.StatusSeeOther)
}
