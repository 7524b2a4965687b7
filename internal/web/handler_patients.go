package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sajithv/hospmeals/internal/access"
	"github.com/sajithv/hospmeals/internal/domain"
)

func (s *Server) handlePatientsPage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllers(r).Patients
	_ = ctrl.Load(r.Context())
	s.renderPatients(w, r, nil)
}

func (s *Server) renderPatients(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	ctrl := s.controllers(r).Patients
	state, patients, lastErr := ctrl.Snapshot()

	data := map[string]any{
		"Patients": patients,
		"State":    state.String(),
	}
	if lastErr != nil {
		data["Error"] = staleListMessage
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderPage(w, r, data, "pages/patients.html")
}

func (s *Server) handleAddPatient(w http.ResponseWriter, r *http.Request) {
	draft := domain.PatientDraft{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Email:      strings.TrimSpace(r.FormValue("email")),
		Age:        formInt(r, "age"),
		Status:     "pending",
		Disease:    strings.TrimSpace(r.FormValue("disease")),
		RoomNumber: formInt(r, "roomNumber"),
	}

	if err := s.controllers(r).Patients.Add(r.Context(), draft); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderPatients(w, r, map[string]any{"Error": "Please fill in all required fields.", "Draft": draft})
			return
		}
		s.logger.Error("add patient failed", "error", err)
		s.renderPatients(w, r, map[string]any{"Error": "Failed to add patient.", "Draft": draft})
		return
	}
	http.Redirect(w, r, "/patients", http.StatusSeeOther)
}

func (s *Server) handleDeletePatients(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ids := r.Form["selected"]
	if len(ids) == 0 {
		s.renderPatients(w, r, map[string]any{"Error": "Select at least one patient to delete."})
		return
	}

	ctrl := s.controllers(r).Patients
	ctrl.ClearSelection()
	for _, id := range ids {
		ctrl.ToggleSelect(id)
	}
	if err := ctrl.DeleteMany(r.Context(), ctrl.Selected()); err != nil {
		s.logger.Error("delete patients failed", "error", err)
		s.renderPatients(w, r, map[string]any{"Error": "Some patients could not be deleted."})
		return
	}
	http.Redirect(w, r, "/patients", http.StatusSeeOther)
}

// handlePatientFoodChart shows the diet chart linked to one patient, the
// "View Food Chart" drill-down from the patients table.
func (s *Server) handlePatientFoodChart(w http.ResponseWriter, r *http.Request) {
	sess := access.FromContext(r.Context())
	patientID := chi.URLParam(r, "id")

	chart, err := s.client.GetFoodChartByPatient(r.Context(), sess.Token, patientID)
	if err != nil {
		s.logger.Error("fetch food chart failed", "patient_id", patientID, "error", err)
		s.renderPage(w, r, map[string]any{
			"Error":     "Could not load the food chart for this patient.",
			"PatientID": patientID,
		}, "pages/food_chart_detail.html")
		return
	}
	s.renderPage(w, r, map[string]any{
		"Chart":     chart,
		"PatientID": patientID,
	}, "pages/food_chart_detail.html")
}

// formInt reads a numeric form field, treating garbage as zero so the
// presence checks catch it.
func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	return n
}

func formInt64(r *http.Request, field string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(field)), 10, 64)
	return n
}
