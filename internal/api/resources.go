package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sajithv/hospmeals/internal/domain"
)

// ListPatients handles the one endpoint that returns a bare JSON array
// instead of the {success, ...} envelope. The quirk stops here.
func (c *Client) ListPatients(ctx context.Context, token string) ([]domain.Patient, error) {
	const op = "list patients"
	req, err := c.authed(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/patient")
	if err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	if resp.IsError() {
		observe(op, outcomeError)
		return nil, &RequestError{Op: op, Status: resp.StatusCode()}
	}
	var patients []domain.Patient
	if err := json.Unmarshal(resp.Body(), &patients); err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s: malformed response body: %w", op, err)
	}
	observe(op, outcomeOK)
	return patients, nil
}

func (c *Client) CreatePatient(ctx context.Context, token string, draft domain.PatientDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/patient", "create patient", draft)
}

func (c *Client) DeletePatient(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/patient/"+id, "delete patient", nil)
}

func (c *Client) ListFoodCharts(ctx context.Context, token string) ([]domain.FoodChart, error) {
	return listWrapped[domain.FoodChart](ctx, c, token, "/food-chart", "foodchart", "list food charts")
}

// GetFoodChartByPatient fetches the single chart linked to a patient.
// The response key differs in case from the list endpoint's (foodChart vs
// foodchart); both are the backend's spelling, not ours.
func (c *Client) GetFoodChartByPatient(ctx context.Context, token, patientID string) (*domain.FoodChart, error) {
	const op = "get food chart"
	req, err := c.authed(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/food-chart/" + patientID)
	if err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	if resp.IsError() {
		observe(op, outcomeError)
		return nil, &RequestError{Op: op, Status: resp.StatusCode()}
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s: malformed response body: %w", op, err)
	}
	if !env.Success {
		observe(op, outcomeError)
		return nil, &RequestError{Op: op, Status: resp.StatusCode()}
	}
	raw, ok := env.Fields["foodChart"]
	if !ok {
		observe(op, outcomeOK)
		return nil, nil
	}
	var chart domain.FoodChart
	if err := json.Unmarshal(raw, &chart); err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s: malformed foodChart field: %w", op, err)
	}
	observe(op, outcomeOK)
	return &chart, nil
}

func (c *Client) CreateFoodChart(ctx context.Context, token string, draft domain.FoodChartDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/food-chart", "create food chart", draft)
}

func (c *Client) DeleteFoodChart(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/food-chart/"+id, "delete food chart", nil)
}

func (c *Client) ListPantryStaff(ctx context.Context, token string) ([]domain.PantryStaff, error) {
	return listWrapped[domain.PantryStaff](ctx, c, token, "/pantry", "pantry", "list pantry staff")
}

func (c *Client) CreatePantryStaff(ctx context.Context, token string, draft domain.PantryStaffDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/pantry", "create pantry staff", draft)
}

func (c *Client) DeletePantryStaff(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/pantry/"+id, "delete pantry staff", nil)
}

func (c *Client) ListPantryTasks(ctx context.Context, token string) ([]domain.PantryTask, error) {
	return listWrapped[domain.PantryTask](ctx, c, token, "/pantry-items", "tasks", "list pantry tasks")
}

func (c *Client) CreatePantryTask(ctx context.Context, token string, draft domain.PantryTaskDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/pantry-items", "create pantry task", draft)
}

func (c *Client) UpdatePantryTaskStatus(ctx context.Context, token, id string, patch domain.StatusPatch) error {
	return c.mutate(ctx, token, http.MethodPut, "/pantry-items/"+id, "update pantry task", patch)
}

func (c *Client) DeletePantryTask(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/pantry-items/"+id, "delete pantry task", nil)
}

func (c *Client) ListMealPreparations(ctx context.Context, token string) ([]domain.MealPreparation, error) {
	return listWrapped[domain.MealPreparation](ctx, c, token, "/meal-preparation", "meals", "list meal preparations")
}

func (c *Client) CreateMealPreparation(ctx context.Context, token string, draft domain.MealPreparationDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/meal-preparation", "create meal preparation", draft)
}

func (c *Client) UpdateMealPreparationStatus(ctx context.Context, token, id string, patch domain.StatusPatch) error {
	return c.mutate(ctx, token, http.MethodPut, "/meal-preparation/"+id, "update meal preparation", patch)
}

func (c *Client) DeleteMealPreparation(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/meal-preparation/"+id, "delete meal preparation", nil)
}

func (c *Client) ListMealDeliveries(ctx context.Context, token string) ([]domain.MealDelivery, error) {
	return listWrapped[domain.MealDelivery](ctx, c, token, "/meal-delivery", "mealDeliveries", "list meal deliveries")
}

func (c *Client) CreateMealDelivery(ctx context.Context, token string, draft domain.MealDeliveryDraft) error {
	return c.mutate(ctx, token, http.MethodPost, "/meal-delivery", "create meal delivery", draft)
}

func (c *Client) UpdateMealDeliveryStatus(ctx context.Context, token, id string, patch domain.StatusPatch) error {
	return c.mutate(ctx, token, http.MethodPut, "/meal-delivery/"+id, "update meal delivery", patch)
}

func (c *Client) DeleteMealDelivery(ctx context.Context, token, id string) error {
	return c.mutate(ctx, token, http.MethodDelete, "/meal-delivery/"+id, "delete meal delivery", nil)
}
