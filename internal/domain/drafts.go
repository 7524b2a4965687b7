package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports form fields that failed the presence check.
// It is raised before any network call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

// requiredFields returns a ValidationError listing every name whose value
// reported empty, or nil when all are present.
func requiredFields(checks map[string]bool) error {
	var missing []string
	for name, ok := range checks {
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	// Deterministic order for messages and tests.
	sort.Strings(missing)
	return &ValidationError{Fields: missing}
}

// PatientDraft is a new patient before the backend assigns an id.
type PatientDraft struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Status     string `json:"status"`
	Disease    string `json:"disease"`
	RoomNumber int    `json:"roomNumber"`
}

func (d PatientDraft) Validate() error {
	return requiredFields(map[string]bool{
		"name":       d.Name != "",
		"email":      d.Email != "",
		"age":        d.Age != 0,
		"disease":    d.Disease != "",
		"roomNumber": d.RoomNumber != 0,
	})
}

type FoodChartDraft struct {
	PatientID    int64  `json:"patientId"`
	MorningMeal  string `json:"morningMeal"`
	EveningMeal  string `json:"eveningMeal"`
	NightMeal    string `json:"nightMeal"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

func (d FoodChartDraft) Validate() error {
	return requiredFields(map[string]bool{
		"patientId":   d.PatientID != 0,
		"morningMeal": d.MorningMeal != "",
		"eveningMeal": d.EveningMeal != "",
		"nightMeal":   d.NightMeal != "",
	})
}

type PantryStaffDraft struct {
	StaffName   string `json:"staffName"`
	ContactInfo string `json:"contactInfo"`
	Location    string `json:"location"`
}

func (d PantryStaffDraft) Validate() error {
	return requiredFields(map[string]bool{
		"staffName":   d.StaffName != "",
		"contactInfo": d.ContactInfo != "",
		"location":    d.Location != "",
	})
}

type PantryTaskDraft struct {
	PantryStaffID int64      `json:"pantryStaffId"`
	Task          string     `json:"task"`
	Status        TaskStatus `json:"status"`
}

func (d PantryTaskDraft) Validate() error {
	return requiredFields(map[string]bool{
		"pantryStaffId": d.PantryStaffID != 0,
		"task":          d.Task != "",
	})
}

type MealPreparationDraft struct {
	FoodChartID int64      `json:"foodChartId"`
	Status      TaskStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
}

func (d MealPreparationDraft) Validate() error {
	return requiredFields(map[string]bool{
		"foodChartId": d.FoodChartID != 0,
		"status":      d.Status != "",
	})
}

type MealDeliveryDraft struct {
	FoodChartID int64      `json:"foodChartId"`
	Status      TaskStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
}

func (d MealDeliveryDraft) Validate() error {
	return requiredFields(map[string]bool{
		"foodChartId": d.FoodChartID != 0,
		"status":      d.Status != "",
	})
}

// StatusPatch is the body of the PUT endpoints that flip a task, meal
// preparation or delivery between pending, in-progress and completed.
type StatusPatch struct {
	Status TaskStatus `json:"status"`
}
