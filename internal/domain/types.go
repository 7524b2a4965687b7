package domain

import "fmt"

// Role is the backend-assigned role that decides which dashboards a
// signed-in user may reach.
type Role string

const (
	RoleManager  Role = "manager"
	RolePantry   Role = "pantry"
	RoleDelivery Role = "delivery"
)

// ParseRole validates a role string coming from the backend or a form.
// Anything outside the three known roles is rejected; callers treat that
// as "no access" rather than guessing.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RolePantry, RoleDelivery:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// TaskStatus is shared by pantry tasks, meal preparations and deliveries.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Patient ids are opaque strings on the wire; every other resource uses
// numeric ids. JSON tags match the backend's field names exactly.
type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Status     string `json:"status"`
	Disease    string `json:"disease"`
	RoomNumber int    `json:"roomNumber"`
}

type FoodChart struct {
	ID           int64  `json:"id"`
	PatientID    int64  `json:"patientId"`
	MorningMeal  string `json:"morningMeal"`
	EveningMeal  string `json:"eveningMeal"`
	NightMeal    string `json:"nightMeal"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type PantryStaff struct {
	ID          int64  `json:"id"`
	StaffName   string `json:"staffName"`
	ContactInfo string `json:"contactInfo"`
	Location    string `json:"location"`
}

type PantryTask struct {
	ID            int64      `json:"id"`
	PantryStaffID int64      `json:"pantryStaffId"`
	Task          string     `json:"task"`
	Status        TaskStatus `json:"status"`
}

type MealPreparation struct {
	ID          int64      `json:"id"`
	FoodChartID int64      `json:"foodChartId"`
	Status      TaskStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
}

type MealDelivery struct {
	ID          int64      `json:"id"`
	FoodChartID int64      `json:"foodChartId"`
	Status      TaskStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
}
