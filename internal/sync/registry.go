package sync

import (
	"context"
	"log/slog"
	"strconv"
	gosync "sync"

	"github.com/sajithv/hospmeals/internal/api"
	"github.com/sajithv/hospmeals/internal/domain"
	"github.com/sajithv/hospmeals/internal/session"
)

// Typed controllers for the six backend-managed lists.
type (
	PatientController     = Controller[domain.Patient, domain.PatientDraft, domain.StatusPatch]
	FoodChartController   = Controller[domain.FoodChart, domain.FoodChartDraft, domain.StatusPatch]
	PantryStaffController = Controller[domain.PantryStaff, domain.PantryStaffDraft, domain.StatusPatch]
	PantryTaskController  = Controller[domain.PantryTask, domain.PantryTaskDraft, domain.StatusPatch]
	MealPrepController    = Controller[domain.MealPreparation, domain.MealPreparationDraft, domain.StatusPatch]
	DeliveryController    = Controller[domain.MealDelivery, domain.MealDeliveryDraft, domain.StatusPatch]
)

// Set is the bundle of controllers backing one signed-in session's pages.
type Set struct {
	Patients    *PatientController
	FoodCharts  *FoodChartController
	PantryStaff *PantryStaffController
	PantryTasks *PantryTaskController
	MealPreps   *MealPrepController
	Deliveries  *DeliveryController
}

// Registry hands out controller sets per session, creating them lazily on
// first use and discarding them on logout. Dropping a set is the "view
// unmount": any fetch still in flight completes into a controller nothing
// references and is garbage together with it.
type Registry struct {
	mu        gosync.Mutex
	client    *api.Client
	logger    *slog.Logger
	bySession map[string]*Set
}

func NewRegistry(client *api.Client, logger *slog.Logger) *Registry {
	return &Registry{
		client:    client,
		logger:    logger,
		bySession: make(map[string]*Set),
	}
}

// For returns the controller set for a session, building it on first use
// with the session's token bound into every operation.
func (r *Registry) For(sess *session.Session) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.bySession[sess.ID]; ok {
		return set
	}
	set := r.build(sess.Token)
	r.bySession[sess.ID] = set
	return set
}

// Drop discards a session's controllers and their caches.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySession, sessionID)
}

func (r *Registry) build(token string) *Set {
	c := r.client
	int64ID := func(id int64) string { return strconv.FormatInt(id, 10) }

	return &Set{
		Patients: NewController(Ops[domain.Patient, domain.PatientDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.Patient, error) {
				return c.ListPatients(ctx, token)
			},
			Create: func(ctx context.Context, d domain.PatientDraft) error {
				return c.CreatePatient(ctx, token, d)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeletePatient(ctx, token, id)
			},
			ID: func(p domain.Patient) string { return p.ID },
		}, r.logger),

		FoodCharts: NewController(Ops[domain.FoodChart, domain.FoodChartDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.FoodChart, error) {
				return c.ListFoodCharts(ctx, token)
			},
			Create: func(ctx context.Context, d domain.FoodChartDraft) error {
				return c.CreateFoodChart(ctx, token, d)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeleteFoodChart(ctx, token, id)
			},
			ID: func(fc domain.FoodChart) string { return int64ID(fc.ID) },
		}, r.logger),

		PantryStaff: NewController(Ops[domain.PantryStaff, domain.PantryStaffDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.PantryStaff, error) {
				return c.ListPantryStaff(ctx, token)
			},
			Create: func(ctx context.Context, d domain.PantryStaffDraft) error {
				return c.CreatePantryStaff(ctx, token, d)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeletePantryStaff(ctx, token, id)
			},
			ID: func(ps domain.PantryStaff) string { return int64ID(ps.ID) },
		}, r.logger),

		PantryTasks: NewController(Ops[domain.PantryTask, domain.PantryTaskDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.PantryTask, error) {
				return c.ListPantryTasks(ctx, token)
			},
			Create: func(ctx context.Context, d domain.PantryTaskDraft) error {
				return c.CreatePantryTask(ctx, token, d)
			},
			Update: func(ctx context.Context, id string, patch domain.StatusPatch) error {
				return c.UpdatePantryTaskStatus(ctx, token, id, patch)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeletePantryTask(ctx, token, id)
			},
			ID: func(pt domain.PantryTask) string { return int64ID(pt.ID) },
		}, r.logger),

		MealPreps: NewController(Ops[domain.MealPreparation, domain.MealPreparationDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.MealPreparation, error) {
				return c.ListMealPreparations(ctx, token)
			},
			Create: func(ctx context.Context, d domain.MealPreparationDraft) error {
				return c.CreateMealPreparation(ctx, token, d)
			},
			Update: func(ctx context.Context, id string, patch domain.StatusPatch) error {
				return c.UpdateMealPreparationStatus(ctx, token, id, patch)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeleteMealPreparation(ctx, token, id)
			},
			ID: func(mp domain.MealPreparation) string { return int64ID(mp.ID) },
		}, r.logger),

		Deliveries: NewController(Ops[domain.MealDelivery, domain.MealDeliveryDraft, domain.StatusPatch]{
			Fetch: func(ctx context.Context) ([]domain.MealDelivery, error) {
				return c.ListMealDeliveries(ctx, token)
			},
			Create: func(ctx context.Context, d domain.MealDeliveryDraft) error {
				return c.CreateMealDelivery(ctx, token, d)
			},
			Update: func(ctx context.Context, id string, patch domain.StatusPatch) error {
				return c.UpdateMealDeliveryStatus(ctx, token, id, patch)
			},
			Remove: func(ctx context.Context, id string) error {
				return c.DeleteMealDelivery(ctx, token, id)
			},
			ID: func(md domain.MealDelivery) string { return int64ID(md.ID) },
		}, r.logger),
	}
}
