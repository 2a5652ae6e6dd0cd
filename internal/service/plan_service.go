package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/model"
	"wedding-planner/internal/plan"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/seed"
)

// ErrNoWeddingDate is returned when the plan is read before the start form
// has been submitted.
var ErrNoWeddingDate = errors.New("no wedding date set")

// ErrUnknownTask rejects status writes for keys absent from the loaded seed.
var ErrUnknownTask = errors.New("unknown task key")

// ErrInvalidPlan rejects a start submission with a missing or malformed
// date or budget. Nothing is written when it is returned.
var ErrInvalidPlan = errors.New("a wedding date and budget are required")

const isoDate = "2006-01-02"

// The plan page shows at most this many upcoming tasks.
const upcomingDisplayLimit = 10

// PlanInput carries the start-form fields.
type PlanInput struct {
	WeddingDate string `json:"wedding_date"`
	Budget      string `json:"budget"`
}

// TaskView is one checklist row.
type TaskView struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Due         string `json:"due"`
	Done        bool   `json:"done"`
	Overdue     bool   `json:"overdue"`
	Upcoming    bool   `json:"upcoming"`
	Note        string `json:"note,omitempty"`
}

// GroupView is one time-window bucket with its own progress bar.
type GroupView struct {
	WindowID string        `json:"window_id"`
	Label    string        `json:"label"`
	Progress plan.Progress `json:"progress"`
	Items    []TaskView    `json:"items"`
}

// PlanView is the full plan page payload.
type PlanView struct {
	WeddingDate string        `json:"wedding_date"`
	Budget      string        `json:"budget"`
	Countdown   string        `json:"countdown"`
	Progress    plan.Progress `json:"progress"`
	Upcoming    []TaskView    `json:"upcoming"`
	Groups      []GroupView   `json:"groups"`
}

// PlanService composes the seed document and persisted state into the plan
// view and applies plan-level writes.
type PlanService struct {
	seed     *seed.Document
	settings *repository.SettingsRepository
	statuses *repository.TaskStatusRepository
}

func NewPlanService(doc *seed.Document, settings *repository.SettingsRepository, statuses *repository.TaskStatusRepository) *PlanService {
	return &PlanService{seed: doc, settings: settings, statuses: statuses}
}

// View assembles the plan as of the given instant.
func (s *PlanService) View(ctx context.Context, now time.Time) (*PlanView, error) {
	dateStr, ok, err := s.settings.Get(ctx, model.SettingWeddingDate)
	if err != nil {
		return nil, err
	}
	if !ok || dateStr == "" {
		return nil, ErrNoWeddingDate
	}
	weddingDate, err := time.Parse(isoDate, dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored wedding date %q: %w", dateStr, err)
	}

	budgetStr, _, err := s.settings.Get(ctx, model.SettingWeddingBudget)
	if err != nil {
		return nil, err
	}

	states, err := s.stateMap(ctx)
	if err != nil {
		return nil, err
	}

	tasks := plan.Schedule(s.seed.Templates, weddingDate)
	view := &PlanView{
		WeddingDate: dateStr,
		Budget:      budgetStr,
		Countdown:   plan.Countdown(weddingDate, now),
		Progress:    plan.ProgressOf(tasks, states),
	}
	for _, t := range plan.Upcoming(tasks, now) {
		if len(view.Upcoming) == upcomingDisplayLimit {
			break
		}
		view.Upcoming = append(view.Upcoming, taskView(t, states, now))
	}
	for _, g := range plan.GroupByWindow(tasks, s.seed.WindowLabel) {
		gv := GroupView{
			WindowID: g.WindowID,
			Label:    g.Label,
			Progress: plan.ProgressOf(g.Items, states),
		}
		for _, t := range g.Items {
			gv.Items = append(gv.Items, taskView(t, states, now))
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

// SetPlan validates and stores the wedding date and budget, then clears
// task status — the same reset the original start form performed.
func (s *PlanService) SetPlan(ctx context.Context, in PlanInput) error {
	date := strings.TrimSpace(in.WeddingDate)
	budgetStr := strings.TrimSpace(in.Budget)
	if date == "" || budgetStr == "" {
		return ErrInvalidPlan
	}
	if _, err := time.Parse(isoDate, date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidPlan, date)
	}
	if b, err := decimal.NewFromString(budgetStr); err != nil || b.IsNegative() {
		return fmt.Errorf("%w: bad budget %q", ErrInvalidPlan, budgetStr)
	}

	if err := s.settings.Set(ctx, model.SettingWeddingDate, date); err != nil {
		return err
	}
	if err := s.settings.Set(ctx, model.SettingWeddingBudget, budgetStr); err != nil {
		return err
	}
	return s.statuses.Clear(ctx)
}

// SetTaskStatus merges a done/note patch for the given template key. Keys
// not present in the loaded seed are rejected; stale rows from an earlier
// seed version stay in the table but are never served.
func (s *PlanService) SetTaskStatus(ctx context.Context, key string, patch repository.StatusPatch) (model.TaskStatus, error) {
	if _, ok := s.seed.TemplateByKey(key); !ok {
		return model.TaskStatus{}, ErrUnknownTask
	}
	return s.statuses.Set(ctx, key, patch)
}

func (s *PlanService) stateMap(ctx context.Context) (plan.StateMap, error) {
	rows, err := s.statuses.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make(plan.StateMap, len(rows))
	for k, v := range rows {
		out[k] = plan.State{Done: v.Done, Note: v.Note}
	}
	return out, nil
}

func taskView(t plan.Task, states plan.StateMap, now time.Time) TaskView {
	st := plan.Classify(t, states, now)
	return TaskView{
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Due:         t.Due.Format(isoDate),
		Done:        st.Done,
		Overdue:     st.Overdue,
		Upcoming:    st.Upcoming,
		Note:        states[t.Key].Note,
	}
}
