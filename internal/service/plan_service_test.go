package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/repository"
	"wedding-planner/internal/seed"
)

func testSeed() *seed.Document {
	return &seed.Document{
		Schema: seed.Schema{
			BudgetDefaultsPercent: seed.BudgetDefaults{
				{Category: "venue", Percent: decimal.NewFromInt(50)},
				{Category: "catering", Percent: decimal.NewFromInt(30)},
			},
			Windows: map[string]seed.Window{
				"early": {Label: "9–12 months before"},
				"late":  {Label: "Week of the wedding"},
			},
		},
		Templates: []seed.Template{
			{Key: "book_venue", Title: "Book the venue", DueOffsetDays: -300, Window: "early", Category: "venue"},
			{Key: "book_caterer", Title: "Book the caterer", DueOffsetDays: -280, Window: "early", Category: "catering"},
			{Key: "rehearsal", Title: "Rehearsal", DueOffsetDays: -1, Window: "late", Category: "venue"},
		},
	}
}

type fixture struct {
	plans    *PlanService
	budgets  *BudgetService
	digests  *DigestService
	statuses *repository.TaskStatusRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	doc := testSeed()
	settings := repository.NewSettingsRepository(db)
	statuses := repository.NewTaskStatusRepository(db)
	expenses := repository.NewExpenseRepository(db)
	return &fixture{
		plans:    NewPlanService(doc, settings, statuses),
		budgets:  NewBudgetService(doc, settings, expenses),
		digests:  NewDigestService(doc, settings, statuses),
		statuses: statuses,
	}
}

func TestPlanService_ViewRequiresWeddingDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.plans.View(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrNoWeddingDate)
}

func TestPlanService_SetPlanValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "", Budget: "10000"}), ErrInvalidPlan)
	require.ErrorIs(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: ""}), ErrInvalidPlan)
	require.ErrorIs(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "June 1st", Budget: "10000"}), ErrInvalidPlan)
	require.ErrorIs(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: "-5"}), ErrInvalidPlan)

	// Nothing was written by the rejected submissions.
	_, err := f.plans.View(ctx, time.Now())
	require.ErrorIs(t, err, ErrNoWeddingDate)
}

func TestPlanService_ViewComposition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: "10000"}))

	done := true
	_, err := f.plans.SetTaskStatus(ctx, "book_venue", repository.StatusPatch{Done: &done})
	require.NoError(t, err)

	// 280 days before the wedding: the caterer task is due today.
	now := time.Date(2024, 8, 25, 9, 0, 0, 0, time.UTC)
	view, err := f.plans.View(ctx, now)
	require.NoError(t, err)

	require.Equal(t, "2025-06-01", view.WeddingDate)
	require.Equal(t, "10000", view.Budget)
	require.Equal(t, "9 months and 10 days to go", view.Countdown)
	require.Equal(t, 1, view.Progress.Done)
	require.Equal(t, 3, view.Progress.Total)
	require.Equal(t, 33, view.Progress.Percent)

	require.Len(t, view.Groups, 2)
	require.Equal(t, "9–12 months before", view.Groups[0].Label)
	require.Len(t, view.Groups[0].Items, 2)
	require.Equal(t, 50, view.Groups[0].Progress.Percent)

	venueRow := view.Groups[0].Items[0]
	require.Equal(t, "book_venue", venueRow.Key)
	require.True(t, venueRow.Done)
	require.False(t, venueRow.Overdue, "a done task is never overdue")

	// The caterer task due today is unfinished and already overdue at 09:00.
	catererRow := view.Groups[0].Items[1]
	require.Equal(t, "book_caterer", catererRow.Key)
	require.True(t, catererRow.Overdue)
}

func TestPlanService_SetPlanResetsTaskStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: "10000"}))
	done := true
	_, err := f.plans.SetTaskStatus(ctx, "book_venue", repository.StatusPatch{Done: &done})
	require.NoError(t, err)

	require.NoError(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2026-02-14", Budget: "12000"}))

	all, err := f.statuses.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "starting a new plan clears task status")
}

func TestPlanService_SetTaskStatusRejectsUnknownKeys(t *testing.T) {
	f := newFixture(t)
	done := true
	_, err := f.plans.SetTaskStatus(context.Background(), "not_in_seed", repository.StatusPatch{Done: &done})
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestBudgetService_View(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: "10000"}))

	amt := decimal.NewFromInt(6000)
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	_, err := f.budgets.AddExpense(ctx, ExpenseInput{Category: "venue", Amount: &amt}, now)
	require.NoError(t, err)

	view, err := f.budgets.View(ctx)
	require.NoError(t, err)
	require.True(t, view.TotalBudget.Equal(decimal.NewFromInt(10000)))
	require.Len(t, view.Categories, 2)
	require.Equal(t, "venue", view.Categories[0].Name)
	require.True(t, view.Categories[0].Remaining.Equal(decimal.NewFromInt(-1000)))
	require.True(t, view.Categories[0].OverBudget)
	require.Len(t, view.Expenses, 1)
}

func TestBudgetService_AddExpenseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.budgets.AddExpense(ctx, ExpenseInput{Category: "", Amount: nil}, time.Now())
	require.Error(t, err)

	view, err := f.budgets.View(ctx)
	require.NoError(t, err)
	require.Empty(t, view.Expenses, "a rejected expense must not persist")
}

func TestDigestService_DailySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.digests.DailySummary(ctx, time.Now())
	require.ErrorIs(t, err, ErrNoWeddingDate)

	require.NoError(t, f.plans.SetPlan(ctx, PlanInput{WeddingDate: "2025-06-01", Budget: "10000"}))
	done := true
	_, err = f.plans.SetTaskStatus(ctx, "book_venue", repository.StatusPatch{Done: &done})
	require.NoError(t, err)

	// Venue and caterer tasks are past due; the venue one is done.
	now := time.Date(2024, 9, 15, 8, 0, 0, 0, time.UTC)
	text, err := f.digests.DailySummary(ctx, now)
	require.NoError(t, err)

	require.Contains(t, text, "Wedding plan digest")
	require.Contains(t, text, "Book the caterer")
	require.NotContains(t, text, "Book the venue", "done tasks stay out of the digest")
}
