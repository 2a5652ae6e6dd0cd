package budget

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/model"
	"wedding-planner/internal/seed"
)

func pct(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestComputeCategories(t *testing.T) {
	defaults := seed.BudgetDefaults{
		{Category: "venue", Percent: pct(t, "50")},
		{Category: "catering", Percent: pct(t, "30")},
	}
	total := decimal.NewFromInt(10000)
	expenses := []model.Expense{
		{ID: "e1", Category: "venue", Amount: decimal.NewFromInt(6000)},
	}

	cats := ComputeCategories(defaults, total, expenses)
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}

	venue := cats[0]
	if venue.Name != "venue" {
		t.Fatalf("categories not in seed order: first is %q", venue.Name)
	}
	if !venue.Cap.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("venue cap = %s, want 5000", venue.Cap)
	}
	if !venue.Spent.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("venue spent = %s, want 6000", venue.Spent)
	}
	if !venue.Remaining.Equal(decimal.NewFromInt(-1000)) {
		t.Errorf("venue remaining = %s, want -1000", venue.Remaining)
	}
	if !venue.OverBudget {
		t.Error("venue should be flagged over budget")
	}

	catering := cats[1]
	if !catering.Cap.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("catering cap = %s, want 3000", catering.Cap)
	}
	if !catering.Spent.Equal(decimal.Zero) {
		t.Errorf("catering spent = %s, want 0", catering.Spent)
	}
	if !catering.Remaining.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("catering remaining = %s, want 3000", catering.Remaining)
	}
	if catering.OverBudget {
		t.Error("catering should not be over budget")
	}
}

func TestComputeCategories_RoundsTiesAwayFromZero(t *testing.T) {
	defaults := seed.BudgetDefaults{{Category: "venue", Percent: pct(t, "50")}}
	// 50% of 1001 is 500.5; the documented rule rounds it up to 501.
	cats := ComputeCategories(defaults, decimal.NewFromInt(1001), nil)
	if !cats[0].Cap.Equal(decimal.NewFromInt(501)) {
		t.Errorf("cap = %s, want 501", cats[0].Cap)
	}
}

func TestComputeCategories_CapsSumNearTotal(t *testing.T) {
	defaults := seed.BudgetDefaults{
		{Category: "a", Percent: pct(t, "33.3")},
		{Category: "b", Percent: pct(t, "33.3")},
		{Category: "c", Percent: pct(t, "33.4")},
	}
	total := decimal.NewFromInt(9999)

	sum := decimal.Zero
	for _, c := range ComputeCategories(defaults, total, nil) {
		sum = sum.Add(c.Cap)
	}

	// Each cap rounds independently, so the drift is bounded by half a unit
	// per category.
	drift := sum.Sub(total).Abs()
	if drift.GreaterThan(decimal.NewFromInt(int64(len(defaults)))) {
		t.Errorf("caps sum %s drifts %s from total %s", sum, drift, total)
	}
}

func TestNewExpense_Validation(t *testing.T) {
	amt := decimal.NewFromInt(100)

	if _, err := NewExpense("", &amt, ""); !errors.Is(err, ErrInvalidExpense) {
		t.Errorf("empty category: err = %v, want ErrInvalidExpense", err)
	}
	if _, err := NewExpense("   ", &amt, ""); !errors.Is(err, ErrInvalidExpense) {
		t.Errorf("blank category: err = %v, want ErrInvalidExpense", err)
	}
	if _, err := NewExpense("venue", nil, ""); !errors.Is(err, ErrInvalidExpense) {
		t.Errorf("missing amount: err = %v, want ErrInvalidExpense", err)
	}
}

func TestNewExpense_ClampsNegativeAmounts(t *testing.T) {
	neg := decimal.NewFromInt(-50)
	rec, err := NewExpense("venue", &neg, "deposit")
	if err != nil {
		t.Fatalf("NewExpense: %v", err)
	}
	if !rec.Amount.Equal(decimal.Zero) {
		t.Errorf("amount = %s, want clamped to 0", rec.Amount)
	}
	if rec.Category != "venue" || rec.Note != "deposit" {
		t.Errorf("record = %+v, want category/note preserved", rec)
	}
}
