package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/budget"
	"wedding-planner/internal/model"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/seed"
)

// BudgetView is the budget page payload.
type BudgetView struct {
	TotalBudget decimal.Decimal   `json:"total_budget"`
	Categories  []budget.Category `json:"categories"`
	Expenses    []model.Expense   `json:"expenses"`
}

// ExpenseInput carries the add-expense form fields. Amount is a pointer so
// an omitted field is distinguishable from zero.
type ExpenseInput struct {
	Category string           `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     string           `json:"note"`
}

// BudgetService composes the seed's recommended split with the recorded
// spending.
type BudgetService struct {
	seed     *seed.Document
	settings *repository.SettingsRepository
	expenses *repository.ExpenseRepository
}

func NewBudgetService(doc *seed.Document, settings *repository.SettingsRepository, expenses *repository.ExpenseRepository) *BudgetService {
	return &BudgetService{seed: doc, settings: settings, expenses: expenses}
}

// View computes per-category caps against recorded spending. A missing or
// unparsable stored budget is treated as zero, matching the original page.
func (s *BudgetService) View(ctx context.Context) (*BudgetView, error) {
	total := decimal.Zero
	if raw, ok, err := s.settings.Get(ctx, model.SettingWeddingBudget); err != nil {
		return nil, err
	} else if ok {
		if parsed, perr := decimal.NewFromString(raw); perr == nil {
			total = parsed
		}
	}

	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return nil, err
	}

	return &BudgetView{
		TotalBudget: total,
		Categories:  budget.ComputeCategories(s.seed.Schema.BudgetDefaultsPercent, total, expenses),
		Expenses:    expenses,
	}, nil
}

// AddExpense validates and persists one record. On validation failure
// nothing is written.
func (s *BudgetService) AddExpense(ctx context.Context, in ExpenseInput, now time.Time) (model.Expense, error) {
	rec, err := budget.NewExpense(in.Category, in.Amount, in.Note)
	if err != nil {
		return model.Expense{}, err
	}
	return s.expenses.Add(ctx, rec, now)
}

// DeleteExpense removes a record; missing ids are a no-op.
func (s *BudgetService) DeleteExpense(ctx context.Context, id string) error {
	return s.expenses.Delete(ctx, id)
}
