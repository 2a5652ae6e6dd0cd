// Package budget turns the seed's recommended percentages and the recorded
// expenses into per-category caps and balances. Like the plan engine it is
// pure: each call takes the full current state and returns a fresh view.
package budget

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/model"
	"wedding-planner/internal/seed"
)

// Category is the derived per-category budget view. Remaining may go
// negative; OverBudget flags that state for display, it is not an error.
type Category struct {
	Name       string          `json:"name"`
	Percent    decimal.Decimal `json:"percent"`
	Cap        decimal.Decimal `json:"cap"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	OverBudget bool            `json:"over_budget"`
}

var hundred = decimal.NewFromInt(100)

// ComputeCategories derives one Category per seed budget default, in the
// seed document's order. Caps round to the nearest whole unit, ties away
// from zero; spent is the exact sum of matching amounts with no
// intermediate rounding. Expenses whose category matches no default are
// simply not counted anywhere.
func ComputeCategories(defaults seed.BudgetDefaults, total decimal.Decimal, expenses []model.Expense) []Category {
	spentBy := make(map[string]decimal.Decimal, len(defaults))
	for _, e := range expenses {
		spentBy[e.Category] = spentBy[e.Category].Add(e.Amount)
	}

	out := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		limit := d.Percent.Mul(total).Div(hundred).Round(0)
		spent := spentBy[d.Category]
		remaining := limit.Sub(spent)
		out = append(out, Category{
			Name:       d.Category,
			Percent:    d.Percent,
			Cap:        limit,
			Spent:      spent,
			Remaining:  remaining,
			OverBudget: remaining.IsNegative(),
		})
	}
	return out
}

// ErrInvalidExpense signals a rejected expense submission. Nothing is
// persisted when it is returned.
var ErrInvalidExpense = errors.New("an expense needs a category and an amount")

// NewExpense validates the add-expense form and builds a record ready to
// persist. A missing category or amount fails validation; negative amounts
// are clamped to zero at creation. The identifier and creation time are
// assigned by the store.
func NewExpense(category string, amount *decimal.Decimal, note string) (model.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" || amount == nil {
		return model.Expense{}, ErrInvalidExpense
	}
	amt := *amount
	if amt.IsNegative() {
		amt = decimal.Zero
	}
	return model.Expense{
		Category: category,
		Amount:   amt,
		Note:     strings.TrimSpace(note),
	}, nil
}
