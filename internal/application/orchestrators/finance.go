package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"campuspulse/internal/domain/club"
)

// NoEventID is the form value for an expense not linked to any event.
const NoEventID = "none"

// SaveExpenseInput carries the expense form. An empty ExpenseID adds a new expense.
type SaveExpenseInput struct {
	ClubID    string    `json:"clubId" validate:"required"`
	ExpenseID string    `json:"id"`
	Name      string    `json:"name" validate:"min=2"`
	Amount    float64   `json:"amount" validate:"gte=0.01"`
	Date      time.Time `json:"date" validate:"required"`
	EventID   string    `json:"eventId"`
}

// ExecuteSaveExpense adds or edits an expense. EventID is a weak reference and is not checked.
// PRE: input passes the expense form rules
// POST: the club holds exactly one expense with the returned ID
func ExecuteSaveExpense(ctx context.Context, input SaveExpenseInput, deps ClubMutationDeps) (club.Expense, error) {
	if err := rules.Validate(input); err != nil {
		return club.Expense{}, err
	}
	x := club.Expense{
		ID:      input.ExpenseID,
		Name:    input.Name,
		Amount:  input.Amount,
		Date:    input.Date,
		EventID: input.EventID,
	}
	if x.EventID == NoEventID {
		x.EventID = ""
	}
	_, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		if x.ID == "" {
			x.ID = deps.GenerateID()
		} else if !hasExpense(c, x.ID) {
			return club.ErrExpenseNotFound
		}
		c.PutExpense(x)
		return nil
	})
	if err != nil {
		return club.Expense{}, err
	}
	slog.Info("club_event", "event", "expense_saved", "club_id", input.ClubID, "expense_id", x.ID, "amount", x.Amount)
	return x, nil
}

func hasExpense(c *club.Club, id string) bool {
	for _, e := range c.Expenses {
		if e.ID == id {
			return true
		}
	}
	return false
}

// DeleteExpenseInput identifies an expense.
type DeleteExpenseInput struct {
	ClubID    string
	ExpenseID string
}

// ExecuteDeleteExpense removes an expense.
func ExecuteDeleteExpense(ctx context.Context, input DeleteExpenseInput, deps ClubMutationDeps) error {
	_, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		return c.RemoveExpense(input.ExpenseID)
	})
	if err != nil {
		return err
	}
	slog.Info("club_event", "event", "expense_deleted", "club_id", input.ClubID, "expense_id", input.ExpenseID)
	return nil
}

// SetBudgetInput carries a new monthly budget.
type SetBudgetInput struct {
	ClubID string  `json:"clubId" validate:"required"`
	Budget float64 `json:"monthlyBudget" validate:"gte=0"`
}

// ExecuteSetBudget replaces the club's monthly budget.
// PRE: Budget >= 0
func ExecuteSetBudget(ctx context.Context, input SetBudgetInput, deps ClubMutationDeps) (club.Club, error) {
	if err := rules.Validate(input); err != nil {
		return club.Club{}, err
	}
	c, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		c.MonthlyBudget = input.Budget
		return nil
	})
	if err != nil {
		return club.Club{}, err
	}
	slog.Info("club_event", "event", "budget_set", "club_id", input.ClubID, "budget", input.Budget)
	return c, nil
}
