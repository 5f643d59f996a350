package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
)

// TestExecuteSaveExpense_AddAndEdit verifies creation, the "none" event value and in-place edits.
func TestExecuteSaveExpense_AddAndEdit(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	deps := clubDeps(m, nil)

	x, err := ExecuteSaveExpense(ctx, SaveExpenseInput{ClubID: "tech", Name: "Pizza", Amount: 42.5, Date: fixedTime, EventID: NoEventID}, deps)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if x.EventID != "" || x.ID != "id-1" {
		t.Errorf("expense = %+v", x)
	}

	_, err = ExecuteSaveExpense(ctx, SaveExpenseInput{ClubID: "tech", ExpenseID: x.ID, Name: "Pizza and drinks", Amount: 60, Date: fixedTime, EventID: "past"}, deps)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	c := m.club("tech")
	if len(c.Expenses) != 1 || c.Expenses[0].Amount != 60 || c.Expenses[0].EventID != "past" {
		t.Errorf("expenses = %+v", c.Expenses)
	}
}

// TestExecuteSaveExpense_Errors verifies the expense form rules.
func TestExecuteSaveExpense_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   SaveExpenseInput
		wantErr error
	}{
		{"zero amount", SaveExpenseInput{ClubID: "tech", Name: "Pizza", Amount: 0, Date: fixedTime}, ErrValidation},
		{"short name", SaveExpenseInput{ClubID: "tech", Name: "P", Amount: 1, Date: fixedTime}, ErrValidation},
		{"no date", SaveExpenseInput{ClubID: "tech", Name: "Pizza", Amount: 1, Date: time.Time{}}, ErrValidation},
		{"unknown expense", SaveExpenseInput{ClubID: "tech", ExpenseID: "nope", Name: "Pizza", Amount: 1, Date: fixedTime}, club.ErrExpenseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore()
			if _, err := ExecuteSaveExpense(context.Background(), tt.input, clubDeps(m, nil)); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestExecuteDeleteExpense verifies removal.
func TestExecuteDeleteExpense(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	deps := clubDeps(m, nil)
	x, _ := ExecuteSaveExpense(ctx, SaveExpenseInput{ClubID: "tech", Name: "Pizza", Amount: 5, Date: fixedTime}, deps)

	if err := ExecuteDeleteExpense(ctx, DeleteExpenseInput{ClubID: "tech", ExpenseID: x.ID}, deps); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(m.club("tech").Expenses) != 0 {
		t.Error("expense not removed")
	}
	if err := ExecuteDeleteExpense(ctx, DeleteExpenseInput{ClubID: "tech", ExpenseID: x.ID}, deps); !errors.Is(err, club.ErrExpenseNotFound) {
		t.Errorf("err = %v, want ErrExpenseNotFound", err)
	}
}

// TestExecuteSetBudget verifies the budget rule and storage failures.
func TestExecuteSetBudget(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	sess := &mockSession{}

	c, err := ExecuteSetBudget(ctx, SetBudgetInput{ClubID: "music", Budget: 0}, clubDeps(m, sess))
	if err != nil || c.MonthlyBudget != 0 {
		t.Fatalf("zero budget: %v, %v", c.MonthlyBudget, err)
	}
	if _, err := ExecuteSetBudget(ctx, SetBudgetInput{ClubID: "music", Budget: -1}, clubDeps(m, sess)); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	m.fail = true
	if _, err := ExecuteSetBudget(ctx, SetBudgetInput{ClubID: "music", Budget: 250}, clubDeps(m, sess)); !errors.Is(err, store.ErrStorageUnavailable) {
		t.Errorf("err = %v, want ErrStorageUnavailable", err)
	}
	if len(sess.refreshed) != 1 {
		t.Errorf("session refreshed %d times, want 1", len(sess.refreshed))
	}
}
