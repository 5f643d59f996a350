package orchestrators

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"campuspulse/internal/adapters/export"
	"campuspulse/internal/application/projections"
	"campuspulse/internal/domain/club"
)

// ExpenseWriter renders expense lines to a workbook.
type ExpenseWriter interface {
	WriteExpenses(w io.Writer, title string, lines []export.ExpenseLine) error
}

// ExportExpensesInput names the club to export.
type ExportExpensesInput struct {
	ClubID string
}

// ExportExpensesDeps holds dependencies for ExportExpenses.
type ExportExpensesDeps struct {
	Store  ClubLookup
	Writer ExpenseWriter
	Out    io.Writer
}

// ExecuteExportExpenses writes the club's expenses, newest first, with linked event titles.
// PRE: the club exists
// POST: deps.Out holds the workbook; returns the number of expense lines written
func ExecuteExportExpenses(ctx context.Context, input ExportExpensesInput, deps ExportExpensesDeps) (int, error) {
	snap := deps.Store.Snapshot()
	i := slices.IndexFunc(snap.Clubs, func(c club.Club) bool { return c.ID == input.ClubID })
	if i < 0 {
		return 0, ErrClubNotFound
	}
	c := snap.Clubs[i]

	rows := projections.ExpenseRows(c, projections.ClubEvents(snap, c.ID))
	lines := make([]export.ExpenseLine, len(rows))
	for j, r := range rows {
		lines[j] = export.ExpenseLine{
			Date:   r.Expense.Date,
			Name:   r.Expense.Name,
			Amount: r.Expense.Amount,
			Event:  r.EventTitle,
		}
	}
	if err := deps.Writer.WriteExpenses(deps.Out, c.Name+" expenses", lines); err != nil {
		return 0, err
	}
	slog.Info("club_event", "event", "expenses_exported", "club_id", c.ID, "count", len(lines))
	return len(lines), nil
}
