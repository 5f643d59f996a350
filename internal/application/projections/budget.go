package projections

import (
	"slices"
	"time"

	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// HistoryMonths is the number of months MonthlyHistory reports.
const HistoryMonths = 6

// NoEventLabel stands in for the event title of an unattributed expense.
const NoEventLabel = "No event linked"

func sameMonth(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SpentThisMonth sums expenses dated in now's calendar month.
func SpentThisMonth(expenses []club.Expense, now time.Time) float64 {
	total := 0.0
	for _, e := range expenses {
		if sameMonth(e.Date, now) {
			total += e.Amount
		}
	}
	return total
}

// BudgetSummary is the current month's budget position.
type BudgetSummary struct {
	Budget     float64
	Spent      float64
	Remaining  float64
	Progress   float64 // percent of budget spent; may exceed 100
	OverBudget bool
}

// QueryBudgetSummary computes c's budget position for now's month.
// POST: Progress is 0 when Budget is 0
func QueryBudgetSummary(c club.Club, now time.Time) BudgetSummary {
	spent := SpentThisMonth(c.Expenses, now)
	s := BudgetSummary{
		Budget:    c.MonthlyBudget,
		Spent:     spent,
		Remaining: c.MonthlyBudget - spent,
	}
	if c.MonthlyBudget > 0 {
		s.Progress = spent / c.MonthlyBudget * 100
	}
	s.OverBudget = s.Remaining < 0
	return s
}

// MonthTotal is one bucket of the spending history.
type MonthTotal struct {
	Key   string // YYYY-MM
	Label string // Jan..Dec
	Total float64
}

// MonthlyHistory totals expenses for now's month and the five before it.
// POST: exactly HistoryMonths buckets, oldest first
func MonthlyHistory(expenses []club.Expense, now time.Time) []MonthTotal {
	out := make([]MonthTotal, HistoryMonths)
	for i := range HistoryMonths {
		month := time.Date(now.Year(), now.Month()-time.Month(HistoryMonths-1-i), 1, 0, 0, 0, 0, now.Location())
		bucket := MonthTotal{Key: month.Format("2006-01"), Label: month.Format("Jan")}
		for _, e := range expenses {
			if sameMonth(e.Date, month) {
				bucket.Total += e.Amount
			}
		}
		out[i] = bucket
	}
	return out
}

// SortedExpenses returns expenses newest first.
func SortedExpenses(expenses []club.Expense) []club.Expense {
	out := slices.Clone(expenses)
	if out == nil {
		out = []club.Expense{}
	}
	slices.SortStableFunc(out, func(a, b club.Expense) int { return b.Date.Compare(a.Date) })
	return out
}

// ExpenseRow is an expense with its linked event resolved.
type ExpenseRow struct {
	Expense    club.Expense
	EventTitle string
	Linked     bool
}

// ExpenseRows resolves each of c's expenses against events, newest first.
// A missing or dangling event link renders as NoEventLabel.
func ExpenseRows(c club.Club, events []event.Event) []ExpenseRow {
	titles := make(map[string]string, len(events))
	for _, e := range events {
		titles[e.ID] = e.Title
	}
	sorted := SortedExpenses(c.Expenses)
	rows := make([]ExpenseRow, len(sorted))
	for i, x := range sorted {
		row := ExpenseRow{Expense: x, EventTitle: NoEventLabel}
		if title, ok := titles[x.EventID]; ok && x.EventID != "" {
			row.EventTitle, row.Linked = title, true
		}
		rows[i] = row
	}
	return rows
}
