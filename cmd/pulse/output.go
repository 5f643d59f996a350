package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"campuspulse/internal/adapters/perf"
	"campuspulse/internal/application/projections"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

const dateLayout = "Mon 02 Jan 2006 15:04"

// eventRow is one line of the home event listing.
type eventRow struct {
	Event    event.Event
	Club     club.Club
	Upcoming bool
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printClubs(w io.Writer, clubs []club.Club) {
	if len(clubs) == 0 {
		fmt.Fprintln(w, "No clubs found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "SLUG\tNAME\tCATEGORY\tLEADERS\tMEMBERS")
	for _, c := range clubs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", c.Slug, c.Name, c.Category, len(c.Leaders), len(c.Members))
	}
	tw.Flush()
}

func printEvents(w io.Writer, rows []eventRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No events match.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "WHEN\tTITLE\tCLUB\tCATEGORY\tLOCATION\t")
	for _, r := range rows {
		when := r.Event.Date.Local().Format(dateLayout)
		if !r.Upcoming {
			when += " (past)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", when, r.Event.Title, r.Club.Name, r.Event.Category, r.Event.Location)
	}
	tw.Flush()
}

func printClubPage(w io.Writer, page projections.ClubPage) {
	c := page.Club
	fmt.Fprintf(w, "%s [%s]\n", c.Name, c.Category)
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n", c.Description)
	}
	for _, r := range c.Resources {
		fmt.Fprintf(w, "  link: %s <%s>\n", r.Label, r.URL)
	}

	fmt.Fprintln(w)
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tEMAIL")
	for _, p := range c.People() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, p.Email)
	}
	tw.Flush()

	section := func(title string, events []event.Event) {
		fmt.Fprintf(w, "\n%s (%d)\n", title, len(events))
		for _, e := range events {
			line := fmt.Sprintf("  %s  %s  /club/%s/event/%s", e.Date.Local().Format(dateLayout), e.Title, c.Slug, e.Slug)
			if len(e.Reviews) > 0 {
				line += "  " + projections.AverageRating(e.Reviews).Display()
			}
			fmt.Fprintln(w, line)
		}
	}
	section("Upcoming", page.Upcoming)
	section("Past", page.Past)
}

func printEventPage(w io.Writer, page projections.EventPage) {
	e := page.Event
	fmt.Fprintf(w, "%s\nby %s\n\n", e.Title, page.Club.Name)
	fmt.Fprintf(w, "When:     %s\n", e.Date.Local().Format(dateLayout))
	fmt.Fprintf(w, "Where:    %s\n", e.Location)
	fmt.Fprintf(w, "Register: %s\n", e.RegistrationLink)
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", e.Description)
	if !page.IsPast {
		return
	}
	fmt.Fprintf(w, "\nGallery: %d photos\n", len(e.Gallery))
	fmt.Fprintf(w, "Rating:  %s\n", page.Rating.Display())
	for _, r := range page.Reviews {
		fmt.Fprintf(w, "  %s %s (%s)\n    %s\n", strings.Repeat("*", r.Rating), r.Author, r.Date.Local().Format("02 Jan 2006"), r.Comment)
	}
}

func printBudget(w io.Writer, c club.Club, s projections.BudgetSummary, history []projections.MonthTotal, rows []projections.ExpenseRow) {
	fmt.Fprintf(w, "%s budget\n", c.Name)
	fmt.Fprintf(w, "  monthly budget  %10.2f\n", s.Budget)
	fmt.Fprintf(w, "  spent           %10.2f  (%.0f%%)\n", s.Spent, s.Progress)
	fmt.Fprintf(w, "  remaining       %10.2f\n", s.Remaining)
	if s.OverBudget {
		fmt.Fprintln(w, "  over budget!")
	}

	fmt.Fprintln(w, "\nLast six months")
	for _, m := range history {
		fmt.Fprintf(w, "  %s %s  %10.2f\n", m.Key, m.Label, m.Total)
	}

	fmt.Fprintln(w)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No expenses recorded.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tAMOUNT\tEVENT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", r.Expense.ID, r.Expense.Date.Local().Format("2006-01-02"), r.Expense.Name, r.Expense.Amount, r.EventTitle)
	}
	tw.Flush()
}

func printPerf(w io.Writer, s perf.Snapshot) {
	fmt.Fprintf(w, "\nstorage: %d reads, %d writes, p50 %.2fms p95 %.2fms p99 %.2fms\n",
		s.Reads, s.Writes, s.P50Ms, s.P95Ms, s.P99Ms)
	for _, op := range s.SlowestOps {
		fmt.Fprintf(w, "  %-16s x%-4d avg %.2fms max %.2fms\n", op.Op, op.Count, op.AvgMs, op.MaxMs)
	}
}
