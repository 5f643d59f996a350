package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"campuspulse/internal/application/listutil"
	"campuspulse/internal/application/projections"
	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/event"
)

func clubsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clubs",
		Usage: "list clubs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "match name or description"},
			&cli.BoolFlag{Name: "showcase", Usage: "only the clubs featured on the home page"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			clubs := rt.store.Snapshot().Clubs
			switch {
			case c.Bool("showcase"):
				clubs = projections.ShowcasedClubs(clubs, projections.DefaultShowcaseCount)
			case c.String("search") != "":
				clubs = projections.SearchClubs(clubs, c.String("search"))
			}
			printClubs(c.App.Writer, clubs)
			return nil
		}),
	}
}

func clubCommand() *cli.Command {
	return &cli.Command{
		Name:      "club",
		Usage:     "show one club with its events and team",
		ArgsUsage: "<club-slug>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if err := requireArgs(c, 1, 1); err != nil {
				return err
			}
			page, err := projections.QueryClubPage(rt.store.Snapshot(), c.Args().First(), time.Now())
			if err != nil {
				return err
			}
			printClubPage(c.App.Writer, page)
			return nil
		}),
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "match title, description or tag"},
		&cli.StringFlag{Name: "category", Value: "All", Usage: "Academic, Sports, Social, Tech, Music or All"},
		&cli.StringFlag{Name: "from", Usage: "earliest day, e.g. 2026-03-01 or \"next monday\""},
		&cli.StringFlag{Name: "to", Usage: "last day, inclusive"},
	}
}

func homeEvents(c *cli.Context, snap store.Snapshot, now time.Time) ([]event.Event, error) {
	filter, err := listutil.ParseEventFilter(listutil.FilterParams{
		Search:   c.String("search"),
		Category: c.String("category"),
		From:     c.String("from"),
		To:       c.String("to"),
	}, now)
	if err != nil {
		return nil, err
	}
	return projections.QueryHomeEvents(snap, filter), nil
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "list events across all clubs",
		Flags: append(filterFlags(),
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "per-page", Value: listutil.DefaultPerPage},
		),
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			snap, now := rt.store.Snapshot(), time.Now()
			events, err := homeEvents(c, snap, now)
			if err != nil {
				return err
			}
			byID := projections.ClubsByID(snap.Clubs)
			rows := make([]eventRow, 0, len(events))
			for _, e := range events {
				rows = append(rows, eventRow{Event: e, Club: byID[e.ClubID], Upcoming: projections.IsUpcoming(e, now)})
			}
			params := listutil.NewPageParams(c.Int("page"), c.Int("per-page"))
			info := listutil.NewPageInfo(params.Page, params.PerPage, len(rows))
			printEvents(c.App.Writer, listutil.Paginate(rows, info))
			if info.ShowPagination() {
				fmt.Fprintf(c.App.Writer, "\nShowing %d-%d of %d (page %d/%d)\n",
					info.StartRow(), info.EndRow(), info.Total, info.Page, info.TotalPages)
			}
			return nil
		}),
	}
}

func calendarCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "group events by day",
		Flags: filterFlags(),
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			snap := rt.store.Snapshot()
			events, err := homeEvents(c, snap, time.Now())
			if err != nil {
				return err
			}
			byID := projections.ClubsByID(snap.Clubs)
			for _, day := range projections.CalendarDays(events, time.Local) {
				fmt.Fprintln(c.App.Writer, day.Key)
				for _, e := range day.Events {
					fmt.Fprintf(c.App.Writer, "  %s  %s (%s)\n", e.Date.Local().Format("15:04"), e.Title, byID[e.ClubID].Name)
				}
			}
			return nil
		}),
	}
}

func eventCommand() *cli.Command {
	return &cli.Command{
		Name:      "event",
		Usage:     "show one event with its reviews",
		ArgsUsage: "<club-slug> <event-slug>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if err := requireArgs(c, 2, 2); err != nil {
				return err
			}
			page, err := projections.QueryEventPage(rt.store.Snapshot(), c.Args().Get(0), c.Args().Get(1), time.Now())
			if err != nil {
				return err
			}
			printEventPage(c.App.Writer, page)
			return nil
		}),
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "print a line whenever another process changes clubs or events",
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			cancel := rt.store.Watch(func(s store.Snapshot) {
				fmt.Fprintf(c.App.Writer, "%s  %d clubs, %d events\n",
					time.Now().Format(time.TimeOnly), len(s.Clubs), len(s.Events))
			})
			defer cancel()
			fmt.Fprintf(c.App.Writer, "watching as %s (Ctrl-C to stop)\n", rt.origin)
			<-c.Context.Done()
			return nil
		}),
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "replace all clubs and events with the sample data",
		Action: withRuntimeOpts(true, func(c *cli.Context, rt *runtime) error {
			if err := rt.store.ResetToSeed(c.Context); err != nil {
				return err
			}
			snap := rt.store.Snapshot()
			fmt.Fprintf(c.App.Writer, "restored %d clubs and %d events\n", len(snap.Clubs), len(snap.Events))
			return nil
		}),
	}
}
