package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"campuspulse/internal/adapters/chart"
	"campuspulse/internal/adapters/export"
	"campuspulse/internal/application/listutil"
	"campuspulse/internal/application/orchestrators"
	"campuspulse/internal/application/projections"
	"campuspulse/internal/application/session"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// loginFlags identify the club an admin command acts as.
func loginFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "as", Usage: "club name to log in as", Required: true},
		&cli.StringFlag{Name: "password", Usage: "club password", Required: true, EnvVars: []string{"CAMPUSPULSE_PASSWORD"}},
	}
}

func login(c *cli.Context, rt *runtime) (club.Club, error) {
	return rt.session.Login(c.Context, c.String("as"), c.String("password"))
}

// findOwnEvent resolves eventSlug among the logged-in club's events.
func findOwnEvent(rt *runtime, owner club.Club, eventSlug string) (event.Event, error) {
	for _, e := range projections.ClubEvents(rt.store.Snapshot(), owner.ID) {
		if e.Slug == eventSlug {
			return e, nil
		}
	}
	return event.Event{}, fmt.Errorf("%s/%s: %w", owner.Slug, eventSlug, projections.ErrEventNotFound)
}

// parseWhen accepts "YYYY-MM-DD HH:MM" or anything listutil.ParseDay understands.
func parseWhen(raw string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(raw), now.Location()); err == nil {
		return t, nil
	}
	return listutil.ParseDay(raw, now)
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create a new club",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "category", Required: true, Usage: "Academic, Sports, Social, Tech or Music"},
			&cli.StringFlag{Name: "logo", Usage: "logo image URL"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			created, err := rt.session.Register(c.Context, session.RegisterInput{
				Name:     c.String("name"),
				Password: c.String("password"),
				Category: club.Category(c.String("category")),
				Logo:     c.String("logo"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "registered %s as /club/%s\n", created.Name, created.Slug)
			return nil
		}),
	}
}

func postCommand() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "create or edit an event, or delete one with --delete",
		Flags: append(loginFlags(),
			&cli.StringFlag{Name: "edit", Usage: "slug of the event to edit"},
			&cli.StringFlag{Name: "delete", Usage: "slug of the event to delete"},
			&cli.StringFlag{Name: "title"},
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "date", Usage: "e.g. \"2026-03-01 18:30\""},
			&cli.StringFlag{Name: "location"},
			&cli.StringFlag{Name: "link", Usage: "registration link"},
			&cli.StringFlag{Name: "image"},
			&cli.StringFlag{Name: "tags", Usage: "comma separated"},
		),
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			owner, err := login(c, rt)
			if err != nil {
				return err
			}
			if slug := c.String("delete"); slug != "" {
				e, err := findOwnEvent(rt, owner, slug)
				if err != nil {
					return err
				}
				if err := orchestrators.ExecuteDeleteEvent(c.Context,
					orchestrators.DeleteEventInput{ClubID: owner.ID, EventID: e.ID},
					orchestrators.DeleteEventDeps{Store: rt.store}); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "deleted %s\n", e.Title)
				return nil
			}

			input := orchestrators.SaveEventInput{
				ClubID:           owner.ID,
				Title:            c.String("title"),
				Description:      c.String("description"),
				Location:         c.String("location"),
				RegistrationLink: c.String("link"),
				Image:            c.String("image"),
				Tags:             c.String("tags"),
			}
			if slug := c.String("edit"); slug != "" {
				e, err := findOwnEvent(rt, owner, slug)
				if err != nil {
					return err
				}
				input.ID = e.ID
			}
			if raw := c.String("date"); raw != "" {
				if input.Date, err = parseWhen(raw, time.Now()); err != nil {
					return err
				}
			}
			saved, err := orchestrators.ExecuteSaveEvent(c.Context, input, orchestrators.SaveEventDeps{
				Store:      rt.store,
				Clubs:      rt.store,
				GenerateID: uuid.NewString,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved /club/%s/event/%s\n", owner.Slug, saved.Slug)
			return nil
		}),
	}
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "review a past event",
		ArgsUsage: "<club-slug> <event-slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "author", Required: true},
			&cli.IntFlag{Name: "rating", Required: true, Usage: "1 to 5"},
			&cli.StringFlag{Name: "comment", Required: true},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if err := requireArgs(c, 2, 2); err != nil {
				return err
			}
			page, err := projections.QueryEventPage(rt.store.Snapshot(), c.Args().Get(0), c.Args().Get(1), time.Now())
			if err != nil {
				return err
			}
			_, err = orchestrators.ExecuteSubmitReview(c.Context, orchestrators.SubmitReviewInput{
				EventID: page.Event.ID,
				Author:  c.String("author"),
				Rating:  c.Int("rating"),
				Comment: c.String("comment"),
			}, orchestrators.SubmitReviewDeps{Store: rt.store, GenerateID: uuid.NewString, Now: time.Now})
			if err != nil {
				return err
			}
			page, err = projections.QueryEventPage(rt.store.Snapshot(), c.Args().Get(0), c.Args().Get(1), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "thanks! %s now rates %s\n", page.Event.Title, page.Rating.Display())
			return nil
		}),
	}
}

func galleryCommand() *cli.Command {
	deps := func(rt *runtime) orchestrators.GalleryDeps {
		return orchestrators.GalleryDeps{Store: rt.store, Now: time.Now}
	}
	return &cli.Command{
		Name:  "gallery",
		Usage: "manage photos of a past event",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "<event-slug> <image-url>...",
				Flags:     loginFlags(),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					if err := requireArgs(c, 2, -1); err != nil {
						return err
					}
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					e, err := findOwnEvent(rt, owner, c.Args().First())
					if err != nil {
						return err
					}
					e, err = orchestrators.ExecuteAddGalleryImages(c.Context, orchestrators.GalleryInput{
						ClubID: owner.ID, EventID: e.ID, Images: c.Args().Tail(),
					}, deps(rt))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s has %d photos\n", e.Title, len(e.Gallery))
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "<event-slug> <image-url>",
				Flags:     loginFlags(),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					if err := requireArgs(c, 2, 2); err != nil {
						return err
					}
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					e, err := findOwnEvent(rt, owner, c.Args().First())
					if err != nil {
						return err
					}
					e, err = orchestrators.ExecuteDeleteGalleryImage(c.Context, orchestrators.GalleryInput{
						ClubID: owner.ID, EventID: e.ID, Images: []string{c.Args().Get(1)},
					}, deps(rt))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s has %d photos\n", e.Title, len(e.Gallery))
					return nil
				}),
			},
		},
	}
}

func budgetCommand() *cli.Command {
	return &cli.Command{
		Name:      "budget",
		Usage:     "show a club's spending, or change its monthly budget with --set",
		ArgsUsage: "<club-slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "chart", Usage: "write the six-month spending chart to this PNG file"},
			&cli.Float64Flag{Name: "set", Usage: "new monthly budget (requires --as and --password)"},
			&cli.StringFlag{Name: "as"},
			&cli.StringFlag{Name: "password", EnvVars: []string{"CAMPUSPULSE_PASSWORD"}},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if err := requireArgs(c, 1, 1); err != nil {
				return err
			}
			snap, now := rt.store.Snapshot(), time.Now()
			target, ok := projections.FindClubBySlug(snap.Clubs, c.Args().First())
			if !ok {
				return projections.ErrClubNotFound
			}

			if c.IsSet("set") {
				owner, err := login(c, rt)
				if err != nil {
					return err
				}
				if owner.ID != target.ID {
					return orchestrators.ErrNotOwner
				}
				if target, err = orchestrators.ExecuteSetBudget(c.Context, orchestrators.SetBudgetInput{
					ClubID: owner.ID, Budget: c.Float64("set"),
				}, rt.clubDeps()); err != nil {
					return err
				}
				snap = rt.store.Snapshot()
			}

			history := projections.MonthlyHistory(target.Expenses, now)
			printBudget(c.App.Writer, target, projections.QueryBudgetSummary(target, now), history,
				projections.ExpenseRows(target, snap.Events))

			if path := c.String("chart"); path != "" {
				bars := make([]chart.Bar, len(history))
				for i, m := range history {
					bars[i] = chart.Bar{Label: m.Label, Total: m.Total}
				}
				png, err := chart.RenderMonthlySpending(target.Name+" spending", bars, chart.PaletteFor(target.ThemeColor))
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, png, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "\nchart written to %s\n", path)
			}
			return nil
		}),
	}
}

func expenseCommand() *cli.Command {
	return &cli.Command{
		Name:  "expense",
		Usage: "record or remove club expenses",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "record an expense, or edit one with --id",
				Flags: append(loginFlags(),
					&cli.StringFlag{Name: "id", Usage: "expense to edit"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.Float64Flag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "date", Value: "today"},
					&cli.StringFlag{Name: "event", Value: orchestrators.NoEventID, Usage: "slug of the event it paid for"},
				),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					date, err := parseWhen(c.String("date"), time.Now())
					if err != nil {
						return err
					}
					eventID := orchestrators.NoEventID
					if slug := c.String("event"); slug != orchestrators.NoEventID {
						e, err := findOwnEvent(rt, owner, slug)
						if err != nil {
							return err
						}
						eventID = e.ID
					}
					x, err := orchestrators.ExecuteSaveExpense(c.Context, orchestrators.SaveExpenseInput{
						ClubID:    owner.ID,
						ExpenseID: c.String("id"),
						Name:      c.String("name"),
						Amount:    c.Float64("amount"),
						Date:      date,
						EventID:   eventID,
					}, rt.clubDeps())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "saved expense %s\n", x.ID)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "<expense-id>",
				Flags:     loginFlags(),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					return orchestrators.ExecuteDeleteExpense(c.Context, orchestrators.DeleteExpenseInput{
						ClubID: owner.ID, ExpenseID: c.Args().First(),
					}, rt.clubDeps())
				}),
			},
		},
	}
}

func teamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "manage a club's leaders and members",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add a person, or edit one with --id",
				Flags: append(loginFlags(),
					&cli.StringFlag{Name: "id"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "role", Value: club.RoleMember, Usage: "Leader or Member"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "branch"},
					&cli.StringFlag{Name: "department"},
					&cli.StringFlag{Name: "avatar"},
				),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					p, err := orchestrators.ExecuteSavePerson(c.Context, orchestrators.SavePersonInput{
						ClubID:     owner.ID,
						PersonID:   c.String("id"),
						Name:       c.String("name"),
						Role:       c.String("role"),
						Email:      c.String("email"),
						Phone:      c.String("phone"),
						Branch:     c.String("branch"),
						Department: c.String("department"),
						Avatar:     c.String("avatar"),
					}, rt.clubDeps())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "saved %s (%s) as %s\n", p.Name, p.ID, p.Role)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "<person-id>",
				Flags:     loginFlags(),
				Action: withRuntime(func(c *cli.Context, rt *runtime) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					owner, err := login(c, rt)
					if err != nil {
						return err
					}
					return orchestrators.ExecuteDeletePerson(c.Context, orchestrators.DeletePersonInput{
						ClubID: owner.ID, PersonID: c.Args().First(),
					}, rt.clubDeps())
				}),
			},
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "update a club's description, logo, theme colour and links",
		Flags: append(loginFlags(),
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "logo"},
			&cli.StringFlag{Name: "theme", Usage: "#rrggbb"},
			&cli.StringSliceFlag{Name: "resource", Usage: "label=url; repeat to replace the whole list"},
		),
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			owner, err := login(c, rt)
			if err != nil {
				return err
			}
			input := orchestrators.UpdateProfileInput{
				ClubID:      owner.ID,
				Description: c.String("description"),
				Logo:        c.String("logo"),
				ThemeColor:  c.String("theme"),
			}
			if c.IsSet("resource") {
				input.Resources = []orchestrators.ResourceInput{}
				for _, raw := range c.StringSlice("resource") {
					label, url, ok := strings.Cut(raw, "=")
					if !ok {
						return fmt.Errorf("resource %q: want label=url", raw)
					}
					input.Resources = append(input.Resources, orchestrators.ResourceInput{Label: label, URL: url})
				}
			}
			updated, err := orchestrators.ExecuteUpdateProfile(c.Context, input, rt.clubDeps())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "updated %s\n", updated.Name)
			return nil
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a club's expenses to an Excel workbook",
		ArgsUsage: "<club-slug> <out.xlsx>",
		Action: withRuntime(func(c *cli.Context, rt *runtime) (err error) {
			if err := requireArgs(c, 2, 2); err != nil {
				return err
			}
			target, ok := projections.FindClubBySlug(rt.store.Snapshot().Clubs, c.Args().Get(0))
			if !ok {
				return projections.ErrClubNotFound
			}
			f, err := os.Create(c.Args().Get(1))
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, f.Close())
			}()
			n, err := orchestrators.ExecuteExportExpenses(c.Context, orchestrators.ExportExpensesInput{ClubID: target.ID},
				orchestrators.ExportExpensesDeps{Store: rt.store, Writer: export.NewWorkbook(), Out: f})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "exported %d expenses to %s\n", n, f.Name())
			return nil
		}),
	}
}
