package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ekurt/pkm"
	"github.com/ekurt/pkm/renderer"
)

type goalInitCmd struct {
	starting string
	target   string
	days     int
	start    string
}

func (*goalInitCmd) Name() string     { return "goal-init" }
func (*goalInitCmd) Synopsis() string { return "start a capital-growth challenge" }
func (*goalInitCmd) Usage() string {
	return `pkm goal-init -s <starting> -t <target> -days <n> [-d <start-date>]

  Starts the challenge. The target must exceed the starting capital.
  An active challenge must be reset (goal-reset) before a new one starts.
`
}

func (c *goalInitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.starting, "s", "", "Starting capital")
	f.StringVar(&c.target, "t", "", "Target capital")
	f.IntVar(&c.days, "days", 0, "Challenge duration in days")
	f.StringVar(&c.start, "d", pkm.Today().String(), "Start date")
}

func (c *goalInitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := pkm.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	g := pkm.Goal{
		StartingCapital: pkm.ParseDecimal(c.starting),
		TargetCapital:   pkm.ParseDecimal(c.target),
		DurationDays:    c.days,
		StartDate:       start,
	}
	if err := app.tracker.Init(g); err != nil {
		return fail(err)
	}
	fmt.Printf("Challenge started: %s to %s in %d days\n",
		pkm.FormatSettlement(g.StartingCapital), pkm.FormatSettlement(g.TargetCapital), g.DurationDays)
	return subcommands.ExitSuccess
}

type goalStatusCmd struct {
	capital string
}

func (*goalStatusCmd) Name() string     { return "goal" }
func (*goalStatusCmd) Synopsis() string { return "show the challenge progress" }
func (*goalStatusCmd) Usage() string {
	return `pkm goal [-c <capital>]

  Shows progress against the challenge. Without -c the current capital is
  the portfolio's total value.
`
}

func (c *goalStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.capital, "c", "", "Current capital; defaults to the portfolio total")
}

func (c *goalStatusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	current := pkm.ParseDecimal(c.capital)
	if c.capital == "" {
		s, err := app.valuer.Summary(ctx)
		if err != nil {
			return fail(err)
		}
		current = s.TotalValue
	}
	status, err := app.tracker.Status(pkm.Today(), current)
	if err != nil {
		return fail(err)
	}
	records, err := app.tracker.Records()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.GoalMarkdown(status, records))
	return subcommands.ExitSuccess
}

type goalRecordCmd struct {
	capital string
	date    string
}

func (*goalRecordCmd) Name() string     { return "goal-record" }
func (*goalRecordCmd) Synopsis() string { return "log today's capital for the challenge" }
func (*goalRecordCmd) Usage() string {
	return `pkm goal-record [-c <capital>] [-d <date>]

  Appends one daily entry with the change versus the previous entry. A day
  already logged is rejected. Without -c the capital is the portfolio's
  total value.
`
}

func (c *goalRecordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.capital, "c", "", "Capital to log; defaults to the portfolio total")
	f.StringVar(&c.date, "d", pkm.Today().String(), "Entry date")
}

func (c *goalRecordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := pkm.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	capital := pkm.ParseDecimal(c.capital)
	if c.capital == "" {
		s, err := app.valuer.Summary(ctx)
		if err != nil {
			return fail(err)
		}
		capital = s.TotalValue
	}
	rec, err := app.tracker.Record(on, capital)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Logged %s for %s (change %s)\n",
		pkm.FormatSettlement(rec.Capital), rec.Date, pkm.FormatSettlement(rec.Delta))
	return subcommands.ExitSuccess
}

type goalResetCmd struct{}

func (*goalResetCmd) Name() string     { return "goal-reset" }
func (*goalResetCmd) Synopsis() string { return "abandon the challenge and wipe its log" }
func (*goalResetCmd) Usage() string {
	return `pkm goal-reset
`
}

func (*goalResetCmd) SetFlags(f *flag.FlagSet) {}

func (c *goalResetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if err := app.tracker.Reset(); err != nil {
		return fail(err)
	}
	fmt.Println("Challenge reset")
	return subcommands.ExitSuccess
}
