package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/ekurt/pkm/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	refresh bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio valuation summary" }
func (*summaryCmd) Usage() string {
	return `pkm summary [-refresh]

  Values every open position, prints totals, the category distribution and
  net worth. With -refresh, cached quotes are discarded first.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Discard cached quotes before valuing")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if c.refresh {
		app.valuer.Refresh()
	}
	s, err := app.valuer.Summary(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}

type holdingsCmd struct {
	basket string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the valued holdings table" }
func (*holdingsCmd) Usage() string {
	return `pkm holdings [-b <basket>]
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.basket, "b", "", "Only this basket")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	s, err := app.valuer.Summary(ctx)
	if err != nil {
		return fail(err)
	}
	if c.basket != "" {
		if s, err = app.valuer.BasketSummary(ctx, c.basket); err != nil {
			return fail(err)
		}
	}
	printMarkdown(renderer.HoldingsMarkdown(s))
	return subcommands.ExitSuccess
}
