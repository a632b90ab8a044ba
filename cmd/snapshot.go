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

// snapshotCmd commits today's totals into the history tables.
type snapshotCmd struct {
	date string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record today's portfolio and debt totals" }
func (*snapshotCmd) Usage() string {
	return `pkm snapshot [-d <date>]

  Values the portfolio and appends one snapshot to the asset history and
  one to the debt history. A day already snapshotted is rejected, so the
  series is append-only.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", pkm.Today().String(), "Snapshot date")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := pkm.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	s, err := app.valuer.Summary(ctx)
	if err != nil {
		return fail(err)
	}
	assetSnap, debtSnap, err := pkm.CommitPair(app.assetLog, app.debtLog, on, s.TotalValue, s.TotalDebt)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Snapshot %s: assets %s, debt %s\n",
		on, pkm.FormatSettlement(assetSnap.Total), pkm.FormatSettlement(debtSnap.Total))
	if change, ok, err := app.assetLog.Change(); err == nil && ok {
		fmt.Printf("Change since previous snapshot: %s\n", pkm.FormatSettlement(change))
	}
	return subcommands.ExitSuccess
}

type historyCmd struct {
	debt bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the snapshot history" }
func (*historyCmd) Usage() string {
	return `pkm history [-debt]

  Prints the asset history (or, with -debt, the debt history) in
  chronological order with day-over-day changes.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.debt, "debt", false, "Show the debt history instead")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	log, title := app.assetLog, "Asset History"
	if c.debt {
		log, title = app.debtLog, "Debt History"
	}
	series, err := log.Series()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HistoryMarkdown(title, series))
	return subcommands.ExitSuccess
}
