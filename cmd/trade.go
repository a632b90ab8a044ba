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

type tradeOpenCmd struct {
	symbol     string
	direction  string
	lot        string
	entryPrice string
	stopLoss   string
	takeProfit string
	plan       string
}

func (*tradeOpenCmd) Name() string     { return "trade-open" }
func (*tradeOpenCmd) Synopsis() string { return "open a trade in the journal" }
func (*tradeOpenCmd) Usage() string {
	return `pkm trade-open -s <symbol> -d <LONG|SHORT> -l <lot> -e <entry> -plan <text> [-sl <stop>] [-tp <target>]

  Journals a speculative trade. The plan is mandatory: a trade without a
  written rationale is rejected.
`
}

func (c *tradeOpenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Instrument symbol")
	f.StringVar(&c.direction, "d", "LONG", "Trade direction: LONG or SHORT")
	f.StringVar(&c.lot, "l", "", "Lot size")
	f.StringVar(&c.entryPrice, "e", "", "Entry price")
	f.StringVar(&c.stopLoss, "sl", "", "Stop loss price")
	f.StringVar(&c.takeProfit, "tp", "", "Take profit price")
	f.StringVar(&c.plan, "plan", "", "The trade plan (mandatory)")
}

func (c *tradeOpenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := pkm.ParseDirection(c.direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	t, err := app.journal.Open(pkm.Trade{
		Symbol:     c.symbol,
		Direction:  d,
		Lot:        pkm.ParseDecimal(c.lot),
		EntryPrice: pkm.ParseDecimal(c.entryPrice),
		StopLoss:   pkm.ParseDecimal(c.stopLoss),
		TakeProfit: pkm.ParseDecimal(c.takeProfit),
		Plan:       c.plan,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Opened trade %d: %s %s\n", t.ID, t.Direction, t.Symbol)
	return subcommands.ExitSuccess
}

type tradeListCmd struct {
	openOnly bool
}

func (*tradeListCmd) Name() string     { return "trades" }
func (*tradeListCmd) Synopsis() string { return "list the trade journal with statistics" }
func (*tradeListCmd) Usage() string {
	return `pkm trades [-open]
`
}

func (c *tradeListCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.openOnly, "open", false, "Only open trades")
}

func (c *tradeListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	var list []pkm.Trade
	if c.openOnly {
		list, err = app.journal.OpenTrades()
	} else {
		list, err = app.journal.Trades()
	}
	if err != nil {
		return fail(err)
	}
	stats, err := app.journal.Stats()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TradesMarkdown(list, stats))
	return subcommands.ExitSuccess
}

type tradeShowCmd struct {
	id int
}

func (*tradeShowCmd) Name() string     { return "trade-show" }
func (*tradeShowCmd) Synopsis() string { return "show one trade with its plan and outcome" }
func (*tradeShowCmd) Usage() string {
	return `pkm trade-show -id <id>
`
}

func (c *tradeShowCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Trade to show")
}

func (c *tradeShowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	t, err := app.journal.Trade(c.id)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TradeMarkdown(t))
	return subcommands.ExitSuccess
}

type tradeUpdateCmd struct {
	id         int
	lot        string
	entryPrice string
	stopLoss   string
	takeProfit string
	plan       string
}

func (*tradeUpdateCmd) Name() string     { return "trade-update" }
func (*tradeUpdateCmd) Synopsis() string { return "update an open trade" }
func (*tradeUpdateCmd) Usage() string {
	return `pkm trade-update -id <id> [flags]

  Adjusts an open trade (stops, lot, plan). Closed trades can only be
  corrected with 'trade-amend'.
`
}

func (c *tradeUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Trade to update")
	f.StringVar(&c.lot, "l", "", "New lot size")
	f.StringVar(&c.entryPrice, "e", "", "New entry price")
	f.StringVar(&c.stopLoss, "sl", "", "New stop loss")
	f.StringVar(&c.takeProfit, "tp", "", "New take profit")
	f.StringVar(&c.plan, "plan", "", "New plan text")
}

func (c *tradeUpdateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	t, err := app.journal.Trade(c.id)
	if err != nil {
		return fail(err)
	}
	if c.lot != "" {
		t.Lot = pkm.ParseDecimal(c.lot)
	}
	if c.entryPrice != "" {
		t.EntryPrice = pkm.ParseDecimal(c.entryPrice)
	}
	if c.stopLoss != "" {
		t.StopLoss = pkm.ParseDecimal(c.stopLoss)
	}
	if c.takeProfit != "" {
		t.TakeProfit = pkm.ParseDecimal(c.takeProfit)
	}
	if c.plan != "" {
		t.Plan = c.plan
	}
	if err := app.journal.Update(t); err != nil {
		return fail(err)
	}
	fmt.Printf("Updated trade %d\n", c.id)
	return subcommands.ExitSuccess
}

type tradeCloseCmd struct {
	id        int
	exitPrice string
	review    string
}

func (*tradeCloseCmd) Name() string     { return "trade-close" }
func (*tradeCloseCmd) Synopsis() string { return "close a trade at an exit price" }
func (*tradeCloseCmd) Usage() string {
	return `pkm trade-close -id <id> -x <exit-price> [-r <review>]

  Settles the trade. Shorts profit when the exit is below the entry.
`
}

func (c *tradeCloseCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Trade to close")
	f.StringVar(&c.exitPrice, "x", "", "Exit price")
	f.StringVar(&c.review, "r", "", "Post-mortem note")
}

func (c *tradeCloseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	t, err := app.journal.Close(c.id, pkm.ParseDecimal(c.exitPrice), c.review)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Closed trade %d with P&L %s\n", t.ID, pkm.FormatSettlement(t.PnL))
	return subcommands.ExitSuccess
}

type tradeAmendCmd struct {
	id         int
	entryPrice string
	exitPrice  string
	lot        string
	review     string
}

func (*tradeAmendCmd) Name() string     { return "trade-amend" }
func (*tradeAmendCmd) Synopsis() string { return "correct the fills of a closed trade" }
func (*tradeAmendCmd) Usage() string {
	return `pkm trade-amend -id <id> -e <entry> -x <exit> -l <lot> [-r <review>]

  Fixes a closed trade's recorded fills and recomputes its P&L. The
  lifecycle timestamps are untouched.
`
}

func (c *tradeAmendCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Closed trade to amend")
	f.StringVar(&c.entryPrice, "e", "", "Corrected entry price")
	f.StringVar(&c.exitPrice, "x", "", "Corrected exit price")
	f.StringVar(&c.lot, "l", "", "Corrected lot size")
	f.StringVar(&c.review, "r", "", "Replacement review note")
}

func (c *tradeAmendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	t, err := app.journal.AmendClosed(c.id,
		pkm.ParseDecimal(c.entryPrice),
		pkm.ParseDecimal(c.exitPrice),
		pkm.ParseDecimal(c.lot),
		c.review)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Amended trade %d, P&L now %s\n", t.ID, pkm.FormatSettlement(t.PnL))
	return subcommands.ExitSuccess
}

type tradeDeleteCmd struct {
	id int
}

func (*tradeDeleteCmd) Name() string     { return "trade-delete" }
func (*tradeDeleteCmd) Synopsis() string { return "delete a journal entry" }
func (*tradeDeleteCmd) Usage() string {
	return `pkm trade-delete -id <id>
`
}

func (c *tradeDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Trade to delete")
}

func (c *tradeDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if err := app.journal.Delete(c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted trade %d\n", c.id)
	return subcommands.ExitSuccess
}
