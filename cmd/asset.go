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

// assetAddCmd holds the flags for the 'add' subcommand.
type assetAddCmd struct {
	assetType   string
	symbol      string
	amount      string
	buyPrice    string
	manualPrice string
	basket      string
}

func (*assetAddCmd) Name() string     { return "add" }
func (*assetAddCmd) Synopsis() string { return "add an open position to the ledger" }
func (*assetAddCmd) Usage() string {
	return `pkm add -t <type> -s <symbol> -a <amount> -p <buy-price> [-m <manual-price>] [-b <basket>]

  Records a new holding. Amounts and prices accept both decimal comma and
  decimal point. With -m the position is valued at the given manual price
  instead of a live quote.
`
}

func (c *assetAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "t", "", "Asset type: equity, crypto, fund, cash or commodity")
	f.StringVar(&c.symbol, "s", "", "Ticker symbol, e.g. THYAO or BTC")
	f.StringVar(&c.amount, "a", "", "Amount held")
	f.StringVar(&c.buyPrice, "p", "", "Buy price in the asset's pricing currency")
	f.StringVar(&c.manualPrice, "m", "", "Manual price; disables live quotes for this position")
	f.StringVar(&c.basket, "b", "", "Optional basket tag")
}

func (c *assetAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := pkm.ParseAssetType(c.assetType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a := pkm.Asset{
		Type:     t,
		Symbol:   c.symbol,
		Amount:   pkm.ParseDecimal(c.amount),
		BuyPrice: pkm.ParseDecimal(c.buyPrice),
		Source:   pkm.SourceAutomatic,
		Basket:   c.basket,
	}
	if c.manualPrice != "" {
		a.Source = pkm.SourceManual
		a.ManualPrice = pkm.ParseDecimal(c.manualPrice)
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	a, err = app.ledger.Add(a)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added %s %s as position %d\n", pkm.FormatDecimal(a.Amount), a.Symbol, a.ID)
	return subcommands.ExitSuccess
}

type assetListCmd struct {
	assetType string
	basket    string
}

func (*assetListCmd) Name() string     { return "list" }
func (*assetListCmd) Synopsis() string { return "list open positions with their current value" }
func (*assetListCmd) Usage() string {
	return `pkm list [-t <type>] [-b <basket>]

  Values every open position and prints the holdings table. Positions with
  no live quote are valued at their buy price and marked.
`
}

func (c *assetListCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "t", "", "Only this asset type")
	f.StringVar(&c.basket, "b", "", "Only this basket")
}

func (c *assetListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	var s *pkm.Summary
	if c.basket != "" {
		s, err = app.valuer.BasketSummary(ctx, c.basket)
	} else {
		s, err = app.valuer.Summary(ctx)
	}
	if err != nil {
		return fail(err)
	}
	if c.assetType != "" {
		t, err := pkm.ParseAssetType(c.assetType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filtered := *s
		filtered.Holdings = nil
		for _, h := range s.Holdings {
			if h.Type == t {
				filtered.Holdings = append(filtered.Holdings, h)
			}
		}
		s = &filtered
	}
	printMarkdown(renderer.HoldingsMarkdown(s))
	return subcommands.ExitSuccess
}

type assetEditCmd struct {
	id          int
	assetType   string
	symbol      string
	amount      string
	buyPrice    string
	manualPrice string
	basket      string
	auto        bool
}

func (*assetEditCmd) Name() string     { return "edit" }
func (*assetEditCmd) Synopsis() string { return "edit an open position" }
func (*assetEditCmd) Usage() string {
	return `pkm edit -id <id> [flags]

  Replaces the fields of an open position. Omitted flags keep their stored
  value; the ID and creation time never change.
`
}

func (c *assetEditCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Position to edit")
	f.StringVar(&c.assetType, "t", "", "New asset type")
	f.StringVar(&c.symbol, "s", "", "New symbol")
	f.StringVar(&c.amount, "a", "", "New amount")
	f.StringVar(&c.buyPrice, "p", "", "New buy price")
	f.StringVar(&c.manualPrice, "m", "", "New manual price (switches to manual pricing)")
	f.StringVar(&c.basket, "b", "", "New basket tag")
	f.BoolVar(&c.auto, "auto", false, "Switch back to live quotes")
}

func (c *assetEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	a, err := app.ledger.Asset(c.id)
	if err != nil {
		return fail(err)
	}
	if c.assetType != "" {
		t, err := pkm.ParseAssetType(c.assetType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		a.Type = t
	}
	if c.symbol != "" {
		a.Symbol = c.symbol
	}
	if c.amount != "" {
		a.Amount = pkm.ParseDecimal(c.amount)
	}
	if c.buyPrice != "" {
		a.BuyPrice = pkm.ParseDecimal(c.buyPrice)
	}
	if c.basket != "" {
		a.Basket = c.basket
	}
	if c.manualPrice != "" {
		a.Source = pkm.SourceManual
		a.ManualPrice = pkm.ParseDecimal(c.manualPrice)
	}
	if c.auto {
		a.Source = pkm.SourceAutomatic
	}
	if err := app.ledger.Edit(a); err != nil {
		return fail(err)
	}
	fmt.Printf("Updated position %d\n", a.ID)
	return subcommands.ExitSuccess
}

type assetDeleteCmd struct {
	id int
}

func (*assetDeleteCmd) Name() string     { return "delete" }
func (*assetDeleteCmd) Synopsis() string { return "delete an open position without archiving it" }
func (*assetDeleteCmd) Usage() string {
	return `pkm delete -id <id>

  Removes an open position outright. To keep a record of the exit, use
  'close' instead.
`
}

func (c *assetDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Position to delete")
}

func (c *assetDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if err := app.ledger.Delete(c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted position %d\n", c.id)
	return subcommands.ExitSuccess
}

type assetCloseCmd struct {
	id        int
	sellPrice string
	sellDate  string
	notes     string
}

func (*assetCloseCmd) Name() string     { return "close" }
func (*assetCloseCmd) Synopsis() string { return "close an open position into the archive" }
func (*assetCloseCmd) Usage() string {
	return `pkm close -id <id> -p <sell-price> [-d <date>] [-n <notes>]

  Archives the position as closed with its realized return, then removes it
  from the open ledger.
`
}

func (c *assetCloseCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Position to close")
	f.StringVar(&c.sellPrice, "p", "", "Sell price in the asset's pricing currency")
	f.StringVar(&c.sellDate, "d", pkm.Today().String(), "Sell date")
	f.StringVar(&c.notes, "n", "", "Exit notes")
}

func (c *assetCloseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sellDate, err := pkm.ParseDate(c.sellDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	closed, err := app.ledger.Close(c.id, pkm.ParseDecimal(c.sellPrice), sellDate, c.notes)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Closed %s with a return of %s\n", closed.Symbol, closed.ProfitLoss.SignedString())
	return subcommands.ExitSuccess
}
