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

type closedListCmd struct{}

func (*closedListCmd) Name() string     { return "closed" }
func (*closedListCmd) Synopsis() string { return "list the closed-position archive with statistics" }
func (*closedListCmd) Usage() string {
	return `pkm closed

  Prints every archived position, newest exit first, with win rate and
  average return.
`
}

func (*closedListCmd) SetFlags(f *flag.FlagSet) {}

func (c *closedListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	list, err := app.ledger.Closed()
	if err != nil {
		return fail(err)
	}
	stats, err := app.ledger.Stats()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.ClosedMarkdown(list, stats))
	return subcommands.ExitSuccess
}

// closedAddCmd imports a position that was closed outside the tool.
type closedAddCmd struct {
	symbol    string
	assetType string
	amount    string
	buyPrice  string
	sellPrice string
	buyDate   string
	sellDate  string
	notes     string
}

func (*closedAddCmd) Name() string     { return "closed-add" }
func (*closedAddCmd) Synopsis() string { return "record a position closed outside the tool" }
func (*closedAddCmd) Usage() string {
	return `pkm closed-add -s <symbol> -t <type> -a <amount> -p <buy> -x <sell> [-bd <date>] [-sd <date>] [-n <notes>]

  Appends directly to the closed-position archive. The realized return is
  computed from the two prices.
`
}

func (c *closedAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.StringVar(&c.assetType, "t", "equity", "Asset type")
	f.StringVar(&c.amount, "a", "", "Amount")
	f.StringVar(&c.buyPrice, "p", "", "Buy price")
	f.StringVar(&c.sellPrice, "x", "", "Sell price")
	f.StringVar(&c.buyDate, "bd", pkm.Today().String(), "Buy date")
	f.StringVar(&c.sellDate, "sd", pkm.Today().String(), "Sell date")
	f.StringVar(&c.notes, "n", "", "Notes")
}

func (c *closedAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := pkm.ParseAssetType(c.assetType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	buyDate, err := pkm.ParseDate(c.buyDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing buy date: %v\n", err)
		return subcommands.ExitUsageError
	}
	sellDate, err := pkm.ParseDate(c.sellDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing sell date: %v\n", err)
		return subcommands.ExitUsageError
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	closed, err := app.ledger.AddClosed(pkm.ClosedPosition{
		Symbol:    c.symbol,
		Type:      t,
		Amount:    pkm.ParseDecimal(c.amount),
		BuyPrice:  pkm.ParseDecimal(c.buyPrice),
		SellPrice: pkm.ParseDecimal(c.sellPrice),
		BuyDate:   buyDate,
		SellDate:  sellDate,
		Notes:     c.notes,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded closed position %d (%s)\n", closed.ID, closed.ProfitLoss.SignedString())
	return subcommands.ExitSuccess
}

type closedEditCmd struct {
	id        int
	amount    string
	buyPrice  string
	sellPrice string
	notes     string
}

func (*closedEditCmd) Name() string     { return "closed-edit" }
func (*closedEditCmd) Synopsis() string { return "correct an archived position" }
func (*closedEditCmd) Usage() string {
	return `pkm closed-edit -id <id> [flags]

  Fixes the fields of an archived position. The realized return is
  recomputed from the corrected prices.
`
}

func (c *closedEditCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Archived position to edit")
	f.StringVar(&c.amount, "a", "", "New amount")
	f.StringVar(&c.buyPrice, "p", "", "New buy price")
	f.StringVar(&c.sellPrice, "x", "", "New sell price")
	f.StringVar(&c.notes, "n", "", "New notes")
}

func (c *closedEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	list, err := app.ledger.Closed()
	if err != nil {
		return fail(err)
	}
	var target *pkm.ClosedPosition
	for i := range list {
		if list[i].ID == c.id {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return fail(pkm.NotFoundError{Collection: "closed_positions", ID: c.id})
	}
	if c.amount != "" {
		target.Amount = pkm.ParseDecimal(c.amount)
	}
	if c.buyPrice != "" {
		target.BuyPrice = pkm.ParseDecimal(c.buyPrice)
	}
	if c.sellPrice != "" {
		target.SellPrice = pkm.ParseDecimal(c.sellPrice)
	}
	if c.notes != "" {
		target.Notes = c.notes
	}
	if err := app.ledger.EditClosed(*target); err != nil {
		return fail(err)
	}
	fmt.Printf("Updated closed position %d\n", c.id)
	return subcommands.ExitSuccess
}

type closedDeleteCmd struct {
	id int
}

func (*closedDeleteCmd) Name() string     { return "closed-delete" }
func (*closedDeleteCmd) Synopsis() string { return "delete an archived position" }
func (*closedDeleteCmd) Usage() string {
	return `pkm closed-delete -id <id>
`
}

func (c *closedDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Archived position to delete")
}

func (c *closedDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if err := app.ledger.DeleteClosed(c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted closed position %d\n", c.id)
	return subcommands.ExitSuccess
}
