package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ekurt/pkm"
	"github.com/ekurt/pkm/renderer"
)

type debtListCmd struct{}

func (*debtListCmd) Name() string     { return "debts" }
func (*debtListCmd) Synopsis() string { return "list debts and the total" }
func (*debtListCmd) Usage() string {
	return `pkm debts
`
}

func (*debtListCmd) SetFlags(f *flag.FlagSet) {}

func (c *debtListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	list, err := app.ledger.Debts()
	if err != nil {
		return fail(err)
	}
	total, err := app.ledger.TotalDebt()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.DebtsMarkdown(list, total))
	return subcommands.ExitSuccess
}

type debtAddCmd struct {
	description string
	amount      string
}

func (*debtAddCmd) Name() string     { return "debt-add" }
func (*debtAddCmd) Synopsis() string { return "record a debt" }
func (*debtAddCmd) Usage() string {
	return `pkm debt-add -d <description> -a <amount>

  Records a liability in the settlement currency. Debts reduce net worth
  and feed the debt history snapshots.
`
}

func (c *debtAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "d", "", "What the debt is")
	f.StringVar(&c.amount, "a", "", "Amount owed")
}

func (c *debtAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	d, err := app.ledger.AddDebt(pkm.Debt{Description: c.description, Amount: pkm.ParseDecimal(c.amount)})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded debt %d: %s\n", d.ID, pkm.FormatSettlement(d.Amount))
	return subcommands.ExitSuccess
}

type debtEditCmd struct {
	id          int
	description string
	amount      string
}

func (*debtEditCmd) Name() string     { return "debt-edit" }
func (*debtEditCmd) Synopsis() string { return "edit a debt" }
func (*debtEditCmd) Usage() string {
	return `pkm debt-edit -id <id> [-d <description>] [-a <amount>]
`
}

func (c *debtEditCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Debt to edit")
	f.StringVar(&c.description, "d", "", "New description")
	f.StringVar(&c.amount, "a", "", "New amount")
}

func (c *debtEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	list, err := app.ledger.Debts()
	if err != nil {
		return fail(err)
	}
	var target *pkm.Debt
	for i := range list {
		if list[i].ID == c.id {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return fail(pkm.NotFoundError{Collection: "debts", ID: c.id})
	}
	if c.description != "" {
		target.Description = c.description
	}
	if c.amount != "" {
		target.Amount = pkm.ParseDecimal(c.amount)
	}
	if err := app.ledger.EditDebt(*target); err != nil {
		return fail(err)
	}
	fmt.Printf("Updated debt %d\n", c.id)
	return subcommands.ExitSuccess
}

type debtDeleteCmd struct {
	id int
}

func (*debtDeleteCmd) Name() string     { return "debt-delete" }
func (*debtDeleteCmd) Synopsis() string { return "delete a debt" }
func (*debtDeleteCmd) Usage() string {
	return `pkm debt-delete -id <id>
`
}

func (c *debtDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Debt to delete")
}

func (c *debtDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp()
	if err != nil {
		return fail(err)
	}
	if err := app.ledger.DeleteDebt(c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted debt %d\n", c.id)
	return subcommands.ExitSuccess
}
