package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/ekurt/pkm"
)

func ClosedMarkdown(list []pkm.ClosedPosition, stats pkm.ClosedStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Closed Positions")
	if stats.Count > 0 {
		doc.PlainText(fmt.Sprintf("%d closed, %d wins / %d losses (win rate %s), average return %s.",
			stats.Count, stats.Wins, stats.Losses, stats.WinRate, stats.AvgReturn.SignedString()))
		doc.PlainText(fmt.Sprintf("Best %s, worst %s.", stats.BestReturn.SignedString(), stats.WorstReturn.SignedString()))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft,
		},
		Header: []string{"ID", "Symbol", "Amount", "Buy", "Sell", "Return", "Sold", "Notes"},
		Rows:   [][]string{},
	}
	for _, c := range list {
		table.Rows = append(table.Rows, []string{
			pkm.FormatID(c.ID),
			c.Symbol,
			pkm.FormatDecimal(c.Amount),
			pkm.FormatMoney(c.BuyPrice, pkm.PricingCurrency(c.Type)),
			pkm.FormatMoney(c.SellPrice, pkm.PricingCurrency(c.Type)),
			c.ProfitLoss.SignedString(),
			c.SellDate.String(),
			c.Notes,
		})
	}
	doc.Table(table)

	return doc.String()
}

func DebtsMarkdown(list []pkm.Debt, total float64) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Debts")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"ID", "Description", "Amount"},
		Rows:      [][]string{},
	}
	for _, d := range list {
		table.Rows = append(table.Rows, []string{
			pkm.FormatID(d.ID),
			d.Description,
			pkm.FormatSettlement(d.Amount),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Total debt: %s", pkm.FormatSettlement(total)))

	return doc.String()
}
