// Package renderer produces the markdown reports of the engine. Each
// function renders one report into a markdown string; the caller decides how
// to display it.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/ekurt/pkm"
)

func SummaryMarkdown(s *pkm.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", pkm.Today()))
	doc.PlainText(fmt.Sprintf("Total Value: %s", pkm.FormatSettlement(s.TotalValue)))
	doc.PlainText(fmt.Sprintf("Net Worth: %s (debt %s)", pkm.FormatSettlement(s.NetWorth), pkm.FormatSettlement(s.TotalDebt)))
	doc.PlainText(fmt.Sprintf("Unrealized P&L: %s (%s)", pkm.FormatSettlement(s.PnL), s.PnLPercent.SignedString()))

	fxLine := fmt.Sprintf("USD/TRY: %.4f", s.USDTRY)
	if s.FXDegraded != pkm.Live {
		fxLine += fmt.Sprintf(" (%s)", s.FXDegraded)
	}
	doc.PlainText(fxLine)
	if s.DegradedCount > 0 {
		doc.PlainText(fmt.Sprintf("%d holding(s) valued at buy price: no live quote.", s.DegradedCount))
	}

	doc.H2("Distribution")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Category", "Value", "Share"},
		Rows:      [][]string{},
	}
	for _, c := range s.Categories {
		table.Rows = append(table.Rows, []string{
			c.Label,
			pkm.FormatSettlement(c.Value),
			c.Share.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

func HoldingsMarkdown(s *pkm.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"ID", "Symbol", "Category", "Amount", "Price", "Value", "P&L", "P&L %"},
		Rows:   [][]string{},
	}
	for _, h := range s.Holdings {
		symbol := h.Symbol
		if h.Degraded != pkm.Live {
			symbol += " *"
		}
		table.Rows = append(table.Rows, []string{
			pkm.FormatID(h.ID),
			symbol,
			h.Type.Label(),
			pkm.FormatDecimal(h.Amount),
			pkm.FormatMoney(h.CurrentPrice, pkm.PricingCurrency(h.Type)),
			pkm.FormatSettlement(h.Value),
			pkm.FormatSettlement(h.PnL),
			h.PnLPercent.SignedString(),
		})
	}
	doc.Table(table)
	if s.DegradedCount > 0 {
		doc.PlainText("* valued at buy price: no live quote.")
	}

	return doc.String()
}
