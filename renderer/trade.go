package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/ekurt/pkm"
)

func TradesMarkdown(list []pkm.Trade, stats pkm.JournalStats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Trade Journal")
	if stats.Closed > 0 {
		doc.PlainText(fmt.Sprintf("%d closed, %d wins / %d losses (win rate %s), net P&L %s.",
			stats.Closed, stats.Wins, stats.Losses, stats.WinRate, pkm.FormatSettlement(stats.NetPnL)))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight,
		},
		Header: []string{"ID", "Symbol", "Dir", "Lot", "Entry", "Exit", "Status", "P&L"},
		Rows:   [][]string{},
	}
	for _, t := range list {
		exit, pnl := "-", "-"
		if t.Status == pkm.TradeClosed {
			exit = pkm.FormatDecimal(t.ExitPrice)
			pnl = pkm.FormatSettlement(t.PnL)
		}
		table.Rows = append(table.Rows, []string{
			pkm.FormatID(t.ID),
			t.Symbol,
			string(t.Direction),
			pkm.FormatDecimal(t.Lot),
			pkm.FormatDecimal(t.EntryPrice),
			exit,
			string(t.Status),
			pnl,
		})
	}
	doc.Table(table)

	return doc.String()
}

func TradeMarkdown(t pkm.Trade) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Trade %d: %s %s", t.ID, t.Direction, t.Symbol))
	doc.BulletList(
		fmt.Sprintf("Lot: %s", pkm.FormatDecimal(t.Lot)),
		fmt.Sprintf("Entry: %s", pkm.FormatDecimal(t.EntryPrice)),
		fmt.Sprintf("Stop loss: %s", pkm.FormatDecimal(t.StopLoss)),
		fmt.Sprintf("Take profit: %s", pkm.FormatDecimal(t.TakeProfit)),
		fmt.Sprintf("Status: %s", t.Status),
	)
	doc.H2("Plan")
	doc.PlainText(t.Plan)
	if t.Status == pkm.TradeClosed {
		doc.H2("Outcome")
		doc.BulletList(
			fmt.Sprintf("Exit: %s", pkm.FormatDecimal(t.ExitPrice)),
			fmt.Sprintf("P&L: %s", pkm.FormatSettlement(t.PnL)),
		)
		if t.Review != "" {
			doc.PlainText(t.Review)
		}
	}

	return doc.String()
}
