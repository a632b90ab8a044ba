package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ekurt/pkm/renderer"
)

// publishCmd writes every report as a static HTML page.
type publishCmd struct {
	outputDir string
}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "export all reports as HTML pages" }
func (*publishCmd) Usage() string {
	return `pkm publish [-o <dir>]

  Renders the summary, holdings, closed positions, trade journal, debt and
  history reports to HTML files in a directory.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "reports", "Output directory for the generated pages")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		return subcommands.ExitFailure
	}
	app, err := openApp()
	if err != nil {
		return fail(err)
	}

	s, err := app.valuer.Summary(ctx)
	if err != nil {
		return fail(err)
	}
	closed, err := app.ledger.Closed()
	if err != nil {
		return fail(err)
	}
	closedStats, err := app.ledger.Stats()
	if err != nil {
		return fail(err)
	}
	trades, err := app.journal.Trades()
	if err != nil {
		return fail(err)
	}
	tradeStats, err := app.journal.Stats()
	if err != nil {
		return fail(err)
	}
	debts, err := app.ledger.Debts()
	if err != nil {
		return fail(err)
	}
	assetSeries, err := app.assetLog.Series()
	if err != nil {
		return fail(err)
	}
	debtSeries, err := app.debtLog.Series()
	if err != nil {
		return fail(err)
	}

	pages := map[string]string{
		"summary.html":       renderer.SummaryMarkdown(s),
		"holdings.html":      renderer.HoldingsMarkdown(s),
		"closed.html":        renderer.ClosedMarkdown(closed, closedStats),
		"trades.html":        renderer.TradesMarkdown(trades, tradeStats),
		"debts.html":         renderer.DebtsMarkdown(debts, s.TotalDebt),
		"asset-history.html": renderer.HistoryMarkdown("Asset History", assetSeries),
		"debt-history.html":  renderer.HistoryMarkdown("Debt History", debtSeries),
	}

	// GFM tables: every report body is one.
	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))
	for name, md := range pages {
		var buf bytes.Buffer
		if err := engine.Convert([]byte(md), &buf); err != nil {
			fmt.Fprintf(os.Stderr, "failed to render %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		path := filepath.Join(c.outputDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Published %d reports to %s\n", len(pages), c.outputDir)
	return subcommands.ExitSuccess
}
