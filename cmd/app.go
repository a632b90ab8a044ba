// Package cmd implements the CLI application to manage the portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ekurt/pkm"
	"github.com/ekurt/pkm/yahoo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&assetAddCmd{}, "assets")
	c.Register(&assetListCmd{}, "assets")
	c.Register(&assetEditCmd{}, "assets")
	c.Register(&assetDeleteCmd{}, "assets")
	c.Register(&assetCloseCmd{}, "assets")

	c.Register(&closedListCmd{}, "closed positions")
	c.Register(&closedAddCmd{}, "closed positions")
	c.Register(&closedEditCmd{}, "closed positions")
	c.Register(&closedDeleteCmd{}, "closed positions")

	c.Register(&debtListCmd{}, "debts")
	c.Register(&debtAddCmd{}, "debts")
	c.Register(&debtEditCmd{}, "debts")
	c.Register(&debtDeleteCmd{}, "debts")

	c.Register(&tradeOpenCmd{}, "journal")
	c.Register(&tradeListCmd{}, "journal")
	c.Register(&tradeShowCmd{}, "journal")
	c.Register(&tradeUpdateCmd{}, "journal")
	c.Register(&tradeCloseCmd{}, "journal")
	c.Register(&tradeAmendCmd{}, "journal")
	c.Register(&tradeDeleteCmd{}, "journal")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&snapshotCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&publishCmd{}, "reports")

	c.Register(&topicCmd{}, "help")

	c.Register(&goalInitCmd{}, "challenge")
	c.Register(&goalStatusCmd{}, "challenge")
	c.Register(&goalRecordCmd{}, "challenge")
	c.Register(&goalResetCmd{}, "challenge")
}

// Names lists every registered subcommand, for shell completion.
func Names() []string {
	return []string{
		"add", "list", "edit", "delete", "close",
		"closed", "closed-add", "closed-edit", "closed-delete",
		"debts", "debt-add", "debt-edit", "debt-delete",
		"trade-open", "trades", "trade-show", "trade-update",
		"trade-close", "trade-amend", "trade-delete",
		"summary", "holdings", "snapshot", "history", "publish",
		"topic",
		"goal-init", "goal", "goal-record", "goal-reset",
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the YAML configuration file")
var dataDir = flag.String("data-dir", "", "Directory holding the portfolio tables (overrides the configuration)")

// app bundles the wired engine the subcommands work against.
type app struct {
	cfg      pkm.Config
	ledger   *pkm.Ledger
	journal  *pkm.Journal
	valuer   *pkm.Valuer
	tracker  *pkm.Tracker
	assetLog *pkm.History
	debtLog  *pkm.History
}

// openApp loads the configuration and opens every table of the store.
func openApp() (*app, error) {
	cfg, err := pkm.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	store, err := pkm.NewCSVStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	ledger, err := pkm.NewLedger(store)
	if err != nil {
		return nil, err
	}
	journal, err := pkm.NewJournal(store)
	if err != nil {
		return nil, err
	}
	tracker, err := pkm.NewTracker(store)
	if err != nil {
		return nil, err
	}
	assetLog, err := pkm.NewHistory(store, "asset_history")
	if err != nil {
		return nil, err
	}
	debtLog, err := pkm.NewHistory(store, "debt_history")
	if err != nil {
		return nil, err
	}

	quoter := yahoo.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout.Std())
	resolver := pkm.NewResolver(quoter, pkm.NewTTLCache(cfg.Pricing.TTL.Std()))
	resolver.SetFXBounds(cfg.Pricing.FXBandLow, cfg.Pricing.FXBandHigh, cfg.Pricing.FXFallback)

	return &app{
		cfg:      cfg,
		ledger:   ledger,
		journal:  journal,
		valuer:   pkm.NewValuer(ledger, resolver),
		tracker:  tracker,
		assetLog: assetLog,
		debtLog:  debtLog,
	}, nil
}

// fail prints an error the way every subcommand does and picks the exit
// status: a rejected duplicate snapshot is a warning, not a failure;
// validation problems map to usage errors; everything else is a plain
// failure.
func fail(err error) subcommands.ExitStatus {
	var dup pkm.DuplicateSnapshotError
	if errors.As(err, &dup) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var verr pkm.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
