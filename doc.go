// Package pkm implements the valuation and position-lifecycle engine of a
// personal capital tracker: a multi-asset portfolio (equities, crypto,
// commodities, funds, cash equivalents) with live price resolution,
// settlement-currency aggregation, an open→closed position lifecycle, a
// short-term trade journal, append-only wealth snapshots, and a savings-goal
// tracker.
//
// The core functionalities include:
//   - Position Ledger: long-term holdings with add/edit/delete and a one-way
//     close transition that realizes P&L into an immutable record.
//   - Trade Journal: short-term directional (LONG/SHORT) trades with an
//     enforced plan note on open and a realized-P&L formula on close.
//   - Valuation: per-asset and aggregate value in the settlement currency,
//     degrading to stored buy prices when the market data provider is
//     unavailable rather than failing the whole pass.
//   - Snapshot History: at most one aggregate wealth/debt measurement per
//     calendar day, used for trend reports and goal tracking.
//
// All entities live in a tabular store (one named table per entity, fixed
// header row, rows addressed by position) so the engine can sit on top of a
// plain directory of CSV files. Cells are strings; every monetary or
// quantity cell goes through ParseDecimal, which tolerates decimal-comma
// input and currency suffixes.
//
// This package serves as the foundational logic for the `pkm` command-line
// tool.
package pkm
