package pkm

import "fmt"

// AssetType is the category of a holding. It governs the price-fetch symbol
// convention and the currency-conversion rule.
type AssetType string

const (
	AssetEquity    AssetType = "equity"
	AssetCrypto    AssetType = "crypto"
	AssetCommodity AssetType = "commodity"
	AssetCash      AssetType = "cash"
	AssetFund      AssetType = "fund"
)

// AssetTypes lists all asset classes in display order.
var AssetTypes = []AssetType{AssetEquity, AssetCrypto, AssetFund, AssetCash, AssetCommodity}

// categoryLabels is the fixed display-name mapping used for distribution
// reporting.
var categoryLabels = map[AssetType]string{
	AssetEquity:    "Hisse Senetleri",
	AssetCrypto:    "Kripto Paralar",
	AssetFund:      "Hisse Fonları",
	AssetCash:      "Nakit ve Benzeri",
	AssetCommodity: "Emtia",
}

// Label returns the display name of the category, or the raw type for an
// unknown one.
func (t AssetType) Label() string {
	if l, ok := categoryLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseAssetType parses an asset_type cell.
func ParseAssetType(s string) (AssetType, error) {
	switch AssetType(s) {
	case AssetEquity, AssetCrypto, AssetCommodity, AssetCash, AssetFund:
		return AssetType(s), nil
	default:
		return "", fmt.Errorf("unknown asset type: %q", s)
	}
}

// PriceSource selects where an asset's current price comes from.
type PriceSource string

const (
	// SourceAutomatic resolves the price from the market data provider.
	SourceAutomatic PriceSource = "auto"
	// SourceManual uses the asset's stored manual price, bypassing the
	// resolver entirely.
	SourceManual PriceSource = "manual"
)

// ParsePriceSource parses a price_source cell; anything that is not
// explicitly "manual" resolves automatically.
func ParsePriceSource(s string) PriceSource {
	if PriceSource(s) == SourceManual {
		return SourceManual
	}
	return SourceAutomatic
}

// Asset is an open long-term holding.
type Asset struct {
	ID          int
	Type        AssetType
	Symbol      string
	Amount      float64
	BuyPrice    float64 // in the asset's native pricing currency
	Source      PriceSource
	ManualPrice float64 // used only when Source == SourceManual
	Basket      string  // optional categorical tag
	CreatedAt   string
}

// validate checks the invariants of a persisted asset.
func (a Asset) validate() error {
	if a.Symbol == "" {
		return invalidf("asset symbol must not be empty")
	}
	if _, err := ParseAssetType(string(a.Type)); err != nil {
		return invalidf("%v", err)
	}
	if a.Amount <= 0 {
		return invalidf("asset amount must be > 0, got %v", a.Amount)
	}
	if a.BuyPrice <= 0 {
		return invalidf("asset buy price must be > 0, got %v", a.BuyPrice)
	}
	return nil
}

var assetHeader = []string{"ID", "asset_type", "symbol", "amount", "buy_price", "price_source", "manual_price", "basket", "created_at"}

func assetFromRow(row []string) Asset {
	t, _ := ParseAssetType(cell(row, 1))
	return Asset{
		ID:          ParseID(cell(row, 0)),
		Type:        t,
		Symbol:      cell(row, 2),
		Amount:      ParseDecimal(cell(row, 3)),
		BuyPrice:    ParseDecimal(cell(row, 4)),
		Source:      ParsePriceSource(cell(row, 5)),
		ManualPrice: ParseDecimal(cell(row, 6)),
		Basket:      cell(row, 7),
		CreatedAt:   cell(row, 8),
	}
}

func (a Asset) row() []string {
	return []string{
		FormatID(a.ID),
		string(a.Type),
		a.Symbol,
		FormatDecimal(a.Amount),
		FormatDecimal(a.BuyPrice),
		string(a.Source),
		FormatDecimal(a.ManualPrice),
		a.Basket,
		a.CreatedAt,
	}
}

// ClosedPosition is the immutable record a holding leaves behind when its
// position is closed. Edits recompute ProfitLoss from the stored prices.
type ClosedPosition struct {
	ID         int
	Symbol     string
	Type       AssetType
	Amount     float64
	BuyPrice   float64
	SellPrice  float64
	ProfitLoss Percent
	BuyDate    Date
	SellDate   Date
	Notes      string
	CreatedAt  string
}

var closedHeader = []string{"ID", "symbol", "asset_type", "amount", "buy_price", "sell_price", "profit_loss_percent", "buy_date", "sell_date", "notes", "created_at"}

func closedFromRow(row []string) ClosedPosition {
	t, _ := ParseAssetType(cell(row, 2))
	buyDate, _ := ParseDate(cell(row, 7))
	sellDate, _ := ParseDate(cell(row, 8))
	return ClosedPosition{
		ID:         ParseID(cell(row, 0)),
		Symbol:     cell(row, 1),
		Type:       t,
		Amount:     ParseDecimal(cell(row, 3)),
		BuyPrice:   ParseDecimal(cell(row, 4)),
		SellPrice:  ParseDecimal(cell(row, 5)),
		ProfitLoss: Percent(ParseDecimal(cell(row, 6))),
		BuyDate:    buyDate,
		SellDate:   sellDate,
		Notes:      cell(row, 9),
		CreatedAt:  cell(row, 10),
	}
}

func (c ClosedPosition) row() []string {
	return []string{
		FormatID(c.ID),
		c.Symbol,
		string(c.Type),
		FormatDecimal(c.Amount),
		FormatDecimal(c.BuyPrice),
		FormatDecimal(c.SellPrice),
		FormatDecimal(float64(c.ProfitLoss)),
		c.BuyDate.String(),
		c.SellDate.String(),
		c.Notes,
		c.CreatedAt,
	}
}

// Debt is a simple ledger entry with no state machine.
type Debt struct {
	ID          int
	Description string
	Amount      float64
	CreatedAt   string
}

var debtHeader = []string{"ID", "description", "amount", "created_at"}

func debtFromRow(row []string) Debt {
	return Debt{
		ID:          ParseID(cell(row, 0)),
		Description: cell(row, 1),
		Amount:      ParseDecimal(cell(row, 2)),
		CreatedAt:   cell(row, 3),
	}
}

func (d Debt) row() []string {
	return []string{FormatID(d.ID), d.Description, FormatDecimal(d.Amount), d.CreatedAt}
}
