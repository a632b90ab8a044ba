// Package yahoo implements a market data quoter over the Yahoo Finance v8
// chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultTimeout bounds one quote request end to end.
const DefaultTimeout = 5 * time.Second

// ErrNoData reports that the provider answered but carried no usable quote
// for the symbol.
var ErrNoData = errors.New("yahoo: no quote data")

// pricePath extracts the last regular market price from a chart payload.
const pricePath = "$.chart.result[0].meta.regularMarketPrice"

// Client fetches quotes from Yahoo Finance. The zero value is not usable;
// use NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client against baseURL (DefaultBaseURL when empty)
// with the given request timeout (DefaultTimeout when non-positive).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Quote returns the latest regular market price for a provider symbol
// (already suffixed per the provider's conventions, e.g. "THYAO.IS",
// "BTC-USD", "USDTRY=X").
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	// Yahoo rejects requests without a browser-ish agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; pkm/1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo: quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo: quote %s: unexpected status %s", symbol, resp.Status)
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("yahoo: quote %s: %w", symbol, err)
	}
	raw, err := jsonpath.Get(pricePath, payload)
	if err != nil {
		return 0, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	price, ok := raw.(float64)
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	return price, nil
}
