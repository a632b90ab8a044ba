package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartBody(price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"regularMarketPrice":%v}}],"error":null}}`, price)
}

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/THYAO.IS" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("request without User-Agent")
		}
		fmt.Fprint(w, chartBody(312.5))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	price, err := c.Quote(context.Background(), "THYAO.IS")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if price != 312.5 {
		t.Errorf("price = %v, want 312.5", price)
	}
}

func TestQuoteNoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty result", `{"chart":{"result":[],"error":null}}`},
		{"missing meta", `{"chart":{"result":[{}],"error":null}}`},
		{"zero price", chartBody(0)},
		{"negative price", chartBody(-3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second)
			_, err := c.Quote(context.Background(), "GONE")
			if !errors.Is(err, ErrNoData) {
				t.Errorf("Quote = %v, want ErrNoData", err)
			}
		})
	}
}

func TestQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Quote(context.Background(), "THYAO.IS"); err == nil {
		t.Error("Quote on HTTP 429 succeeded")
	}
}

func TestQuoteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, chartBody(1))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	if _, err := c.Quote(context.Background(), "SLOW"); err == nil {
		t.Error("Quote did not time out")
	}
}
