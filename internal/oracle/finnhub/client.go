package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// Client fetches quotes from a finnhub-compatible quote endpoint
// (GET {base}/quote?symbol=S&token=K). It is stateless, performs no
// caching and no retries, and fails fast on a bounded timeout so callers
// never block on a slow upstream.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// quoteResponse mirrors finnhub's quote payload. C is the current price;
// T is the quote's unix timestamp. An unknown symbol comes back as all
// zeroes rather than an HTTP error.
type quoteResponse struct {
	Current   float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

// GetPrice returns the current quote for symbol. Upstream errors,
// timeouts and malformed payloads surface as models.ErrPriceUnavailable;
// a zero-valued payload is finnhub's "no such symbol" signal and surfaces
// as models.ErrUnknownSymbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.Quote{}, models.ErrUnknownSymbol
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("%w: upstream returned status %d", models.ErrPriceUnavailable, resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}

	if quote.Current == 0 && quote.Timestamp == 0 {
		return models.Quote{}, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
	}
	if quote.Current <= 0 {
		return models.Quote{}, fmt.Errorf("%w: non-positive price for %s", models.ErrPriceUnavailable, symbol)
	}

	return models.Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(quote.Current),
		AsOf:   time.Unix(quote.Timestamp, 0).UTC(),
	}, nil
}

var _ interfaces.PriceOracle = (*Client)(nil)
