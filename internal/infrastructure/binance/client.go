package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"chartsnap-backend/internal/domain"
)

const SpotBaseURL = "https://api.binance.com"

// Client resolves raw tickers to their preferred USDT pair using the spot
// exchangeInfo listing. The set of trading symbols is fetched once and
// cached for the client's lifetime; a fetch job resolves a few hundred
// symbols back to back and one snapshot is enough.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu      sync.Mutex
	trading map[string]struct{}
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = SpotBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

type exchangeInfo struct {
	Symbols []symbolInfo `json:"symbols"`
}

type symbolInfo struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

// ResolvePreferredPair maps a ticker to {TICKER}USDT when that pair is
// actively trading on Binance spot. ok=false means no tradable pair exists;
// that is not an error.
func (c *Client) ResolvePreferredPair(ctx context.Context, symbol string) (domain.CanonicalPair, bool, error) {
	trading, err := c.tradingSymbols(ctx)
	if err != nil {
		return "", false, err
	}

	candidate := strings.ToUpper(strings.TrimSpace(symbol))
	if candidate == "" {
		return "", false, nil
	}
	if !domain.IsCanonicalPairSymbol(candidate) {
		candidate += domain.QuoteAsset
	}

	if _, ok := trading[candidate]; !ok {
		return "", false, nil
	}
	return domain.CanonicalPair(candidate), true, nil
}

func (c *Client) tradingSymbols(ctx context.Context) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trading != nil {
		return c.trading, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var info exchangeInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	trading := make(map[string]struct{}, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status == "TRADING" {
			trading[s.Symbol] = struct{}{}
		}
	}
	c.trading = trading
	return trading, nil
}

var _ domain.PairResolver = (*Client)(nil)
