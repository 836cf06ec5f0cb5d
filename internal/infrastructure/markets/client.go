// Package markets lists top cryptocurrency symbols by market cap from the
// public CoinGecko and CoinMarketCap APIs.
package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"chartsnap-backend/internal/domain"
)

const (
	CoinGeckoBaseURL     = "https://api.coingecko.com"
	CoinMarketCapBaseURL = "https://pro-api.coinmarketcap.com"
)

// Client implements the symbol source port. Which upstream answers a listing
// is decided entirely here, by the query's Source selector.
type Client struct {
	httpClient *http.Client
	cgBaseURL  string
	cmcBaseURL string
	cmcAPIKey  string
}

func NewClient(cgBaseURL, cmcBaseURL, cmcAPIKey string) *Client {
	if cgBaseURL == "" {
		cgBaseURL = CoinGeckoBaseURL
	}
	if cmcBaseURL == "" {
		cmcBaseURL = CoinMarketCapBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		cgBaseURL:  cgBaseURL,
		cmcBaseURL: cmcBaseURL,
		cmcAPIKey:  cmcAPIKey,
	}
}

// ListTopSymbols returns up to q.Limit ticker symbols, uppercased, ordered by
// market cap. For SourceBoth, CoinGecko's listing comes first and
// CoinMarketCap fills in symbols CoinGecko did not mention.
func (c *Client) ListTopSymbols(ctx context.Context, q domain.ListQuery) ([]string, error) {
	switch q.Source {
	case domain.SourceCoinGecko:
		return c.listCoinGecko(ctx, q.Limit)
	case domain.SourceCMC:
		return c.listCoinMarketCap(ctx, q.Limit)
	case domain.SourceBoth:
		cg, err := c.listCoinGecko(ctx, q.Limit)
		if err != nil {
			return nil, err
		}
		cmc, err := c.listCoinMarketCap(ctx, q.Limit)
		if err != nil {
			return nil, err
		}
		return mergeListings(cg, cmc, q.Limit), nil
	default:
		return nil, fmt.Errorf("unknown symbol source: %q", q.Source)
	}
}

type cgMarket struct {
	Symbol string `json:"symbol"`
}

func (c *Client) listCoinGecko(ctx context.Context, limit int) ([]string, error) {
	url := fmt.Sprintf("%s/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1", c.cgBaseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko API error: %d", resp.StatusCode)
	}

	var markets []cgMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(markets))
	for _, m := range markets {
		symbols = append(symbols, strings.ToUpper(m.Symbol))
	}
	return symbols, nil
}

type cmcListing struct {
	Data []struct {
		Symbol string `json:"symbol"`
	} `json:"data"`
}

func (c *Client) listCoinMarketCap(ctx context.Context, limit int) ([]string, error) {
	url := fmt.Sprintf("%s/v1/cryptocurrency/listings/latest?limit=%d&sort=market_cap", c.cmcBaseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.cmcAPIKey != "" {
		req.Header.Set("X-CMC_PRO_API_KEY", c.cmcAPIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinmarketcap API error: %d", resp.StatusCode)
	}

	var listing cmcListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(listing.Data))
	for _, d := range listing.Data {
		symbols = append(symbols, strings.ToUpper(d.Symbol))
	}
	return symbols, nil
}

// mergeListings keeps primary's order, appends secondary symbols primary did
// not mention, and truncates to limit. Deduplication here is across sources
// only; within one listing the upstream already returns unique symbols.
func mergeListings(primary, secondary []string, limit int) []string {
	seen := make(map[string]struct{}, len(primary))
	merged := make([]string, 0, limit)
	for _, s := range primary {
		if len(merged) == limit {
			return merged
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	for _, s := range secondary {
		if len(merged) == limit {
			return merged
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	return merged
}

var _ domain.SymbolSource = (*Client)(nil)
