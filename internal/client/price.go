// Package client holds outbound HTTP clients that are not chain RPC.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sentinelwallet/sentinel/internal/model"
)

const coingeckoAPI = "https://api.coingecko.com/api/v3"

// coinIDs maps network names to CoinGecko coin ids for the native coin.
// Rollups price in the L1 gas token.
var coinIDs = map[string]string{
	"ethereum": "ethereum",
	"polygon":  "matic-network",
	"bsc":      "binancecoin",
	"arbitrum": "ethereum",
	"optimism": "ethereum",
	"bitcoin":  "bitcoin",
	"solana":   "solana",
	"tron":     "tron",
	"ton":      "the-open-network",
	"xrp":      "ripple",
}

// PriceFeed fetches native-coin spot prices from CoinGecko.
type PriceFeed struct {
	baseURL string
	client  *http.Client
}

// NewPriceFeed creates a new PriceFeed.
func NewPriceFeed() *PriceFeed {
	return &PriceFeed{
		baseURL: coingeckoAPI,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// USDPrice gets the USD spot price of a network's native coin, formatted
// with two decimal places.
func (p *PriceFeed) USDPrice(ctx context.Context, network string) (string, error) {
	id, ok := coinIDs[network]
	if !ok {
		return "", model.NewValidationError("network", fmt.Sprintf("no price source for network %q", network))
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", p.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &model.NetworkError{Endpoint: p.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.NetworkError{Endpoint: p.baseURL, Err: fmt.Errorf("price source status %d", resp.StatusCode)}
	}

	var body map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode price: %w", err)
	}
	quote, ok := body[id]
	if !ok {
		return "", &model.NetworkError{Endpoint: p.baseURL, Err: fmt.Errorf("price source returned no quote for %q", id)}
	}

	return strconv.FormatFloat(quote.USD, 'f', 2, 64), nil
}
