package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/yfparity/internal/snapshot"
)

// quoteResponse mirrors the v7/finance/quote envelope.
type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  interface{}   `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string          `json:"symbol"`
	LongName                   string          `json:"longName"`
	ShortName                  string          `json:"shortName"`
	Currency                   string          `json:"currency"`
	FullExchangeName           string          `json:"fullExchangeName"`
	Exchange                   string          `json:"exchange"`
	QuoteType                  string          `json:"quoteType"`
	RegularMarketPrice         snapshot.Number `json:"regularMarketPrice"`
	RegularMarketChange        snapshot.Number `json:"regularMarketChange"`
	RegularMarketChangePercent snapshot.Number `json:"regularMarketChangePercent"`
	RegularMarketVolume        snapshot.Number `json:"regularMarketVolume"`
	MarketCap                  snapshot.Number `json:"marketCap"`
	TrailingPE                 snapshot.Number `json:"trailingPE"`
	ForwardPE                  snapshot.Number `json:"forwardPE"`
}

// Quote fetches the current quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*snapshot.Quote, error) {
	params := url.Values{}
	params.Set("symbols", symbol)
	fullURL := fmt.Sprintf("%s?%s", c.quoteURL, params.Encode())

	body, err := c.fetchBody(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote result for %s", symbol)
	}

	r := resp.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	exchange := r.FullExchangeName
	if exchange == "" {
		exchange = r.Exchange
	}

	return &snapshot.Quote{
		Symbol:        r.Symbol,
		Name:          name,
		Currency:      r.Currency,
		Exchange:      exchange,
		QuoteType:     r.QuoteType,
		Price:         r.RegularMarketPrice,
		Change:        r.RegularMarketChange,
		ChangePercent: r.RegularMarketChangePercent,
		Volume:        r.RegularMarketVolume,
		MarketCap:     r.MarketCap,
		TrailingPE:    r.TrailingPE,
		ForwardPE:     r.ForwardPE,
	}, nil
}
