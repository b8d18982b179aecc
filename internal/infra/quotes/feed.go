// Package quotes provides the QuoteFeed implementations: an HTTP client for a
// real quote endpoint and a seeded random-walk simulator for everything else.
package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"propdesk_server/internal/domain"
)

type HTTPFeed struct {
	client  *resty.Client
	baseURL string
}

type rawQuote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Time   string  `json:"time"`
}

func NewHTTPFeed(baseURL string, opts ...func(*resty.Client)) (*HTTPFeed, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	client := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	for _, opt := range opts {
		opt(client)
	}

	return &HTTPFeed{
		client:  client,
		baseURL: baseURL,
	}, nil
}

func (f *HTTPFeed) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	var payload []rawQuote

	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("feed responded with status %d", resp.StatusCode())
	}

	quotes := make([]domain.Quote, 0, len(payload))
	for _, item := range payload {
		symbol := strings.ToUpper(strings.TrimSpace(item.Symbol))
		if symbol == "" || item.Bid <= 0 || item.Ask <= 0 {
			// Skip malformed records while allowing the rest to be processed.
			continue
		}

		ts, err := time.Parse(time.RFC3339, item.Time)
		if err != nil {
			ts = time.Now().UTC()
		}

		quotes = append(quotes, domain.Quote{
			Symbol: symbol,
			Bid:    item.Bid,
			Ask:    item.Ask,
			Time:   ts.UTC(),
		})
	}

	return quotes, nil
}
