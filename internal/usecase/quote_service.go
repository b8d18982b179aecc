package usecase

import (
	"context"
	"errors"
	"fmt"

	"propdesk_server/internal/domain"
)

var ErrNoQuotes = errors.New("no quotes fetched")

// QuoteService pulls prices from the configured feed and keeps the latest
// quote per symbol in the repository.
type QuoteService struct {
	feed domain.QuoteFeed
	repo domain.QuoteRepository
}

func NewQuoteService(feed domain.QuoteFeed, repo domain.QuoteRepository) (*QuoteService, error) {
	if feed == nil {
		return nil, fmt.Errorf("feed is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	return &QuoteService{feed: feed, repo: repo}, nil
}

// Sync fetches a fresh snapshot and upserts it, keeping the newest quote when
// the feed repeats a symbol. Returns the number of symbols written.
func (s *QuoteService) Sync(ctx context.Context) (int, error) {
	quotes, err := s.feed.FetchQuotes(ctx)
	if err != nil {
		return 0, err
	}
	if len(quotes) == 0 {
		return 0, ErrNoQuotes
	}

	latest := make(map[string]domain.Quote, len(quotes))
	for _, q := range quotes {
		if existing, ok := latest[q.Symbol]; ok && existing.Time.After(q.Time) {
			continue
		}
		latest[q.Symbol] = q
	}

	collated := make([]domain.Quote, 0, len(latest))
	for _, q := range latest {
		collated = append(collated, q)
	}

	if err := s.repo.UpsertQuotes(ctx, collated); err != nil {
		return 0, err
	}
	return len(collated), nil
}

func (s *QuoteService) List(ctx context.Context, limit int) ([]domain.Quote, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListQuotes(ctx, limit)
}

func (s *QuoteService) Get(ctx context.Context, symbol string) (domain.Quote, error) {
	return s.repo.GetQuote(ctx, symbol)
}
