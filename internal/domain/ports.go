package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by every repository implementation so callers can
// branch on them without knowing the storage backend.
var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrQuoteNotFound   = errors.New("quote not found")
)

// QuoteFeed provides an abstraction to fetch prices from external or simulated
// sources. Price simulation lives behind this port, never inside the engine.
type QuoteFeed interface {
	FetchQuotes(ctx context.Context) ([]Quote, error)
}

// QuoteRepository persists the latest quote per symbol.
type QuoteRepository interface {
	UpsertQuotes(ctx context.Context, quotes []Quote) error
	ListQuotes(ctx context.Context, limit int) ([]Quote, error)
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

type TradeRepository interface {
	InsertTrade(ctx context.Context, trade Trade) (int64, error)
	GetTrade(ctx context.Context, accountID string, ticket int64) (Trade, error)
	CloseTrade(ctx context.Context, accountID string, ticket int64, exitPrice, profit float64, status TradeStatus, exitTime time.Time) error
	ListTrades(ctx context.Context, accountID string, limit int) ([]Trade, error)
	ListOpenTrades(ctx context.Context, accountID string) ([]Trade, error)
	ListClosedTrades(ctx context.Context, accountID string, limit int) ([]Trade, error)
}

type AccountRepository interface {
	UpsertAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, accountID string) (Account, error)
	ListAccounts(ctx context.Context, limit int) ([]Account, error)
}
