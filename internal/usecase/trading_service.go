package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"propdesk_server/internal/domain"
	"propdesk_server/internal/engine"
)

var (
	// ErrTradeNotFound re-exports the repository sentinel so transports only
	// depend on this package.
	ErrTradeNotFound      = domain.ErrTradeNotFound
	ErrTradeAlreadyClosed = errors.New("trade already closed")
	ErrNoQuoteForSymbol   = errors.New("no quote available for symbol")
)

// ValidationError carries the full list of order-rule violations so transports
// can show every problem at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "order validation failed: " + strings.Join(e.Violations, "; ")
}

type TradingService struct {
	tradeRepo   domain.TradeRepository
	accountRepo domain.AccountRepository
	quoteRepo   domain.QuoteRepository
	engine      *engine.Engine
	baseline    float64
}

func NewTradingService(tradeRepo domain.TradeRepository, accountRepo domain.AccountRepository, quoteRepo domain.QuoteRepository, eng *engine.Engine, baselineEquity float64) (*TradingService, error) {
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if eng == nil {
		return nil, errors.New("engine required")
	}
	if baselineEquity <= 0 {
		baselineEquity = DefaultBaselineEquity
	}
	return &TradingService{
		tradeRepo:   tradeRepo,
		accountRepo: accountRepo,
		quoteRepo:   quoteRepo,
		engine:      eng,
		baseline:    baselineEquity,
	}, nil
}

// OrderRequest is a proposed order for an account. Price zero means a market
// order filled from the latest stored quote.
type OrderRequest struct {
	AccountID  string
	Symbol     string
	Direction  domain.Direction
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Comment    string
	RawPayload []byte
}

// OpenTrade validates the order against the engine's rules and records the
// resulting open position. Invalid orders return a ValidationError carrying
// every violation.
func (s *TradingService) OpenTrade(ctx context.Context, req OrderRequest) (domain.Trade, error) {
	if req.AccountID == "" {
		return domain.Trade{}, errors.New("account id required")
	}
	if req.Symbol == "" {
		return domain.Trade{}, errors.New("symbol required")
	}

	entryPrice := req.Price
	if entryPrice == 0 {
		quote, err := s.latestQuote(ctx, req.Symbol)
		if err != nil {
			return domain.Trade{}, err
		}
		entryPrice = quote.PriceFor(req.Direction)
	}

	validation := s.engine.ValidateOrder(engine.OrderTicket{
		Symbol:     req.Symbol,
		Direction:  req.Direction,
		Volume:     req.Volume,
		EntryPrice: entryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	})
	if !validation.Valid {
		return domain.Trade{}, &ValidationError{Violations: validation.Errors}
	}

	trade := domain.Trade{
		AccountID:     req.AccountID,
		ClientOrderID: uuid.NewString(),
		Symbol:        strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Direction:     req.Direction,
		Volume:        req.Volume,
		EntryPrice:    entryPrice,
		StopLoss:      req.StopLoss,
		TakeProfit:    req.TakeProfit,
		Status:        domain.TradeStatusOpen,
		EntryTime:     time.Now().UTC(),
		Comment:       req.Comment,
		RawPayload:    req.RawPayload,
	}

	if err := s.ensureAccount(ctx, req.AccountID, trade.EntryTime); err != nil {
		return domain.Trade{}, err
	}

	ticket, err := s.tradeRepo.InsertTrade(ctx, trade)
	if err != nil {
		return domain.Trade{}, err
	}
	trade.Ticket = ticket
	return trade, nil
}

// CloseTrade realizes a position at the given price (or the latest quote when
// zero) and derives its win/loss status from the sign of the realized profit.
func (s *TradingService) CloseTrade(ctx context.Context, accountID string, ticket int64, exitPrice float64) (domain.Trade, error) {
	trade, err := s.tradeRepo.GetTrade(ctx, accountID, ticket)
	if err != nil {
		return domain.Trade{}, err
	}
	if trade.Closed() {
		return domain.Trade{}, ErrTradeAlreadyClosed
	}

	if exitPrice == 0 {
		quote, err := s.latestQuote(ctx, trade.Symbol)
		if err != nil {
			return domain.Trade{}, err
		}
		exitPrice = quote.ClosePriceFor(trade.Direction)
	}

	econ := s.engine.ProfitLoss(trade.Symbol, trade.Direction, trade.EntryPrice, exitPrice, trade.Volume)
	status := domain.StatusForProfit(econ.Profit)
	exitTime := time.Now().UTC()

	if err := s.tradeRepo.CloseTrade(ctx, accountID, ticket, exitPrice, econ.Profit, status, exitTime); err != nil {
		return domain.Trade{}, err
	}

	trade.ExitPrice = exitPrice
	trade.Profit = econ.Profit
	trade.Status = status
	trade.ExitTime = exitTime
	return trade, nil
}

func (s *TradingService) ListTrades(ctx context.Context, accountID string, limit int) ([]domain.Trade, error) {
	if limit <= 0 {
		limit = 1000
	}
	return s.tradeRepo.ListTrades(ctx, accountID, limit)
}

func (s *TradingService) ListAccounts(ctx context.Context, limit int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.accountRepo.ListAccounts(ctx, limit)
}

// GenerateReport reduces the account's closed trades into the performance
// summary, equity curve and quality score, and snapshots open positions with
// floating P/L against the latest quotes.
func (s *TradingService) GenerateReport(ctx context.Context, accountID string, limit int) (domain.PerformanceReport, error) {
	if limit <= 0 {
		limit = 1000
	}

	closed, err := s.tradeRepo.ListClosedTrades(ctx, accountID, limit)
	if err != nil {
		return domain.PerformanceReport{}, err
	}
	sortChronological(closed)

	baseline := s.baseline
	if account, err := s.accountRepo.GetAccount(ctx, accountID); err == nil && account.BaselineEquity > 0 {
		baseline = account.BaselineEquity
	}

	summary := computeSummary(closed, baseline)

	report := domain.PerformanceReport{
		AccountID:   accountID,
		AsOf:        time.Now().UTC(),
		Summary:     summary,
		Score:       computeScore(summary),
		EquityCurve: buildEquityCurve(closed, baseline),
	}

	for _, trade := range closed {
		report.RealizedProfit += trade.Profit
	}

	open, err := s.tradeRepo.ListOpenTrades(ctx, accountID)
	if err != nil {
		return domain.PerformanceReport{}, err
	}
	report.OpenPositions = s.snapshotOpenPositions(ctx, open)
	for _, snap := range report.OpenPositions {
		report.FloatingProfit += snap.FloatingProfit
	}

	return report, nil
}

// snapshotOpenPositions marks open trades to the latest quote. Positions
// without a quote keep their entry price and a flat float.
func (s *TradingService) snapshotOpenPositions(ctx context.Context, open []domain.Trade) []domain.OpenPositionSnapshot {
	out := make([]domain.OpenPositionSnapshot, 0, len(open))
	for _, trade := range open {
		current := trade.EntryPrice
		if quote, err := s.latestQuote(ctx, trade.Symbol); err == nil {
			current = quote.ClosePriceFor(trade.Direction)
		}
		econ := s.engine.ProfitLoss(trade.Symbol, trade.Direction, trade.EntryPrice, current, trade.Volume)
		out = append(out, domain.OpenPositionSnapshot{
			Trade:          trade,
			CurrentPrice:   current,
			FloatingPips:   econ.Pips,
			FloatingProfit: econ.Profit,
			MarginRequired: econ.MarginRequired,
		})
	}
	return out
}

// PlanPosition sizes a position for the account's risk budget; a pure
// calculator pass-through for the terminal's risk panel.
func (s *TradingService) PlanPosition(balance, riskPercent, entry, stopLoss float64, symbol string) (engine.PositionPlan, error) {
	return s.engine.PositionSize(balance, riskPercent, entry, stopLoss, symbol)
}

// PreviewProfitLoss evaluates a hypothetical position without recording it.
func (s *TradingService) PreviewProfitLoss(symbol string, direction domain.Direction, openPrice, currentPrice, volume float64) engine.Economics {
	return s.engine.ProfitLoss(symbol, direction, openPrice, currentPrice, volume)
}

// PreviewRiskReward returns the reward/risk ratio for a setup; ok is false
// when either level is missing.
func (s *TradingService) PreviewRiskReward(entry, stopLoss, takeProfit float64, direction domain.Direction) (float64, bool) {
	return s.engine.RiskReward(entry, stopLoss, takeProfit, direction)
}

func (s *TradingService) latestQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if s.quoteRepo == nil {
		return domain.Quote{}, ErrNoQuoteForSymbol
	}
	quote, err := s.quoteRepo.GetQuote(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %s", ErrNoQuoteForSymbol, symbol)
	}
	return quote, nil
}

func (s *TradingService) ensureAccount(ctx context.Context, accountID string, seen time.Time) error {
	account := domain.Account{
		AccountID:      accountID,
		BaselineEquity: s.baseline,
		LastSeen:       seen,
	}
	if existing, err := s.accountRepo.GetAccount(ctx, accountID); err == nil && existing.AccountID != "" {
		account = existing
		account.LastSeen = seen
	}
	return s.accountRepo.UpsertAccount(ctx, account)
}
