package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk_server/internal/domain"
	"propdesk_server/internal/engine"
	"propdesk_server/internal/usecase"
)

type stubTradingService struct {
	openErr   error
	closeErr  error
	lastOrder usecase.OrderRequest
	eng       *engine.Engine
}

func (s *stubTradingService) OpenTrade(_ context.Context, req usecase.OrderRequest) (domain.Trade, error) {
	s.lastOrder = req
	if s.openErr != nil {
		return domain.Trade{}, s.openErr
	}
	return domain.Trade{Ticket: 1, AccountID: req.AccountID, Symbol: req.Symbol, Status: domain.TradeStatusOpen}, nil
}

func (s *stubTradingService) CloseTrade(_ context.Context, accountID string, ticket int64, _ float64) (domain.Trade, error) {
	if s.closeErr != nil {
		return domain.Trade{}, s.closeErr
	}
	return domain.Trade{Ticket: ticket, AccountID: accountID, Status: domain.TradeStatusClosedWin}, nil
}

func (s *stubTradingService) ListTrades(context.Context, string, int) ([]domain.Trade, error) {
	return []domain.Trade{{Ticket: 1}}, nil
}

func (s *stubTradingService) ListAccounts(context.Context, int) ([]domain.Account, error) {
	return []domain.Account{{AccountID: "acct-1"}}, nil
}

func (s *stubTradingService) GenerateReport(_ context.Context, accountID string, _ int) (domain.PerformanceReport, error) {
	return domain.PerformanceReport{AccountID: accountID}, nil
}

func (s *stubTradingService) PlanPosition(balance, riskPercent, entry, stopLoss float64, symbol string) (engine.PositionPlan, error) {
	return s.eng.PositionSize(balance, riskPercent, entry, stopLoss, symbol)
}

func (s *stubTradingService) PreviewProfitLoss(symbol string, direction domain.Direction, openPrice, currentPrice, volume float64) engine.Economics {
	return s.eng.ProfitLoss(symbol, direction, openPrice, currentPrice, volume)
}

func (s *stubTradingService) PreviewRiskReward(entry, stopLoss, takeProfit float64, direction domain.Direction) (float64, bool) {
	return s.eng.RiskReward(entry, stopLoss, takeProfit, direction)
}

type stubQuoteService struct {
	synced  int
	syncErr error
}

func (s *stubQuoteService) Sync(context.Context) (int, error) {
	if s.syncErr != nil {
		return 0, s.syncErr
	}
	return s.synced, nil
}

func (s *stubQuoteService) List(context.Context, int) ([]domain.Quote, error) {
	return []domain.Quote{{Symbol: "EURUSD", Bid: 1.0848, Ask: 1.0850}}, nil
}

func newTestRouter(t *testing.T, trading *stubTradingService, quotes *stubQuoteService) *Router {
	t.Helper()
	if trading != nil && trading.eng == nil {
		trading.eng = engine.New(engine.DefaultConfig())
	}
	return New(trading, quotes)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	resp, err := r.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestListQuotes(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	resp, err := r.App().Test(httptest.NewRequest("GET", "/api/v1/quotes", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var quotes []domain.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quotes))
	require.Len(t, quotes, 1)
	assert.Equal(t, "EURUSD", quotes[0].Symbol)
}

func TestSyncQuotes(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{synced: 7})

	req := httptest.NewRequest("POST", "/api/v1/quotes/sync", nil)
	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body["synced"])
}

func TestSyncQuotesEmptyFeed(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{syncErr: usecase.ErrNoQuotes})

	resp, err := r.App().Test(httptest.NewRequest("POST", "/api/v1/quotes/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
}

func TestPlaceOrderCreated(t *testing.T) {
	trading := &stubTradingService{}
	r := newTestRouter(t, trading, &stubQuoteService{})

	payload := `{"symbol":"EURUSD","direction":"buy","volume":0.5,"price":1.0850,"sl":1.0800,"tp":1.0950}`
	req := httptest.NewRequest("POST", "/api/v1/accounts/acct-1/orders", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	assert.Equal(t, "acct-1", trading.lastOrder.AccountID)
	assert.Equal(t, domain.DirectionBuy, trading.lastOrder.Direction)
	assert.Equal(t, 0.5, trading.lastOrder.Volume)
}

func TestPlaceOrderValidationErrors(t *testing.T) {
	trading := &stubTradingService{
		openErr: &usecase.ValidationError{Violations: []string{
			"Volume must be greater than 0",
			"Stop loss must be below entry price for buy orders",
		}},
	}
	r := newTestRouter(t, trading, &stubQuoteService{})

	payload := `{"symbol":"EURUSD","direction":"buy","volume":0,"price":1.0850,"sl":1.0900}`
	req := httptest.NewRequest("POST", "/api/v1/accounts/acct-1/orders", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 422, resp.StatusCode)

	var body engine.Validation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Valid)
	assert.Len(t, body.Errors, 2)
}

func TestCloseTradeConflictWhenAlreadyClosed(t *testing.T) {
	trading := &stubTradingService{closeErr: usecase.ErrTradeAlreadyClosed}
	r := newTestRouter(t, trading, &stubQuoteService{})

	resp, err := r.App().Test(httptest.NewRequest("POST", "/api/v1/accounts/acct-1/trades/5/close", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestCloseTradeBadTicket(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	resp, err := r.App().Test(httptest.NewRequest("POST", "/api/v1/accounts/acct-1/trades/abc/close", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCalcPositionSize(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	payload := `{"balance":10000,"riskPercent":2,"entryPrice":1.2000,"stopLoss":1.1950,"symbol":"EURUSD"}`
	req := httptest.NewRequest("POST", "/api/v1/calc/position-size", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var plan engine.PositionPlan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.InDelta(t, 0.4, plan.Lots, 1e-9)
	assert.InDelta(t, 200.0, plan.RiskAmount, 1e-9)
}

func TestCalcPositionSizeZeroStopDistance(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	payload := `{"balance":10000,"riskPercent":2,"entryPrice":1.2000,"stopLoss":1.2000,"symbol":"EURUSD"}`
	req := httptest.NewRequest("POST", "/api/v1/calc/position-size", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestCalcRiskReward(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	payload := `{"entryPrice":1.2000,"stopLoss":1.1950,"takeProfit":1.2100,"direction":"buy"}`
	req := httptest.NewRequest("POST", "/api/v1/calc/risk-reward", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body RiskRewardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Available)
	assert.InDelta(t, 2.0, body.Ratio, 1e-9)
}

func TestCalcRiskRewardMissingLevels(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	payload := `{"entryPrice":1.2000,"stopLoss":0,"takeProfit":1.2100,"direction":"buy"}`
	req := httptest.NewRequest("POST", "/api/v1/calc/risk-reward", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body RiskRewardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Available)
}

func TestCalcProfitLossRejectsBadDirection(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	payload := `{"symbol":"EURUSD","direction":"long","openPrice":1.2,"currentPrice":1.21,"volume":1}`
	req := httptest.NewRequest("POST", "/api/v1/calc/profit-loss", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetReport(t *testing.T) {
	r := newTestRouter(t, &stubTradingService{}, &stubQuoteService{})

	resp, err := r.App().Test(httptest.NewRequest("GET", "/api/v1/accounts/acct-1/report", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "acct-1")
}
