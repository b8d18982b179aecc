package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"propdesk_server/internal/domain"
	"propdesk_server/internal/engine"
	"propdesk_server/internal/usecase"
)

type TradingService interface {
	OpenTrade(ctx context.Context, req usecase.OrderRequest) (domain.Trade, error)
	CloseTrade(ctx context.Context, accountID string, ticket int64, exitPrice float64) (domain.Trade, error)
	ListTrades(ctx context.Context, accountID string, limit int) ([]domain.Trade, error)
	ListAccounts(ctx context.Context, limit int) ([]domain.Account, error)
	GenerateReport(ctx context.Context, accountID string, limit int) (domain.PerformanceReport, error)
	PlanPosition(balance, riskPercent, entry, stopLoss float64, symbol string) (engine.PositionPlan, error)
	PreviewProfitLoss(symbol string, direction domain.Direction, openPrice, currentPrice, volume float64) engine.Economics
	PreviewRiskReward(entry, stopLoss, takeProfit float64, direction domain.Direction) (float64, bool)
}

type QuoteService interface {
	Sync(ctx context.Context) (int, error)
	List(ctx context.Context, limit int) ([]domain.Quote, error)
}

type Router struct {
	app            *fiber.App
	tradingService TradingService
	quoteService   QuoteService
}

func New(trading TradingService, quotes QuoteService) *Router {
	app := fiber.New()

	r := &Router{
		app:            app,
		tradingService: trading,
		quoteService:   quotes,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/quotes", r.listQuotes)
	v1.Post("/quotes/sync", r.syncQuotes)

	v1.Get("/accounts", r.listAccounts)
	v1.Post("/accounts/:account_id/orders", r.placeOrder)
	v1.Post("/accounts/:account_id/trades/:ticket/close", r.closeTrade)
	v1.Get("/accounts/:account_id/trades", r.listTrades)
	v1.Get("/accounts/:account_id/report", r.getReport)

	v1.Post("/calc/position-size", r.calcPositionSize)
	v1.Post("/calc/profit-loss", r.calcProfitLoss)
	v1.Post("/calc/risk-reward", r.calcRiskReward)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func queryLimit(c *fiber.Ctx, fallback int) int {
	limit := fallback
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}

// listQuotes godoc
// @Summary List latest quotes
// @Tags quotes
// @Produce json
// @Param limit query int false "Maximum number of quotes"
// @Success 200 {array} domain.Quote
// @Failure 500 {object} map[string]string
// @Router /quotes [get]
func (r *Router) listQuotes(c *fiber.Ctx) error {
	if r.quoteService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "quote service unavailable")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	quotes, err := r.quoteService.List(ctx, queryLimit(c, 100))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(quotes)
}

// syncQuotes godoc
// @Summary Trigger a quote sync from the configured feed
// @Tags quotes
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} map[string]string
// @Router /quotes/sync [post]
func (r *Router) syncQuotes(c *fiber.Ctx) error {
	if r.quoteService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "quote service unavailable")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 30*time.Second)
	defer cancel()

	count, err := r.quoteService.Sync(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrNoQuotes) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"synced": 0,
				"status": "no quotes available",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"synced": count})
}

// listAccounts godoc
// @Summary List trading accounts
// @Tags accounts
// @Produce json
// @Param limit query int false "Maximum number of accounts"
// @Success 200 {array} domain.Account
// @Failure 500 {object} map[string]string
// @Router /accounts [get]
func (r *Router) listAccounts(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	accounts, err := r.tradingService.ListAccounts(ctx, queryLimit(c, 100))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(accounts)
}

type OrderPayload struct {
	Symbol     string  `json:"symbol"`
	Direction  string  `json:"direction"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
	Comment    string  `json:"comment"`
}

// placeOrder godoc
// @Summary Validate and open a position
// @Tags trading
// @Accept json
// @Produce json
// @Param account_id path string true "Account ID"
// @Param request body OrderPayload true "Order payload"
// @Success 201 {object} domain.Trade
// @Failure 400 {object} map[string]string
// @Failure 422 {object} engine.Validation
// @Failure 500 {object} map[string]string
// @Router /accounts/{account_id}/orders [post]
func (r *Router) placeOrder(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	accountID := c.Params("account_id")
	if accountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account_id required")
	}

	var payload OrderPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trade, err := r.tradingService.OpenTrade(ctx, usecase.OrderRequest{
		AccountID:  accountID,
		Symbol:     payload.Symbol,
		Direction:  domain.Direction(payload.Direction),
		Volume:     payload.Volume,
		Price:      payload.Price,
		StopLoss:   payload.StopLoss,
		TakeProfit: payload.TakeProfit,
		Comment:    payload.Comment,
		RawPayload: c.Body(),
	})
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(engine.Validation{
				Valid:  false,
				Errors: verr.Violations,
			})
		}
		if errors.Is(err, usecase.ErrNoQuoteForSymbol) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(trade)
}

type ClosePayload struct {
	Price float64 `json:"price"`
}

// closeTrade godoc
// @Summary Close an open position
// @Tags trading
// @Accept json
// @Produce json
// @Param account_id path string true "Account ID"
// @Param ticket path int true "Trade ticket"
// @Param request body ClosePayload false "Close payload; zero price closes at the latest quote"
// @Success 200 {object} domain.Trade
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /accounts/{account_id}/trades/{ticket}/close [post]
func (r *Router) closeTrade(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	accountID := c.Params("account_id")
	if accountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account_id required")
	}

	ticket, err := strconv.ParseInt(c.Params("ticket"), 10, 64)
	if err != nil || ticket <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ticket")
	}

	var payload ClosePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trade, err := r.tradingService.CloseTrade(ctx, accountID, ticket, payload.Price)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTradeAlreadyClosed):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, usecase.ErrTradeNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrNoQuoteForSymbol):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(trade)
}

// listTrades godoc
// @Summary List an account's trades
// @Tags trading
// @Produce json
// @Param account_id path string true "Account ID"
// @Param limit query int false "Maximum number of trades"
// @Success 200 {array} domain.Trade
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /accounts/{account_id}/trades [get]
func (r *Router) listTrades(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	accountID := c.Params("account_id")
	if accountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account_id required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trades, err := r.tradingService.ListTrades(ctx, accountID, queryLimit(c, 1000))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(trades)
}

// getReport godoc
// @Summary Generate a performance report for an account
// @Tags trading
// @Produce json
// @Param account_id path string true "Account ID"
// @Param limit query int false "Maximum history window"
// @Success 200 {object} domain.PerformanceReport
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /accounts/{account_id}/report [get]
func (r *Router) getReport(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	accountID := c.Params("account_id")
	if accountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account_id required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 30*time.Second)
	defer cancel()

	report, err := r.tradingService.GenerateReport(ctx, accountID, queryLimit(c, 1000))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(report)
}

type PositionSizePayload struct {
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"riskPercent"`
	EntryPrice  float64 `json:"entryPrice"`
	StopLoss    float64 `json:"stopLoss"`
	Symbol      string  `json:"symbol"`
}

// calcPositionSize godoc
// @Summary Size a position for a risk budget
// @Tags calculators
// @Accept json
// @Produce json
// @Param request body PositionSizePayload true "Sizing inputs"
// @Success 200 {object} engine.PositionPlan
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /calc/position-size [post]
func (r *Router) calcPositionSize(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	var payload PositionSizePayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	plan, err := r.tradingService.PlanPosition(payload.Balance, payload.RiskPercent, payload.EntryPrice, payload.StopLoss, payload.Symbol)
	if err != nil {
		if errors.Is(err, engine.ErrZeroStopDistance) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(plan)
}

type ProfitLossPayload struct {
	Symbol       string  `json:"symbol"`
	Direction    string  `json:"direction"`
	OpenPrice    float64 `json:"openPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Volume       float64 `json:"volume"`
}

// calcProfitLoss godoc
// @Summary Evaluate a hypothetical position
// @Tags calculators
// @Accept json
// @Produce json
// @Param request body ProfitLossPayload true "Position inputs"
// @Success 200 {object} engine.Economics
// @Failure 400 {object} map[string]string
// @Router /calc/profit-loss [post]
func (r *Router) calcProfitLoss(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	var payload ProfitLossPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	direction := domain.Direction(payload.Direction)
	if !direction.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "direction must be buy or sell")
	}

	econ := r.tradingService.PreviewProfitLoss(payload.Symbol, direction, payload.OpenPrice, payload.CurrentPrice, payload.Volume)
	return c.JSON(econ)
}

type RiskRewardPayload struct {
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
	Direction  string  `json:"direction"`
}

type RiskRewardResponse struct {
	Ratio     float64 `json:"ratio"`
	Available bool    `json:"available"`
}

// calcRiskReward godoc
// @Summary Compute reward/risk for a setup
// @Tags calculators
// @Accept json
// @Produce json
// @Param request body RiskRewardPayload true "Setup inputs"
// @Success 200 {object} RiskRewardResponse
// @Failure 400 {object} map[string]string
// @Router /calc/risk-reward [post]
func (r *Router) calcRiskReward(c *fiber.Ctx) error {
	if r.tradingService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "trading service unavailable")
	}

	var payload RiskRewardPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	direction := domain.Direction(payload.Direction)
	if !direction.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "direction must be buy or sell")
	}

	ratio, ok := r.tradingService.PreviewRiskReward(payload.EntryPrice, payload.StopLoss, payload.TakeProfit, direction)
	return c.JSON(RiskRewardResponse{Ratio: ratio, Available: ok})
}
