// Package engine converts trade parameters into money and risk figures. Every
// method is a pure computation over its arguments; broker state, quotes and
// persistence stay with the callers.
package engine

import (
	"errors"
	"math"

	"propdesk_server/internal/domain"
	"propdesk_server/internal/market"
)

var ErrZeroStopDistance = errors.New("stop-loss distance must be non-zero")

// SwapRate is the per-lot overnight financing cost for one day, by side.
type SwapRate struct {
	Long  float64
	Short float64
}

// Config carries the account-model constants. Zero fields are filled from
// DefaultConfig so callers can override selectively.
type Config struct {
	Leverage        float64
	ContractSize    float64
	MaxVolumeLots   float64
	AccountCurrency string
	SwapRates       map[string]SwapRate
}

func DefaultConfig() Config {
	return Config{
		Leverage:        100,
		ContractSize:    100000,
		MaxVolumeLots:   100,
		AccountCurrency: "USD",
		SwapRates: map[string]SwapRate{
			"EURUSD": {Long: -6.5, Short: 1.2},
			"GBPUSD": {Long: -5.8, Short: 0.9},
			"USDJPY": {Long: 2.1, Short: -7.4},
			"XAUUSD": {Long: -9.2, Short: 3.1},
		},
	}
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Leverage <= 0 {
		cfg.Leverage = def.Leverage
	}
	if cfg.ContractSize <= 0 {
		cfg.ContractSize = def.ContractSize
	}
	if cfg.MaxVolumeLots <= 0 {
		cfg.MaxVolumeLots = def.MaxVolumeLots
	}
	if cfg.AccountCurrency == "" {
		cfg.AccountCurrency = def.AccountCurrency
	}
	if cfg.SwapRates == nil {
		cfg.SwapRates = def.SwapRates
	}
	return &Engine{cfg: cfg}
}

// Economics is the money view of a position at a given price.
type Economics struct {
	PipValue       float64
	Pips           float64
	Profit         float64
	ProfitPercent  float64
	MarginRequired float64
}

// ProfitLoss computes pips, profit and margin for a position. Pips are signed
// so that positive always means favorable, for both directions. ProfitPercent
// is expressed against the notional position value, not account equity.
// Degenerate inputs (zero volume) yield zeros rather than errors.
func (e *Engine) ProfitLoss(symbol string, direction domain.Direction, openPrice, currentPrice, volume float64) Economics {
	pipSize := market.PipSize(symbol)
	pipValue := market.PipValue(symbol, e.cfg.AccountCurrency)

	pips := (currentPrice - openPrice) / pipSize
	if direction == domain.DirectionSell {
		pips = (openPrice - currentPrice) / pipSize
	}

	profit := pips * pipValue * volume
	notional := volume * e.cfg.ContractSize

	profitPercent := 0.0
	if notional != 0 {
		profitPercent = profit / notional * 100
	}

	return Economics{
		PipValue:       pipValue,
		Pips:           pips,
		Profit:         profit,
		ProfitPercent:  profitPercent,
		MarginRequired: notional / e.cfg.Leverage,
	}
}

// RiskReward returns the reward/risk ratio for a proposed setup. ok is false
// when stop loss or take profit is absent, so callers can tell "no levels set"
// apart from a genuine zero ratio. A stop on the wrong side of entry yields a
// negative ratio; clamping that is left to the caller.
func (e *Engine) RiskReward(entry, stopLoss, takeProfit float64, direction domain.Direction) (float64, bool) {
	if stopLoss == 0 || takeProfit == 0 {
		return 0, false
	}

	var risk, reward float64
	if direction == domain.DirectionBuy {
		risk = entry - stopLoss
		reward = takeProfit - entry
	} else {
		risk = stopLoss - entry
		reward = entry - takeProfit
	}

	if risk == 0 {
		return 0, false
	}
	return reward / risk, true
}

// PositionPlan is the sizing result: how many lots to trade for a given risk
// budget and stop distance.
type PositionPlan struct {
	Lots       float64
	StopPips   float64
	RiskAmount float64
}

// PositionSize sizes a position so that hitting the stop loses riskPercent of
// the balance. The lot count is rounded to two decimals, the standard lot-size
// granularity. A stop at the entry price is a domain error, not an Inf lot
// count.
func (e *Engine) PositionSize(balance, riskPercent, entry, stopLoss float64, symbol string) (PositionPlan, error) {
	pipSize := market.PipSize(symbol)
	pipValue := market.PipValue(symbol, e.cfg.AccountCurrency)

	stopPips := math.Abs(entry-stopLoss) / pipSize
	if stopPips == 0 {
		return PositionPlan{}, ErrZeroStopDistance
	}

	riskAmount := balance * riskPercent / 100
	lots := riskAmount / (stopPips * pipValue)

	return PositionPlan{
		Lots:       math.Round(lots*100) / 100,
		StopPips:   stopPips,
		RiskAmount: riskAmount,
	}, nil
}

// MarginLevel returns equity over used margin as a percentage, 0 when no
// margin is in use.
func (e *Engine) MarginLevel(equity, usedMargin float64) float64 {
	if usedMargin == 0 {
		return 0
	}
	return equity / usedMargin * 100
}

// Swap approximates the overnight financing cost for holding the position the
// given number of days. Symbols without a configured rate cost nothing.
func (e *Engine) Swap(symbol string, direction domain.Direction, volume float64, days int) float64 {
	rate, ok := e.cfg.SwapRates[symbol]
	if !ok {
		return 0
	}
	perLot := rate.Long
	if direction == domain.DirectionSell {
		perLot = rate.Short
	}
	return perLot * volume * float64(days)
}
