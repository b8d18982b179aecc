package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk_server/internal/domain"
)

func TestProfitLossBuy(t *testing.T) {
	e := New(Config{})

	econ := e.ProfitLoss("EURUSD", domain.DirectionBuy, 1.0800, 1.0850, 1.0)

	assert.InDelta(t, 50.0, econ.Pips, 1e-6)
	assert.InDelta(t, 500.0, econ.Profit, 1e-6)
	assert.InDelta(t, 10.0, econ.PipValue, 1e-9)
	assert.InDelta(t, 1000.0, econ.MarginRequired, 1e-9)
	assert.InDelta(t, 0.5, econ.ProfitPercent, 1e-6)
}

func TestProfitLossSellFavorable(t *testing.T) {
	e := New(Config{})

	econ := e.ProfitLoss("EURUSD", domain.DirectionSell, 1.0850, 1.0800, 1.0)

	assert.InDelta(t, 50.0, econ.Pips, 1e-6, "favorable sell move must yield positive pips")
	assert.InDelta(t, 500.0, econ.Profit, 1e-6)
}

func TestProfitLossDirectionSymmetry(t *testing.T) {
	e := New(Config{})
	p := 1.2500

	buy := e.ProfitLoss("GBPUSD", domain.DirectionBuy, p, p+0.0010, 1.0)
	sell := e.ProfitLoss("GBPUSD", domain.DirectionSell, p+0.0010, p, 1.0)

	assert.InDelta(t, buy.Profit, sell.Profit, 1e-9)
	assert.InDelta(t, buy.Pips, sell.Pips, 1e-9)
}

func TestProfitLossJPYPair(t *testing.T) {
	e := New(Config{})

	econ := e.ProfitLoss("USDJPY", domain.DirectionBuy, 149.50, 150.00, 1.0)

	assert.InDelta(t, 50.0, econ.Pips, 1e-6)
	assert.InDelta(t, 500.0, econ.Profit, 1e-6)
}

func TestProfitLossZeroVolume(t *testing.T) {
	e := New(Config{})

	econ := e.ProfitLoss("EURUSD", domain.DirectionBuy, 1.0800, 1.0850, 0)

	assert.Zero(t, econ.Profit)
	assert.Zero(t, econ.MarginRequired)
	assert.Zero(t, econ.ProfitPercent)
}

func TestRiskReward(t *testing.T) {
	e := New(Config{})

	ratio, ok := e.RiskReward(1.0800, 1.0750, 1.0900, domain.DirectionBuy)
	require.True(t, ok)
	assert.InDelta(t, 2.0, ratio, 1e-9)

	ratio, ok = e.RiskReward(1.0800, 1.0850, 1.0700, domain.DirectionSell)
	require.True(t, ok)
	assert.InDelta(t, 2.0, ratio, 1e-9)
}

func TestRiskRewardMissingLevels(t *testing.T) {
	e := New(Config{})

	_, ok := e.RiskReward(1.0800, 0, 1.0900, domain.DirectionBuy)
	assert.False(t, ok, "missing stop loss must report unavailable, not zero")

	_, ok = e.RiskReward(1.0800, 1.0750, 0, domain.DirectionBuy)
	assert.False(t, ok, "missing take profit must report unavailable, not zero")
}

func TestRiskRewardWrongSideStopPassesThrough(t *testing.T) {
	e := New(Config{})

	ratio, ok := e.RiskReward(1.0800, 1.0850, 1.0900, domain.DirectionBuy)
	require.True(t, ok)
	assert.Less(t, ratio, 0.0)
}

func TestPositionSize(t *testing.T) {
	e := New(Config{})

	plan, err := e.PositionSize(100000, 1, 1.0800, 1.0750, "EURUSD")
	require.NoError(t, err)

	assert.InDelta(t, 2.0, plan.Lots, 1e-9)
	assert.InDelta(t, 50.0, plan.StopPips, 1e-6)
	assert.InDelta(t, 1000.0, plan.RiskAmount, 1e-9)
}

func TestPositionSizeZeroStopDistance(t *testing.T) {
	e := New(Config{})

	_, err := e.PositionSize(100000, 1, 1.0800, 1.0800, "EURUSD")
	assert.ErrorIs(t, err, ErrZeroStopDistance)
}

func TestMarginLevel(t *testing.T) {
	e := New(Config{})

	assert.Zero(t, e.MarginLevel(10000, 0))
	assert.InDelta(t, 500.0, e.MarginLevel(10000, 2000), 1e-9)
}

func TestSwap(t *testing.T) {
	e := New(Config{})

	assert.InDelta(t, -6.5, e.Swap("EURUSD", domain.DirectionBuy, 1.0, 1), 1e-9)
	assert.InDelta(t, 0.9, e.Swap("GBPUSD", domain.DirectionSell, 1.0, 1), 1e-9)
	assert.InDelta(t, -14.8, e.Swap("USDJPY", domain.DirectionSell, 1.0, 2), 1e-9)
	assert.Zero(t, e.Swap("AUDNZD", domain.DirectionBuy, 1.0, 1))
}

func TestConfigOverrides(t *testing.T) {
	e := New(Config{Leverage: 50, ContractSize: 100000})

	econ := e.ProfitLoss("EURUSD", domain.DirectionBuy, 1.0800, 1.0800, 2.0)
	assert.InDelta(t, 4000.0, econ.MarginRequired, 1e-9)
}
