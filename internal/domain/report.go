package domain

import "time"

// PerformanceSummary is fully determined by the closed-trade collection it was
// computed from; it carries no hidden state.
type PerformanceSummary struct {
	TotalTrades       int
	WinningTrades     int
	LosingTrades      int
	WinRate           float64
	ProfitFactor      float64
	Expectancy        float64
	AverageWin        float64
	AverageLoss       float64
	LargestWin        float64
	LargestLoss       float64
	LongestWinStreak  int
	LongestLossStreak int
	MaxDrawdown       float64
	// RecoveryPeriods counts trades from the deepest trough back to the prior
	// equity peak. Nil when the curve never recovers in the observed window.
	RecoveryPeriods *int
	SharpeRatio     float64
}

type EquityPoint struct {
	Label  string
	Time   time.Time
	Equity float64
}

// ScoreCard is the composite 0-100 trading quality score with letter grade.
type ScoreCard struct {
	Score float64
	Grade string
}

// OpenPositionSnapshot is an open trade enriched with floating figures against
// the latest quote.
type OpenPositionSnapshot struct {
	Trade
	CurrentPrice   float64
	FloatingPips   float64
	FloatingProfit float64
	MarginRequired float64
}

type PerformanceReport struct {
	AccountID      string
	AsOf           time.Time
	Summary        PerformanceSummary
	Score          ScoreCard
	EquityCurve    []EquityPoint
	OpenPositions  []OpenPositionSnapshot
	RealizedProfit float64
	FloatingProfit float64
}
