package usecase

import (
	"math"
	"sort"

	"propdesk_server/internal/domain"
)

// DefaultBaselineEquity anchors equity curves when an account carries no
// explicit baseline.
const DefaultBaselineEquity = 100000.0

// sortChronological orders trades by exit time, falling back to entry time
// when a trade has none.
func sortChronological(trades []domain.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ClosedAt().Before(trades[j].ClosedAt())
	})
}

// computeSummary reduces a chronologically ordered collection of closed trades
// into the summary metrics. It is a pure function of its input: same trades
// in, same summary out.
func computeSummary(trades []domain.Trade, baseline float64) domain.PerformanceSummary {
	if len(trades) == 0 {
		return domain.PerformanceSummary{}
	}

	var winCount, lossCount int
	var sumWin, sumLoss, sumProfit float64
	largestWin := math.Inf(-1)
	largestLoss := math.Inf(1)

	profits := make([]float64, 0, len(trades))
	for _, trade := range trades {
		profit := trade.Profit
		profits = append(profits, profit)
		sumProfit += profit

		if profit > 0 {
			winCount++
			sumWin += profit
		} else if profit < 0 {
			lossCount++
			sumLoss += profit
		}
		if profit > largestWin {
			largestWin = profit
		}
		if profit < largestLoss {
			largestLoss = profit
		}
	}

	total := len(trades)
	winStreak, lossStreak := longestStreaks(profits)
	maxDrawdown, recovery := maxDrawdownAndRecovery(buildEquityCurve(trades, baseline))

	return domain.PerformanceSummary{
		TotalTrades:       total,
		WinningTrades:     winCount,
		LosingTrades:      lossCount,
		WinRate:           safeDivide(float64(winCount), float64(total)) * 100,
		ProfitFactor:      safeDivide(sumWin, math.Abs(sumLoss)),
		Expectancy:        safeDivide(sumProfit, float64(total)),
		AverageWin:        safeDivide(sumWin, float64(winCount)),
		AverageLoss:       safeDivide(sumLoss, float64(lossCount)),
		LargestWin:        largestWin,
		LargestLoss:       largestLoss,
		LongestWinStreak:  winStreak,
		LongestLossStreak: lossStreak,
		MaxDrawdown:       maxDrawdown,
		RecoveryPeriods:   recovery,
		SharpeRatio:       sharpeRatio(profits),
	}
}

// longestStreaks returns the longest consecutive runs of winning and losing
// trades. Break-even trades extend the winning side, matching how closed
// status is derived from profit sign.
func longestStreaks(profits []float64) (wins, losses int) {
	var curWins, curLosses int
	for _, p := range profits {
		if p < 0 {
			curLosses++
			curWins = 0
		} else {
			curWins++
			curLosses = 0
		}
		if curWins > wins {
			wins = curWins
		}
		if curLosses > losses {
			losses = curLosses
		}
	}
	return wins, losses
}

// buildEquityCurve walks the closed trades in chronological order,
// accumulating realized P/L from the baseline. The synthetic "Start" point
// guarantees charts never render empty.
func buildEquityCurve(trades []domain.Trade, baseline float64) []domain.EquityPoint {
	if baseline == 0 {
		baseline = DefaultBaselineEquity
	}

	curve := make([]domain.EquityPoint, 0, len(trades)+1)
	curve = append(curve, domain.EquityPoint{Label: "Start", Equity: baseline})

	running := baseline
	for _, trade := range trades {
		running += trade.Profit
		curve = append(curve, domain.EquityPoint{
			Label:  trade.ClosedAt().Format("2006-01-02"),
			Time:   trade.ClosedAt(),
			Equity: running,
		})
	}
	return curve
}

// maxDrawdownAndRecovery finds the largest peak-to-trough decline of the
// equity curve and how many periods the curve took to regain the prior peak.
// Recovery is nil when the curve never gets back within the observed window,
// and nil for a curve with no drawdown at all.
func maxDrawdownAndRecovery(points []domain.EquityPoint) (float64, *int) {
	if len(points) == 0 {
		return 0, nil
	}

	peak := points[0].Equity
	maxDrawdown := 0.0
	troughIdx := -1
	troughPeak := 0.0

	for i, p := range points {
		if p.Equity > peak {
			peak = p.Equity
		}
		drawdown := peak - p.Equity
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
			troughIdx = i
			troughPeak = peak
		}
	}

	if troughIdx < 0 {
		return 0, nil
	}

	for i := troughIdx + 1; i < len(points); i++ {
		if points[i].Equity >= troughPeak {
			periods := i - troughIdx
			return maxDrawdown, &periods
		}
	}
	return maxDrawdown, nil
}

// sharpeRatio is mean over sample standard deviation of the per-trade P/L
// series. Annualization is deliberately left out; the score scaling below
// already assumes raw per-trade figures.
func sharpeRatio(profits []float64) float64 {
	mean := average(profits)
	return safeDivide(mean, sampleStdDev(profits, mean))
}

// Composite score weights: each contribution is clamped to its bucket so
// outsized inputs cannot overflow the 0-100 range.
const (
	sharpeCeiling       = 3.0
	profitFactorCeiling = 3.0
	payoffCeiling       = 3.0
	streakRatioCeiling  = 5.0
)

// computeScore folds the summary into the 0-100 trading quality score and its
// letter grade.
func computeScore(s domain.PerformanceSummary) domain.ScoreCard {
	score := 0.0

	score += scaled(s.SharpeRatio, sharpeCeiling, 30)
	score += scaled(s.ProfitFactor, profitFactorCeiling, 25)

	payoff := safeDivide(s.AverageWin, math.Abs(s.AverageLoss))
	score += scaled(payoff, payoffCeiling, 20)

	lossStreak := s.LongestLossStreak
	if lossStreak < 1 {
		lossStreak = 1
	}
	streakRatio := float64(s.LongestWinStreak) / float64(lossStreak)
	score += scaled(streakRatio, streakRatioCeiling, 15)

	score += recoveryBonus(s.MaxDrawdown, s.RecoveryPeriods)

	return domain.ScoreCard{Score: score, Grade: gradeFor(score)}
}

// scaled maps value against its ceiling into [0, maxPoints].
func scaled(value, ceiling, maxPoints float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Min(maxPoints, value/ceiling*maxPoints)
}

// recoveryBonus awards up to 10 points for fast drawdown recovery. A curve
// with no drawdown earns the full bonus; one that never recovered earns none.
func recoveryBonus(maxDrawdown float64, recovery *int) float64 {
	if maxDrawdown == 0 {
		return 10
	}
	if recovery == nil {
		return 0
	}
	return 10 - math.Min(10, float64(*recovery))
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func safeDivide(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	if math.Abs(b) < 1e-9 {
		return 0
	}
	return a / b
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
