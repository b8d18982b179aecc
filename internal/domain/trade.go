package domain

import "time"

type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

type TradeStatus string

const (
	TradeStatusOpen       TradeStatus = "open"
	TradeStatusClosedWin  TradeStatus = "closed-win"
	TradeStatusClosedLoss TradeStatus = "closed-loss"
)

// StatusForProfit derives the closed status from the sign of realized profit.
// Break-even trades count as wins.
func StatusForProfit(profit float64) TradeStatus {
	if profit < 0 {
		return TradeStatusClosedLoss
	}
	return TradeStatusClosedWin
}

// Trade is a single position in an account's journal. Exit fields and Profit
// are only meaningful once Status is a closed status; use Closed and
// RealizedProfit instead of reading them directly.
type Trade struct {
	AccountID     string
	Ticket        int64
	ClientOrderID string
	Symbol        string
	Direction     Direction
	Volume        float64
	EntryPrice    float64
	ExitPrice     float64
	StopLoss      float64
	TakeProfit    float64
	Profit        float64
	Status        TradeStatus
	EntryTime     time.Time
	ExitTime      time.Time
	Comment       string
	RawPayload    []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t Trade) Closed() bool {
	return t.Status == TradeStatusClosedWin || t.Status == TradeStatusClosedLoss
}

// RealizedProfit returns the realized P/L and whether the trade has one.
func (t Trade) RealizedProfit() (float64, bool) {
	if !t.Closed() {
		return 0, false
	}
	return t.Profit, true
}

// ClosedAt is the chronological anchor for aggregation: exit time when set,
// entry time otherwise.
func (t Trade) ClosedAt() time.Time {
	if !t.ExitTime.IsZero() {
		return t.ExitTime
	}
	return t.EntryTime
}

// Account is a prop-firm trading account. Balance and Equity arrive from the
// platform; BaselineEquity anchors the equity curve in reports.
type Account struct {
	AccountID      string
	Name           string
	Currency       string
	Balance        float64
	Equity         float64
	BaselineEquity float64
	Metadata       []byte
	LastSeen       time.Time
	Created        time.Time
	Updated        time.Time
}

// Quote is the latest known bid/ask for a symbol.
type Quote struct {
	Symbol    string
	Bid       float64
	Ask       float64
	Time      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// PriceFor returns the fill side for a new position in the given direction:
// buys fill at the ask, sells at the bid.
func (q Quote) PriceFor(d Direction) float64 {
	if d == DirectionBuy {
		return q.Ask
	}
	return q.Bid
}

// ClosePriceFor returns the fill side for closing a position: a buy closes
// against the bid, a sell against the ask.
func (q Quote) ClosePriceFor(d Direction) float64 {
	if d == DirectionBuy {
		return q.Bid
	}
	return q.Ask
}
