package quotes

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"propdesk_server/internal/domain"
	"propdesk_server/internal/market"
)

// Base mid prices for the simulated book. Roughly realistic levels; the walk
// drifts from here.
var defaultBasePrices = map[string]float64{
	"EURUSD": 1.0850,
	"GBPUSD": 1.2700,
	"USDJPY": 149.50,
	"AUDUSD": 0.6550,
	"USDCAD": 1.3600,
	"XAUUSD": 2030.00,
	"BTCUSD": 67000.00,
}

// SimulatedFeed is a seeded random-walk quote source. Each FetchQuotes call
// advances every symbol by a few pips and quotes a 2-pip spread around the
// mid. Same seed, same walk.
type SimulatedFeed struct {
	mu   sync.Mutex
	rng  *rand.Rand
	mids map[string]float64
}

func NewSimulatedFeed(seed int64, symbols ...string) *SimulatedFeed {
	mids := make(map[string]float64)
	if len(symbols) == 0 {
		for symbol, price := range defaultBasePrices {
			mids[symbol] = price
		}
	} else {
		for _, symbol := range symbols {
			price, ok := defaultBasePrices[symbol]
			if !ok {
				price = 1.0
			}
			mids[symbol] = price
		}
	}

	return &SimulatedFeed{
		rng:  rand.New(rand.NewSource(seed)),
		mids: mids,
	}
}

func (f *SimulatedFeed) FetchQuotes(_ context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	quotes := make([]domain.Quote, 0, len(f.mids))

	for _, symbol := range sortedSymbols(f.mids) {
		pip := market.PipSize(symbol)
		mid := f.mids[symbol]

		// Walk up to 5 pips either way, floored at one pip above zero.
		mid += (f.rng.Float64()*2 - 1) * 5 * pip
		if mid <= pip {
			mid = pip
		}
		f.mids[symbol] = mid

		spread := pip
		quotes = append(quotes, domain.Quote{
			Symbol: symbol,
			Bid:    mid - spread,
			Ask:    mid + spread,
			Time:   now,
		})
	}

	return quotes, nil
}

func sortedSymbols(mids map[string]float64) []string {
	symbols := make([]string, 0, len(mids))
	for symbol := range mids {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
