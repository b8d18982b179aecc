package engine

import "propdesk_server/internal/domain"

// OrderTicket is a proposed order as entered in the terminal, before any
// broker interaction.
type OrderTicket struct {
	Symbol     string
	Direction  domain.Direction
	Volume     float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
}

// Validation accumulates every violated constraint so the caller can surface
// all problems at once instead of one per round trip.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (v *Validation) add(msg string) {
	v.Errors = append(v.Errors, msg)
	v.Valid = false
}

// ValidateOrder checks an order ticket against the platform's business rules.
// It validates only; values are never clamped or auto-corrected.
func (e *Engine) ValidateOrder(o OrderTicket) Validation {
	v := Validation{Valid: true, Errors: []string{}}

	if o.Volume <= 0 {
		v.add("Volume must be greater than 0")
	}
	if o.Volume > e.cfg.MaxVolumeLots {
		v.add("Volume exceeds maximum allowed")
	}

	if !o.Direction.Valid() {
		v.add("Direction must be buy or sell")
		return v
	}

	switch o.Direction {
	case domain.DirectionBuy:
		if o.StopLoss != 0 && o.StopLoss >= o.EntryPrice {
			v.add("Stop loss must be below entry price for buy orders")
		}
		if o.TakeProfit != 0 && o.TakeProfit <= o.EntryPrice {
			v.add("Take profit must be above entry price for buy orders")
		}
	case domain.DirectionSell:
		if o.StopLoss != 0 && o.StopLoss <= o.EntryPrice {
			v.add("Stop loss must be above entry price for sell orders")
		}
		if o.TakeProfit != 0 && o.TakeProfit >= o.EntryPrice {
			v.add("Take profit must be below entry price for sell orders")
		}
	}

	return v
}
