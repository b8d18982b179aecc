package repository

import (
	"time"

	"gorm.io/datatypes"

	"propdesk_server/internal/domain"
)

type TradeModel struct {
	ID            int64          `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID     string         `gorm:"column:account_id;not null;index"`
	ClientOrderID *string        `gorm:"column:client_order_id;uniqueIndex"`
	Symbol        string         `gorm:"column:symbol;not null"`
	Direction     string         `gorm:"column:direction;not null"`
	Volume        float64        `gorm:"column:volume"`
	EntryPrice    float64        `gorm:"column:entry_price"`
	ExitPrice     float64        `gorm:"column:exit_price"`
	StopLoss      float64        `gorm:"column:stop_loss"`
	TakeProfit    float64        `gorm:"column:take_profit"`
	Profit        float64        `gorm:"column:profit"`
	Status        string         `gorm:"column:status;not null;index"`
	EntryTime     time.Time      `gorm:"column:entry_time"`
	ExitTime      *time.Time     `gorm:"column:exit_time"`
	Comment       *string        `gorm:"column:comment"`
	RawPayload    datatypes.JSON `gorm:"column:raw_payload"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string {
	return "trades"
}

func toTradeModel(trade domain.Trade) TradeModel {
	model := TradeModel{
		ID:            trade.Ticket,
		AccountID:     trade.AccountID,
		ClientOrderID: stringPointerOrNil(trade.ClientOrderID),
		Symbol:        trade.Symbol,
		Direction:     string(trade.Direction),
		Volume:        trade.Volume,
		EntryPrice:    trade.EntryPrice,
		ExitPrice:     trade.ExitPrice,
		StopLoss:      trade.StopLoss,
		TakeProfit:    trade.TakeProfit,
		Profit:        trade.Profit,
		Status:        string(trade.Status),
		EntryTime:     trade.EntryTime,
		Comment:       stringPointerOrNil(trade.Comment),
		RawPayload:    jsonOrEmpty(trade.RawPayload),
	}
	if !trade.ExitTime.IsZero() {
		exit := trade.ExitTime
		model.ExitTime = &exit
	}
	return model
}

func (m TradeModel) toDomain() domain.Trade {
	trade := domain.Trade{
		AccountID:     m.AccountID,
		Ticket:        m.ID,
		ClientOrderID: stringValueOrEmpty(m.ClientOrderID),
		Symbol:        m.Symbol,
		Direction:     domain.Direction(m.Direction),
		Volume:        m.Volume,
		EntryPrice:    m.EntryPrice,
		ExitPrice:     m.ExitPrice,
		StopLoss:      m.StopLoss,
		TakeProfit:    m.TakeProfit,
		Profit:        m.Profit,
		Status:        domain.TradeStatus(m.Status),
		EntryTime:     m.EntryTime,
		Comment:       stringValueOrEmpty(m.Comment),
		RawPayload:    copyJSON(m.RawPayload),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ExitTime != nil {
		trade.ExitTime = *m.ExitTime
	}
	return trade
}

type AccountModel struct {
	ID             int64          `gorm:"column:id;autoIncrement"`
	AccountID      string         `gorm:"column:account_id;primaryKey"`
	Name           *string        `gorm:"column:name"`
	Currency       *string        `gorm:"column:currency"`
	Balance        float64        `gorm:"column:balance"`
	Equity         float64        `gorm:"column:equity"`
	BaselineEquity float64        `gorm:"column:baseline_equity"`
	Metadata       datatypes.JSON `gorm:"column:metadata"`
	LastSeen       time.Time      `gorm:"column:last_seen"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

func toAccountModel(account domain.Account) AccountModel {
	return AccountModel{
		AccountID:      account.AccountID,
		Name:           stringPointerOrNil(account.Name),
		Currency:       stringPointerOrNil(account.Currency),
		Balance:        account.Balance,
		Equity:         account.Equity,
		BaselineEquity: account.BaselineEquity,
		Metadata:       jsonOrEmpty(account.Metadata),
		LastSeen:       account.LastSeen,
	}
}

func (m AccountModel) toDomain() domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           stringValueOrEmpty(m.Name),
		Currency:       stringValueOrEmpty(m.Currency),
		Balance:        m.Balance,
		Equity:         m.Equity,
		BaselineEquity: m.BaselineEquity,
		Metadata:       copyJSON(m.Metadata),
		LastSeen:       m.LastSeen,
		Created:        m.CreatedAt,
		Updated:        m.UpdatedAt,
	}
}

type QuoteModel struct {
	ID        int64     `gorm:"column:id;autoIncrement"`
	Symbol    string    `gorm:"column:symbol;primaryKey"`
	Bid       float64   `gorm:"column:bid"`
	Ask       float64   `gorm:"column:ask"`
	Time      time.Time `gorm:"column:quote_time"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (QuoteModel) TableName() string {
	return "quotes"
}

func toQuoteModel(quote domain.Quote) QuoteModel {
	return QuoteModel{
		Symbol: quote.Symbol,
		Bid:    quote.Bid,
		Ask:    quote.Ask,
		Time:   quote.Time,
	}
}

func (m QuoteModel) toDomain() domain.Quote {
	return domain.Quote{
		Symbol:    m.Symbol,
		Bid:       m.Bid,
		Ask:       m.Ask,
		Time:      m.Time,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func stringPointerOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func jsonOrEmpty(data []byte) datatypes.JSON {
	if len(data) == 0 {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(append([]byte(nil), data...))
}

func copyJSON(data datatypes.JSON) []byte {
	if len(data) == 0 {
		return nil
	}
	cpy := make([]byte, len(data))
	copy(cpy, data)
	return cpy
}
