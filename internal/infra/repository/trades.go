package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"propdesk_server/internal/domain"
)

type GormTradeRepository struct {
	db *gorm.DB
}

func NewGormTradeRepository(db *gorm.DB) (*GormTradeRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormTradeRepository{db: db}, nil
}

// InsertTrade stores a new trade and returns the assigned ticket.
func (r *GormTradeRepository) InsertTrade(ctx context.Context, trade domain.Trade) (int64, error) {
	model := toTradeModel(trade)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, err
	}
	return model.ID, nil
}

func (r *GormTradeRepository) GetTrade(ctx context.Context, accountID string, ticket int64) (domain.Trade, error) {
	var model TradeModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, ticket).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Trade{}, domain.ErrTradeNotFound
	}
	if err != nil {
		return domain.Trade{}, err
	}
	return model.toDomain(), nil
}

func (r *GormTradeRepository) CloseTrade(ctx context.Context, accountID string, ticket int64, exitPrice, profit float64, status domain.TradeStatus, exitTime time.Time) error {
	result := r.db.WithContext(ctx).Model(&TradeModel{}).
		Where("account_id = ? AND id = ?", accountID, ticket).
		Updates(map[string]interface{}{
			"exit_price": exitPrice,
			"profit":     profit,
			"status":     string(status),
			"exit_time":  exitTime,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (r *GormTradeRepository) ListTrades(ctx context.Context, accountID string, limit int) ([]domain.Trade, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("entry_time DESC"), limit)
}

func (r *GormTradeRepository) ListOpenTrades(ctx context.Context, accountID string) ([]domain.Trade, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("account_id = ? AND status = ?", accountID, domain.TradeStatusOpen).
		Order("entry_time DESC"), 0)
}

func (r *GormTradeRepository) ListClosedTrades(ctx context.Context, accountID string, limit int) ([]domain.Trade, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("account_id = ? AND status <> ?", accountID, domain.TradeStatusOpen).
		Order("exit_time ASC"), limit)
}

func (r *GormTradeRepository) list(_ context.Context, query *gorm.DB, limit int) ([]domain.Trade, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []TradeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	trades := make([]domain.Trade, len(models))
	for i, model := range models {
		trades[i] = model.toDomain()
	}
	return trades, nil
}
