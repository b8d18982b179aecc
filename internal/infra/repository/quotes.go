package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propdesk_server/internal/domain"
)

type GormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) (*GormQuoteRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormQuoteRepository{db: db}, nil
}

func (r *GormQuoteRepository) UpsertQuotes(ctx context.Context, quotes []domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	models := make([]QuoteModel, len(quotes))
	for i, q := range quotes {
		models[i] = toQuoteModel(q)
	}

	assignments := clause.Assignments(map[string]interface{}{
		"bid":        gorm.Expr("EXCLUDED.bid"),
		"ask":        gorm.Expr("EXCLUDED.ask"),
		"quote_time": gorm.Expr("EXCLUDED.quote_time"),
		"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	})

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: assignments,
		}).
		Create(&models).Error
}

func (r *GormQuoteRepository) ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	var models []QuoteModel
	query := r.db.WithContext(ctx).Order("symbol ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, len(models))
	for i, model := range models {
		quotes[i] = model.toDomain()
	}
	return quotes, nil
}

func (r *GormQuoteRepository) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var model QuoteModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Quote{}, domain.ErrQuoteNotFound
	}
	if err != nil {
		return domain.Quote{}, err
	}
	return model.toDomain(), nil
}
