package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propdesk_server/internal/domain"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) (*GormAccountRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormAccountRepository{db: db}, nil
}

func (r *GormAccountRepository) UpsertAccount(ctx context.Context, account domain.Account) error {
	model := toAccountModel(account)

	assignments := clause.Assignments(map[string]interface{}{
		"name":            gorm.Expr("EXCLUDED.name"),
		"currency":        gorm.Expr("EXCLUDED.currency"),
		"balance":         gorm.Expr("EXCLUDED.balance"),
		"equity":          gorm.Expr("EXCLUDED.equity"),
		"baseline_equity": gorm.Expr("EXCLUDED.baseline_equity"),
		"metadata":        gorm.Expr("EXCLUDED.metadata"),
		"last_seen":       gorm.Expr("EXCLUDED.last_seen"),
		"updated_at":      gorm.Expr("CURRENT_TIMESTAMP"),
	})

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: assignments,
		}).
		Create(&model).Error
}

func (r *GormAccountRepository) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return model.toDomain(), nil
}

func (r *GormAccountRepository) ListAccounts(ctx context.Context, limit int) ([]domain.Account, error) {
	var models []AccountModel
	query := r.db.WithContext(ctx).Order("last_seen DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, len(models))
	for i, model := range models {
		accounts[i] = model.toDomain()
	}
	return accounts, nil
}
