package billing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type PurchaseHistoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.PurchaseHistory) ([]*types.PurchaseHistory, error)
	ListByPurchaseID(dbc dbctx.Context, purchaseID uuid.UUID, limit int) ([]*types.PurchaseHistory, error)
	GetByPaymentRef(dbc dbctx.Context, ref string) (*types.PurchaseHistory, error)
}

type purchaseHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseHistoryRepo {
	repoLog := baseLog.With("repo", "PurchaseHistoryRepo")
	return &purchaseHistoryRepo{db: db, log: repoLog}
}

func (r *purchaseHistoryRepo) Create(dbc dbctx.Context, rows []*types.PurchaseHistory) ([]*types.PurchaseHistory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.PurchaseHistory{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *purchaseHistoryRepo) ListByPurchaseID(dbc dbctx.Context, purchaseID uuid.UUID, limit int) ([]*types.PurchaseHistory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PurchaseHistory
	if purchaseID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("purchase_id = ?", purchaseID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *purchaseHistoryRepo) GetByPaymentRef(dbc dbctx.Context, ref string) (*types.PurchaseHistory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if ref == "" {
		return nil, nil
	}

	var row types.PurchaseHistory
	if err := transaction.WithContext(dbc.Ctx).
		Where("payment_ref = ?", ref).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
