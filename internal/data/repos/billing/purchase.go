package billing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type PurchaseRepo interface {
	// CreateIfMissing inserts a balance row for the user unless one exists and
	// returns the stored row.
	CreateIfMissing(dbc dbctx.Context, userID uuid.UUID, points int) (*types.Purchase, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Purchase, error)
	// DebitIfSufficient subtracts points only when the balance covers them. It
	// reports false, with no change, otherwise.
	DebitIfSufficient(dbc dbctx.Context, userID uuid.UUID, points int) (bool, error)
	Credit(dbc dbctx.Context, userID uuid.UUID, points int) error
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	repoLog := baseLog.With("repo", "PurchaseRepo")
	return &purchaseRepo{db: db, log: repoLog}
}

func (r *purchaseRepo) CreateIfMissing(dbc dbctx.Context, userID uuid.UUID, points int) (*types.Purchase, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, errors.New("missing user id")
	}

	row := &types.Purchase{UserID: userID, Points: points}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	return r.GetByUserID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, userID)
}

func (r *purchaseRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Purchase, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var p types.Purchase
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *purchaseRepo) DebitIfSufficient(dbc dbctx.Context, userID uuid.UUID, points int) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if points <= 0 {
		return true, nil
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Purchase{}).
		Where("user_id = ? AND points >= ?", userID, points).
		Update("points", gorm.Expr("points - ?", points))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

func (r *purchaseRepo) Credit(dbc dbctx.Context, userID uuid.UUID, points int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if points <= 0 {
		return nil
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Purchase{}).
		Where("user_id = ?", userID).
		Update("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
