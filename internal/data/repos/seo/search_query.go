package seo

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type SearchQueryRepo interface {
	Create(dbc dbctx.Context, q *types.SearchQuery) error
	GetByKey(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel, text string) (*types.SearchQuery, error)
	ListByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) ([]*types.SearchQuery, error)
	CountByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) (int64, error)
}

type searchQueryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchQueryRepo(db *gorm.DB, baseLog *logger.Logger) SearchQueryRepo {
	repoLog := baseLog.With("repo", "SearchQueryRepo")
	return &searchQueryRepo{db: db, log: repoLog}
}

func (r *searchQueryRepo) Create(dbc dbctx.Context, q *types.SearchQuery) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if q == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(q).Error
}

func (r *searchQueryRepo) GetByKey(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel, text string) (*types.SearchQuery, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var q types.SearchQuery
	if err := transaction.WithContext(dbc.Ctx).
		Where("seo_project_id = ? AND type = ? AND search_query = ?", projectID, channel, text).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &q, nil
}

func (r *searchQueryRepo) ListByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) ([]*types.SearchQuery, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SearchQuery
	if projectID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("seo_project_id = ? AND type = ?", projectID, channel).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *searchQueryRepo) CountByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.SearchQuery{}).
		Where("seo_project_id = ? AND type = ?", projectID, channel).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
