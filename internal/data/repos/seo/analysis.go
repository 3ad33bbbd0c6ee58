package seo

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type AnalysisRepo interface {
	Create(dbc dbctx.Context, a *types.Analysis) error
	GetByNaturalKey(dbc dbctx.Context, channel types.Channel, key string) (*types.Analysis, error)
	// Overwrite replaces every non-key column of the row identified by id with
	// the values in a, and leaves a carrying that id.
	Overwrite(dbc dbctx.Context, id uuid.UUID, a *types.Analysis) error
	ListByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) ([]*types.Analysis, error)
	CountByChannel(dbc dbctx.Context, channel types.Channel) (int64, error)
}

type analysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
	repoLog := baseLog.With("repo", "AnalysisRepo")
	return &analysisRepo{db: db, log: repoLog}
}

func (r *analysisRepo) Create(dbc dbctx.Context, a *types.Analysis) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if a == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(a).Error
}

func (r *analysisRepo) GetByNaturalKey(dbc dbctx.Context, channel types.Channel, key string) (*types.Analysis, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var a types.Analysis
	if err := transaction.WithContext(dbc.Ctx).
		Where("type = ? AND natural_key = ?", channel, key).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

func (r *analysisRepo) Overwrite(dbc dbctx.Context, id uuid.UUID, a *types.Analysis) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if a == nil || id == uuid.Nil {
		return nil
	}

	a.ID = id
	return transaction.WithContext(dbc.Ctx).
		Model(a).
		Select("*").
		Omit("id", "type", "natural_key", "created_at").
		Updates(a).Error
}

func (r *analysisRepo) ListByProjectChannel(dbc dbctx.Context, projectID uuid.UUID, channel types.Channel) ([]*types.Analysis, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Analysis
	if projectID == uuid.Nil {
		return results, nil
	}

	linked := transaction.WithContext(dbc.Ctx).
		Table("search_analysis_rel").
		Select("search_analysis_rel.analysis_id").
		Joins("JOIN search_query ON search_query.id = search_analysis_rel.search_query_id").
		Where("search_query.seo_project_id = ? AND search_query.type = ?", projectID, channel)

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN (?)", linked).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analysisRepo) CountByChannel(dbc dbctx.Context, channel types.Channel) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Analysis{}).
		Where("type = ?", channel).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
