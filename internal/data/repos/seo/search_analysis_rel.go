package seo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type SearchAnalysisRelRepo interface {
	Link(dbc dbctx.Context, searchQueryID, analysisID uuid.UUID) error
	CountBySearchQueryID(dbc dbctx.Context, searchQueryID uuid.UUID) (int64, error)
}

type searchAnalysisRelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchAnalysisRelRepo(db *gorm.DB, baseLog *logger.Logger) SearchAnalysisRelRepo {
	repoLog := baseLog.With("repo", "SearchAnalysisRelRepo")
	return &searchAnalysisRelRepo{db: db, log: repoLog}
}

func (r *searchAnalysisRelRepo) Link(dbc dbctx.Context, searchQueryID, analysisID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if searchQueryID == uuid.Nil || analysisID == uuid.Nil {
		return nil
	}

	row := &types.SearchAnalysisRel{
		SearchQueryID: searchQueryID,
		AnalysisID:    analysisID,
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "search_query_id"}, {Name: "analysis_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *searchAnalysisRelRepo) CountBySearchQueryID(dbc dbctx.Context, searchQueryID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.SearchAnalysisRel{}).
		Where("search_query_id = ?", searchQueryID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
