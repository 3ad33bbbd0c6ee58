package seo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type ProjectRepo interface {
	Create(dbc dbctx.Context, projects []*types.Project) ([]*types.Project, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Project, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Project, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Project, error)
	// SetSuggestionIfUnset writes raw into the channel's column only while it
	// is still NULL. It reports whether this call populated it.
	SetSuggestionIfUnset(dbc dbctx.Context, id uuid.UUID, channel types.Channel, raw datatypes.JSON) (bool, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (r *projectRepo) Create(dbc dbctx.Context, projects []*types.Project) ([]*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(projects) == 0 {
		return []*types.Project{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var p types.Project
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *projectRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}

	var p types.Project
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *projectRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Project

	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *projectRepo) SetSuggestionIfUnset(dbc dbctx.Context, id uuid.UUID, channel types.Channel, raw datatypes.JSON) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	column := domainseo.SuggestionColumn(channel)
	if column == "" {
		return false, fmt.Errorf("no suggestion column for channel %q", channel)
	}
	if id == uuid.Nil || len(raw) == 0 {
		return false, nil
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Project{}).
		Where("id = ? AND "+column+" IS NULL", id).
		Update(column, raw)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
