package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchAnalysisRel struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SearchQueryID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_search_analysis_rel_pair,priority:1" json:"search_query_id"`
	SearchQuery   *SearchQuery `gorm:"constraint:OnDelete:CASCADE;foreignKey:SearchQueryID;references:ID" json:"-"`
	AnalysisID    uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_search_analysis_rel_pair,priority:2" json:"analysis_id"`
	Analysis      *Analysis    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"-"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (SearchAnalysisRel) TableName() string { return "search_analysis_rel" }

func (r *SearchAnalysisRel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
