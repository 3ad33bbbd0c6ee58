package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchQuery struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SEOProjectID uuid.UUID `gorm:"type:uuid;not null;column:seo_project_id;uniqueIndex:idx_search_query_project_type_text,priority:1" json:"seo_project_id"`
	Project      *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SEOProjectID;references:ID" json:"-"`
	Type         Channel   `gorm:"not null;size:32;column:type;uniqueIndex:idx_search_query_project_type_text,priority:2" json:"type"`
	Query        string    `gorm:"not null;column:search_query;uniqueIndex:idx_search_query_project_type_text,priority:3" json:"search_query"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (SearchQuery) TableName() string { return "search_query" }

func (q *SearchQuery) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
