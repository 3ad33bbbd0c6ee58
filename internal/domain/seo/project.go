package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/keywordiq-backend/internal/domain/user"
)

type Project struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	User           *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	BusinessType   string         `gorm:"not null;size:100;column:business_type" json:"business_type"`
	TargetAudience string         `gorm:"not null;size:100;column:target_audience" json:"target_audience"`
	Industry       string         `gorm:"not null;size:100;column:industry" json:"industry"`
	Goals          datatypes.JSON `gorm:"column:goals" json:"goals"`
	Country        string         `gorm:"size:100;column:country" json:"country"`
	CountryCode    string         `gorm:"size:8;column:country_code" json:"country_code"`
	UserIP         string         `gorm:"size:50;column:user_ip" json:"-"`

	YouTubeSuggestions    datatypes.JSON `gorm:"column:youtube_suggestions" json:"youtube_suggestions,omitempty"`
	NewsSuggestions       datatypes.JSON `gorm:"column:news_suggestions" json:"news_suggestions,omitempty"`
	MapsSuggestions       datatypes.JSON `gorm:"column:maps_suggestions" json:"maps_suggestions,omitempty"`
	CompetitionSuggestion datatypes.JSON `gorm:"column:competition_suggestion" json:"competition_suggestion,omitempty"`
	SearchSuggestion      datatypes.JSON `gorm:"column:search_suggestion" json:"search_suggestion,omitempty"`
	ForumSuggestion       datatypes.JSON `gorm:"column:forum_suggestion" json:"forum_suggestion,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "seo_project" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SuggestionColumn is the seo_project column that caches a channel's result.
func SuggestionColumn(c Channel) string {
	switch c {
	case ChannelYouTube:
		return "youtube_suggestions"
	case ChannelNews:
		return "news_suggestions"
	case ChannelMaps:
		return "maps_suggestions"
	case ChannelCompetitor:
		return "competition_suggestion"
	case ChannelGoogleSearch:
		return "search_suggestion"
	case ChannelReddit:
		return "forum_suggestion"
	default:
		return ""
	}
}

// Suggestion returns the raw cached document for c, or nil when unset.
func (p *Project) Suggestion(c Channel) datatypes.JSON {
	var raw datatypes.JSON
	switch c {
	case ChannelYouTube:
		raw = p.YouTubeSuggestions
	case ChannelNews:
		raw = p.NewsSuggestions
	case ChannelMaps:
		raw = p.MapsSuggestions
	case ChannelCompetitor:
		raw = p.CompetitionSuggestion
	case ChannelGoogleSearch:
		raw = p.SearchSuggestion
	case ChannelReddit:
		raw = p.ForumSuggestion
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

func (p *Project) HasSuggestion(c Channel) bool { return p.Suggestion(c) != nil }
