package seo

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrMissingNaturalKey = errors.New("analysis is missing its natural key fields")

// Analysis is one external document returned by a channel. Rows are shared by
// every project whose queries returned the same document.
type Analysis struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type       Channel   `gorm:"not null;size:32;column:type;uniqueIndex:idx_analysis_type_key,priority:1" json:"type"`
	NaturalKey string    `gorm:"not null;column:natural_key;uniqueIndex:idx_analysis_type_key,priority:2" json:"-"`

	Title       *string `gorm:"column:title" json:"title,omitempty"`
	Description *string `gorm:"column:description" json:"description,omitempty"`

	VideoID       *string    `gorm:"size:100;column:video_id" json:"video_id,omitempty"`
	VideoURL      *string    `gorm:"column:video_url" json:"video_url,omitempty"`
	ChannelTitle  *string    `gorm:"column:channel_title" json:"channel_title,omitempty"`
	PublishDate   *time.Time `gorm:"column:publish_date" json:"publish_date,omitempty"`
	ThumbnailURL  *string    `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Views         *int64     `gorm:"column:views" json:"views,omitempty"`
	LikesCount    *int64     `gorm:"column:likes_count" json:"likes_count,omitempty"`
	CommentsCount *int64     `gorm:"column:comments_count" json:"comments_count,omitempty"`
	VideoDuration *int64     `gorm:"column:video_duration" json:"video_duration,omitempty"`

	DisplayLink      *string        `gorm:"size:255;column:display_link" json:"display_link,omitempty"`
	FormattedURL     *string        `gorm:"column:formatted_url" json:"formatted_url,omitempty"`
	HTMLFormattedURL *string        `gorm:"column:html_formatted_url" json:"html_formatted_url,omitempty"`
	HTMLSnippet      *string        `gorm:"column:html_snippet" json:"html_snippet,omitempty"`
	HTMLTitle        *string        `gorm:"column:html_title" json:"html_title,omitempty"`
	Kind             *string        `gorm:"size:255;column:kind" json:"kind,omitempty"`
	Link             *string        `gorm:"column:link" json:"link,omitempty"`
	Pagemap          datatypes.JSON `gorm:"column:pagemap" json:"pagemap,omitempty"`
	Snippet          *string        `gorm:"column:snippet" json:"snippet,omitempty"`

	Address   *string  `gorm:"column:address" json:"address,omitempty"`
	MapURL    *string  `gorm:"column:map_url" json:"map_url,omitempty"`
	Name      *string  `gorm:"column:name" json:"name,omitempty"`
	Website   *string  `gorm:"column:website" json:"website,omitempty"`
	Rating    *float64 `gorm:"column:rating" json:"rating,omitempty"`
	Latitude  *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	Backlinks *string        `gorm:"column:backlinks" json:"backlinks,omitempty"`
	Keywords  datatypes.JSON `gorm:"column:keywords" json:"keywords,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Analysis) TableName() string { return "analysis" }

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ComputeNaturalKey derives the per-channel identity of a document: the video
// id for youtube, the coordinate pair for maps and the link for everything
// else.
func ComputeNaturalKey(a *Analysis) (string, error) {
	if a == nil {
		return "", ErrMissingNaturalKey
	}
	switch a.Type {
	case ChannelYouTube:
		if a.VideoID == nil || strings.TrimSpace(*a.VideoID) == "" {
			return "", ErrMissingNaturalKey
		}
		return strings.TrimSpace(*a.VideoID), nil
	case ChannelMaps:
		if a.Latitude == nil || a.Longitude == nil {
			return "", ErrMissingNaturalKey
		}
		return CoordinateKey(*a.Latitude, *a.Longitude), nil
	default:
		if a.Link == nil || strings.TrimSpace(*a.Link) == "" {
			return "", ErrMissingNaturalKey
		}
		return strings.TrimSpace(*a.Link), nil
	}
}

func CoordinateKey(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Text returns the document fields used for keyword extraction, in a stable
// order, skipping empty ones.
func (a *Analysis) Text() string {
	parts := make([]string, 0, 4)
	for _, p := range []*string{a.Title, a.Name, a.Description, a.Snippet} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}

func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
