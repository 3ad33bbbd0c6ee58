package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

var (
	ErrUnknownChannel     = errors.New("unknown suggestion channel")
	ErrUnsupportedVersion = errors.New("unsupported suggestion version")
)

// Encode serializes a suggestion, stamping the current version when unset.
func Encode(s seo.Suggestion) (datatypes.JSON, error) {
	if s == nil {
		return nil, errors.New("nil suggestion")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s suggestion: %w", s.Channel(), err)
	}
	return datatypes.JSON(b), nil
}

// Decode parses raw as the typed record for c. Documents written before
// versioning (v missing) are read as the current version.
func Decode(c types.Channel, raw datatypes.JSON) (seo.Suggestion, error) {
	var (
		s   seo.Suggestion
		err error
	)
	switch c {
	case types.ChannelYouTube:
		var v seo.YouTubeSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	case types.ChannelNews:
		var v seo.NewsSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	case types.ChannelMaps:
		var v seo.MapsSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	case types.ChannelGoogleSearch:
		var v seo.SearchSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	case types.ChannelCompetitor:
		var v seo.CompetitorSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	case types.ChannelReddit:
		var v seo.ForumSuggestion
		err = json.Unmarshal(raw, &v)
		v.V = normalizeVersion(v.V)
		s = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, c)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s suggestion: %w", c, err)
	}
	if s.Version() > seo.SuggestionVersion {
		return nil, fmt.Errorf("%w: %s v%d", ErrUnsupportedVersion, c, s.Version())
	}
	return s, nil
}

func normalizeVersion(v int) int {
	if v <= 0 {
		return seo.SuggestionVersion
	}
	return v
}

// Hit is a cached suggestion together with the documents behind it.
type Hit struct {
	Suggestion seo.Suggestion
	Documents  []*types.Analysis
}

// Cache reads and writes the per-channel suggestion stored on a project.
// Entries never expire.
type Cache struct {
	log      *logger.Logger
	projects repos.ProjectRepo
	analyses repos.AnalysisRepo
}

func New(log *logger.Logger, projects repos.ProjectRepo, analyses repos.AnalysisRepo) *Cache {
	return &Cache{log: log.With("service", "SuggestionCache"), projects: projects, analyses: analyses}
}

// Lookup returns the cached suggestion for channel, or nil on a miss. It only
// reads the relational store.
func (c *Cache) Lookup(ctx context.Context, p *types.Project, channel types.Channel) (*Hit, error) {
	raw := p.Suggestion(channel)
	if raw == nil {
		observability.Current().IncSuggestionCache(string(channel), false)
		return nil, nil
	}
	s, err := Decode(channel, raw)
	if err != nil {
		return nil, err
	}
	docs, err := c.analyses.ListByProjectChannel(dbctx.Context{Ctx: ctx}, p.ID, channel)
	if err != nil {
		return nil, fmt.Errorf("load cached documents: %w", err)
	}
	observability.Current().IncSuggestionCache(string(channel), true)
	c.log.Debug("Suggestion cache hit", "project_id", p.ID, "channel", channel, "documents", len(docs))
	return &Hit{Suggestion: s, Documents: docs}, nil
}

// Store writes s onto the project only if the channel's slot is still empty.
// It reports whether this call populated it.
func (c *Cache) Store(dbc dbctx.Context, projectID uuid.UUID, s seo.Suggestion) (bool, error) {
	raw, err := Encode(s)
	if err != nil {
		return false, err
	}
	return c.projects.SetSuggestionIfUnset(dbc, projectID, s.Channel(), raw)
}
