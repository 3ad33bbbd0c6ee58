package dedup

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const maxAttempts = 3

// Cache makes search queries, analyses and their links idempotent. It runs
// outside any caller transaction: a unique violation inside a Postgres
// transaction would abort it, and the look-up-then-insert retry relies on
// reading the winner's row afterwards.
type Cache struct {
	log      *logger.Logger
	queries  repos.SearchQueryRepo
	analyses repos.AnalysisRepo
	rels     repos.SearchAnalysisRelRepo
}

func New(log *logger.Logger, queries repos.SearchQueryRepo, analyses repos.AnalysisRepo, rels repos.SearchAnalysisRelRepo) *Cache {
	return &Cache{
		log:      log.With("service", "DedupCache"),
		queries:  queries,
		analyses: analyses,
		rels:     rels,
	}
}

// GetOrCreateSearchQuery returns the (project, channel, text) row, creating it
// if needed. Concurrent callers for the same key all get the same row.
func (c *Cache) GetOrCreateSearchQuery(ctx context.Context, projectID uuid.UUID, channel types.Channel, text string) (*types.SearchQuery, error) {
	text = strings.TrimSpace(text)
	if projectID == uuid.Nil || text == "" {
		return nil, fmt.Errorf("search query needs a project and text")
	}
	dbc := dbctx.Context{Ctx: ctx}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		existing, err := c.queries.GetByKey(dbc, projectID, channel, text)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		row := &types.SearchQuery{SEOProjectID: projectID, Type: channel, Query: text}
		err = c.queries.Create(dbc, row)
		if err == nil {
			return row, nil
		}
		if !db.IsDuplicateKey(err) {
			return nil, err
		}
		c.log.Debug("Search query insert lost race; re-reading", "channel", channel, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("search query %q: gave up after %d attempts", text, maxAttempts)
}

// GetOrCreateAnalysis stores payload under its natural key. The first writer
// creates the row; later writers overwrite its non-key fields. The returned
// row carries the stored id.
func (c *Cache) GetOrCreateAnalysis(ctx context.Context, payload *types.Analysis) (*types.Analysis, error) {
	if payload == nil {
		return nil, fmt.Errorf("nil analysis")
	}
	row := *payload
	key, err := domainseo.ComputeNaturalKey(&row)
	if err != nil {
		return nil, err
	}
	row.NaturalKey = key

	dbc := dbctx.Context{Ctx: ctx}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		existing, err := c.analyses.GetByNaturalKey(dbc, row.Type, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			row.CreatedAt = existing.CreatedAt
			if err := c.analyses.Overwrite(dbc, existing.ID, &row); err != nil {
				return nil, err
			}
			return &row, nil
		}
		row.ID = uuid.Nil
		err = c.analyses.Create(dbc, &row)
		if err == nil {
			return &row, nil
		}
		if !db.IsDuplicateKey(err) {
			return nil, err
		}
		c.log.Debug("Analysis insert lost race; re-reading", "channel", row.Type, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("analysis %s/%s: gave up after %d attempts", row.Type, key, maxAttempts)
}

// Link relates a query to an analysis; linking twice is a no-op.
func (c *Cache) Link(ctx context.Context, q *types.SearchQuery, a *types.Analysis) error {
	if q == nil || a == nil || q.ID == uuid.Nil || a.ID == uuid.Nil {
		return fmt.Errorf("link needs stored query and analysis")
	}
	return c.rels.Link(dbctx.Context{Ctx: ctx}, q.ID, a.ID)
}
