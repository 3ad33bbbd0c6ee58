package channels

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/clustering"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	placesPerQuery = 20
	mapsTopTerms   = 10
)

type mapsStrategy struct {
	log    *logger.Logger
	gen    *Generator
	places google.PlaceSearcher
	rates  ledger.Rates
	guard  *Guard
}

func (s *mapsStrategy) Channel() types.Channel { return types.ChannelMaps }

func (s *mapsStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return s.gen.Queries(ctx, tc, p, FallbackQuery(p))
}

func (s *mapsStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	return orchestrator.FetcherFunc(func(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
		var places []google.Place
		err := s.guard.Do(ctx, func(ctx context.Context) error {
			var err error
			places, err = s.places.SearchPlaces(ctx, query, placesPerQuery)
			return err
		})
		cost := s.rates.PlacesCall
		if err != nil {
			return nil, cost, err
		}
		out := make([]*types.Analysis, 0, len(places))
		for _, pl := range places {
			lat, lng := pl.Latitude, pl.Longitude
			a := &types.Analysis{
				Name:      seo.StrPtr(pl.Name),
				Title:     seo.StrPtr(pl.Name),
				Address:   seo.StrPtr(pl.Address),
				MapURL:    seo.StrPtr(pl.MapURL),
				Website:   seo.StrPtr(pl.Website),
				Rating:    pl.Rating,
				Latitude:  &lat,
				Longitude: &lng,
			}
			if len(pl.Types) > 0 {
				a.Keywords = jsonOf(pl.Types)
			}
			out = append(out, a)
		}
		return out, cost, nil
	})
}

// Extract ranks the terms of place names and categories and appends each
// place's name and address. Coordinates are clustered over every fetched
// occurrence, so a place returned by several queries weighs accordingly.
func (s *mapsStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	parts := make([]string, 0, len(docs)*2)
	for _, d := range docs {
		parts = append(parts, seo.StrVal(d.Name))
		var cats []string
		if len(d.Keywords) > 0 && json.Unmarshal(d.Keywords, &cats) == nil {
			for _, c := range cats {
				parts = append(parts, strings.ReplaceAll(c, "_", " "))
			}
		}
	}

	occurrences := res.Fetched
	if len(occurrences) == 0 {
		occurrences = docs
	}
	points := make([]clustering.GeoPoint, 0, len(occurrences))
	for _, d := range occurrences {
		if d.Latitude != nil && d.Longitude != nil {
			points = append(points, clustering.GeoPoint{Name: seo.StrVal(d.Name), Latitude: *d.Latitude, Longitude: *d.Longitude})
		}
	}

	keywords := make([]string, 0)
	seen := map[string]struct{}{}
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}
	for _, t := range extraction.Terms(extraction.Frequency(strings.Join(parts, " "), mapsTopTerms)) {
		add(t)
	}
	for _, d := range docs {
		add(seo.StrVal(d.Name))
		add(seo.StrVal(d.Address))
	}

	_, geo := clustering.Geo(points)
	return seo.MapsSuggestion{
		V:               seo.SuggestionVersion,
		Keywords:        keywords,
		GeoDistribution: geo,
	}, nil
}
