package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type Place struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Website   string
	MapURL    string
	Rating    *float64
	Types     []string
}

type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query string, max int64) ([]Place, error)
}

const placeFieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
	"places.websiteUri,places.googleMapsUri,places.rating,places.types"

type placeSearcher struct {
	log *logger.Logger
	svc *places.Service
}

func NewPlaceSearcher(ctx context.Context, log *logger.Logger, apiKey string, extra ...option.ClientOption) (PlaceSearcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing GOOGLE_SEARCH_API_KEY_FOR_PLACES")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	svc, err := places.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("places: %w", err)
	}
	return &placeSearcher{log: log.With("client", "GooglePlaceSearcher"), svc: svc}, nil
}

func (s *placeSearcher) SearchPlaces(ctx context.Context, query string, max int64) ([]Place, error) {
	if max <= 0 || max > 20 {
		max = 20
	}
	req := &places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      query,
		MaxResultCount: max,
	}
	res, err := s.svc.Places.SearchText(req).
		Fields(googleapi.Field(placeFieldMask)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("places search text: %w", err)
	}

	out := make([]Place, 0, len(res.Places))
	for _, p := range res.Places {
		// Places without coordinates cannot be keyed or clustered.
		if p == nil || p.Location == nil {
			continue
		}
		pl := Place{
			ID:        p.Id,
			Address:   p.FormattedAddress,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Website:   p.WebsiteUri,
			MapURL:    p.GoogleMapsUri,
			Types:     p.Types,
		}
		if p.DisplayName != nil {
			pl.Name = p.DisplayName.Text
		}
		if p.Rating > 0 {
			r := p.Rating
			pl.Rating = &r
		}
		out = append(out, pl)
	}
	s.log.Debug("Places search completed", "results", len(out))
	return out, nil
}
