package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// Video is a search hit joined with its statistics.
type Video struct {
	ID              string
	Title           string
	Description     string
	ChannelTitle    string
	PublishedAt     *time.Time
	ThumbnailURL    string
	Tags            []string
	Views           int64
	Likes           int64
	Comments        int64
	DurationSeconds int64
}

func (v Video) URL() string { return "https://www.youtube.com/watch?v=" + v.ID }

type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, max int64) ([]Video, error)
}

type videoSearcher struct {
	log *logger.Logger
	svc *youtube.Service
}

func NewVideoSearcher(ctx context.Context, log *logger.Logger, apiKey string, extra ...option.ClientOption) (VideoSearcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}
	return &videoSearcher{log: log.With("client", "YouTubeSearcher"), svc: svc}, nil
}

func (s *videoSearcher) SearchVideos(ctx context.Context, query string, max int64) ([]Video, error) {
	if max <= 0 || max > 50 {
		max = 10
	}
	res, err := s.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	videos := make([]Video, 0, len(res.Items))
	index := make(map[string]int, len(res.Items))
	for _, it := range res.Items {
		if it == nil || it.Id == nil || it.Id.VideoId == "" {
			continue
		}
		v := Video{ID: it.Id.VideoId}
		if sn := it.Snippet; sn != nil {
			v.Title = sn.Title
			v.Description = sn.Description
			v.ChannelTitle = sn.ChannelTitle
			if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
				v.PublishedAt = &t
			}
			if th := sn.Thumbnails; th != nil {
				switch {
				case th.High != nil:
					v.ThumbnailURL = th.High.Url
				case th.Default != nil:
					v.ThumbnailURL = th.Default.Url
				}
			}
		}
		index[v.ID] = len(videos)
		videos = append(videos, v)
	}
	if len(videos) == 0 {
		return videos, nil
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	stats, err := s.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}
	for _, it := range stats.Items {
		i, ok := index[it.Id]
		if !ok {
			continue
		}
		if st := it.Statistics; st != nil {
			videos[i].Views = int64(st.ViewCount)
			videos[i].Likes = int64(st.LikeCount)
			videos[i].Comments = int64(st.CommentCount)
		}
		if cd := it.ContentDetails; cd != nil {
			if d, err := ParseISO8601Duration(cd.Duration); err == nil {
				videos[i].DurationSeconds = int64(d / time.Second)
			}
		}
		if sn := it.Snippet; sn != nil {
			videos[i].Tags = sn.Tags
			if sn.Description != "" {
				videos[i].Description = sn.Description
			}
		}
	}
	return videos, nil
}
