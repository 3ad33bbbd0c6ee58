package domain

import (
	"testing"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

func TestChannelConstantsMatchSEO(t *testing.T) {
	got := []Channel{ChannelYouTube, ChannelNews, ChannelMaps, ChannelGoogleSearch, ChannelReddit, ChannelCompetitor}
	want := seo.Channels()
	if len(got) != len(want) {
		t.Fatalf("got %d channels want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] || !got[i].Valid() {
			t.Fatalf("channel %d: got=%q want=%q", i, got[i], want[i])
		}
	}
}
