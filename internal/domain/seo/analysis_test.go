package seo

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestComputeNaturalKey(t *testing.T) {
	lat, lng := 40.7128, -74.006
	cases := []struct {
		name string
		a    *Analysis
		want string
		err  bool
	}{
		{"video", &Analysis{Type: ChannelYouTube, VideoID: StrPtr(" abc123 ")}, "abc123", false},
		{"video missing", &Analysis{Type: ChannelYouTube}, "", true},
		{"maps", &Analysis{Type: ChannelMaps, Latitude: &lat, Longitude: &lng}, "40.7128,-74.006", false},
		{"maps missing lng", &Analysis{Type: ChannelMaps, Latitude: &lat}, "", true},
		{"news", &Analysis{Type: ChannelNews, Link: StrPtr("https://a.example/x")}, "https://a.example/x", false},
		{"forum", &Analysis{Type: ChannelReddit, Link: StrPtr("https://reddit.com/r/x/1")}, "https://reddit.com/r/x/1", false},
		{"search missing link", &Analysis{Type: ChannelGoogleSearch}, "", true},
		{"nil", nil, "", true},
	}
	for _, tc := range cases {
		got, err := ComputeNaturalKey(tc.a)
		if tc.err {
			if !errors.Is(err, ErrMissingNaturalKey) {
				t.Fatalf("%s: expected ErrMissingNaturalKey, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestProjectSuggestionPresence(t *testing.T) {
	p := &Project{}
	if p.HasSuggestion(ChannelMaps) {
		t.Fatal("empty project should not have a maps suggestion")
	}
	p.MapsSuggestions = datatypes.JSON([]byte("null"))
	if p.HasSuggestion(ChannelMaps) {
		t.Fatal("JSON null should count as unset")
	}
	p.MapsSuggestions = datatypes.JSON([]byte(`{"v":1}`))
	if !p.HasSuggestion(ChannelMaps) {
		t.Fatal("expected maps suggestion")
	}
	if p.HasSuggestion(ChannelNews) {
		t.Fatal("news should be independent of maps")
	}
	for _, c := range Channels() {
		if SuggestionColumn(c) == "" {
			t.Fatalf("channel %s has no suggestion column", c)
		}
	}
}

func TestParseChannel(t *testing.T) {
	if c, ok := ParseChannel(" YouTube "); !ok || c != ChannelYouTube {
		t.Fatalf("ParseChannel: got=%q ok=%v", c, ok)
	}
	if _, ok := ParseChannel("tiktok"); ok {
		t.Fatal("unknown channel accepted")
	}
}
