package seo

import "strings"

// Channel tags every search query and analysis row with the external source it
// came from.
type Channel string

const (
	ChannelYouTube      Channel = "youtube"
	ChannelNews         Channel = "news"
	ChannelMaps         Channel = "maps"
	ChannelGoogleSearch Channel = "google_search"
	ChannelReddit       Channel = "reddit"
	ChannelCompetitor   Channel = "competitor"
)

var allChannels = []Channel{
	ChannelYouTube,
	ChannelNews,
	ChannelMaps,
	ChannelGoogleSearch,
	ChannelReddit,
	ChannelCompetitor,
}

func Channels() []Channel {
	out := make([]Channel, len(allChannels))
	copy(out, allChannels)
	return out
}

func (c Channel) Valid() bool {
	for _, v := range allChannels {
		if v == c {
			return true
		}
	}
	return false
}

func (c Channel) String() string { return string(c) }

func ParseChannel(s string) (Channel, bool) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}
