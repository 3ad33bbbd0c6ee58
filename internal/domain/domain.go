package domain

import (
	"github.com/yungbote/keywordiq-backend/internal/domain/billing"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/domain/user"
)

type (
	User = user.User

	Purchase        = billing.Purchase
	PurchaseHistory = billing.PurchaseHistory

	Channel           = seo.Channel
	Project           = seo.Project
	SearchQuery       = seo.SearchQuery
	Analysis          = seo.Analysis
	SearchAnalysisRel = seo.SearchAnalysisRel
)

const (
	ChannelYouTube      = seo.ChannelYouTube
	ChannelNews         = seo.ChannelNews
	ChannelMaps         = seo.ChannelMaps
	ChannelGoogleSearch = seo.ChannelGoogleSearch
	ChannelReddit       = seo.ChannelReddit
	ChannelCompetitor   = seo.ChannelCompetitor
)
