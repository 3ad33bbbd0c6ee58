package seo

import (
	"errors"

	"github.com/yungbote/keywordiq-backend/internal/clients/geoip"
	"github.com/yungbote/keywordiq-backend/internal/clients/payments"
	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/channels"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/suggestions"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

var (
	ErrNoResults       = errors.New("could not generate results")
	ErrProjectNotFound = errors.New("project not found")
)

type UsecasesDeps struct {
	Log *logger.Logger
	Tx  db.TxRunner

	Projects repos.ProjectRepo

	Locale       geoip.Resolver
	Payments     payments.Verifier
	Ledger       *ledger.Ledger
	Suggestions  *suggestions.Cache
	Orchestrator *orchestrator.Orchestrator
	Channels     *channels.Registry
}

// Usecases runs the per-channel insight pipeline and the project and credit
// operations around it.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("module", "seo")
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}
