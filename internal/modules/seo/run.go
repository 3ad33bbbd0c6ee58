package seo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
)

type RunChannelInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Channel   types.Channel
}

type RunChannelOutput struct {
	Channel       types.Channel        `json:"channel"`
	Cached        bool                 `json:"cached"`
	Suggestion    domainseo.Suggestion `json:"suggestion"`
	Documents     []*types.Analysis    `json:"data"`
	PointsDebited int                  `json:"points_debited"`
}

var errAlreadyStored = errors.New("suggestion already stored")

// RunChannel produces the channel's suggestion for a project. A cached
// suggestion is returned without external calls or debit. Otherwise the
// channel's queries are fanned out, the stored documents are analysed, and
// the debit and the suggestion are committed together.
func (u Usecases) RunChannel(ctx context.Context, in RunChannelInput) (*RunChannelOutput, error) {
	if !in.Channel.Valid() {
		return nil, apierr.BadRequest("invalid_channel", fmt.Errorf("unknown channel %q", in.Channel))
	}
	strategy, ok := u.deps.Channels.Get(in.Channel)
	if !ok {
		return nil, apierr.New(http.StatusServiceUnavailable, "channel_unavailable", fmt.Errorf("channel %s is not configured", in.Channel))
	}
	p, err := u.loadProject(ctx, in.UserID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	log := u.deps.Log.With("project_id", p.ID, "user_id", in.UserID, "channel", in.Channel)

	ok, handle, err := u.deps.Ledger.HasSufficientBalance(ctx, in.UserID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "credit_check_failed", err)
	}
	if !ok {
		return nil, apierr.New(http.StatusPaymentRequired, "insufficient_credit", ledger.ErrInsufficientCredit)
	}
	defer handle.Release()

	// A run that held the lease before us may have stored the suggestion.
	if p, err = u.loadProject(ctx, in.UserID, in.ProjectID); err != nil {
		return nil, err
	}
	if out, err := u.cached(ctx, p, in.Channel); err != nil || out != nil {
		return out, err
	}

	tc := orchestrator.NewTaskContext(p.ID, in.UserID, in.Channel, handle.Cost)
	queries := strategy.Queries(ctx, tc, p)
	if len(queries) == 0 {
		return nil, apierr.New(http.StatusBadGateway, "channel_no_results", ErrNoResults)
	}
	res := u.deps.Orchestrator.Run(ctx, tc, queries, strategy.Fetcher(tc, p))
	if len(res.Documents) == 0 {
		log.Warn("Channel produced no documents", "queries", len(queries), "failed", res.Failed)
		return nil, apierr.New(http.StatusBadGateway, "channel_no_results", ErrNoResults)
	}

	suggestion, err := strategy.Extract(ctx, tc, p, res)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "extract_failed", err)
	}

	var points int
	err = u.deps.Tx.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		points, err = u.deps.Ledger.Settle(dbc, handle, ledger.Charge{ProjectID: &p.ID, Channel: string(in.Channel)})
		if err != nil {
			return err
		}
		stored, err := u.deps.Suggestions.Store(dbc, p.ID, suggestion)
		if err != nil {
			return err
		}
		if !stored {
			return errAlreadyStored
		}
		return nil
	})
	switch {
	case errors.Is(err, ledger.ErrInsufficientCredit):
		return nil, apierr.New(http.StatusPaymentRequired, "insufficient_credit", err)
	case errors.Is(err, errAlreadyStored):
		// Another run for this project won; serve its result without charging.
		log.Info("Suggestion stored concurrently, serving existing one")
		fresh, err := u.loadProject(ctx, in.UserID, in.ProjectID)
		if err != nil {
			return nil, err
		}
		if out, err := u.cached(ctx, fresh, in.Channel); err != nil || out != nil {
			return out, err
		}
		return nil, apierr.New(http.StatusInternalServerError, "suggestion_store_failed", errAlreadyStored)
	case err != nil:
		return nil, apierr.New(http.StatusInternalServerError, "settle_failed", err)
	}

	log.Info("Channel run complete",
		"queries", len(queries),
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"documents", len(res.Documents),
		"points", points,
	)
	return &RunChannelOutput{
		Channel:       in.Channel,
		Suggestion:    suggestion,
		Documents:     res.Documents,
		PointsDebited: points,
	}, nil
}

func (u Usecases) cached(ctx context.Context, p *types.Project, channel types.Channel) (*RunChannelOutput, error) {
	hit, err := u.deps.Suggestions.Lookup(ctx, p, channel)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "suggestion_lookup_failed", err)
	}
	if hit == nil {
		return nil, nil
	}
	return &RunChannelOutput{
		Channel:    channel,
		Cached:     true,
		Suggestion: hit.Suggestion,
		Documents:  hit.Documents,
	}, nil
}
