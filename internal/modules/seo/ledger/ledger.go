package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainbilling "github.com/yungbote/keywordiq-backend/internal/domain/billing"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

var (
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrPaymentApplied     = errors.New("payment already applied")
)

// Handle is held from a successful pre-flight until the run settles. Release
// must be called exactly once it is no longer needed; extra calls are no-ops.
type Handle struct {
	UserID uuid.UUID
	Cost   *CostAccumulator

	release func()
	once    sync.Once
}

func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.release != nil {
			h.release()
		}
	})
}

// Charge records what a run cost and why.
type Charge struct {
	ProjectID *uuid.UUID
	Channel   string
}

type Ledger struct {
	log        *logger.Logger
	purchases  repos.PurchaseRepo
	history    repos.PurchaseHistoryRepo
	leaser     Leaser
	minBalance int
}

func New(log *logger.Logger, purchases repos.PurchaseRepo, history repos.PurchaseHistoryRepo, leaser Leaser) *Ledger {
	if leaser == nil {
		leaser = NewLocalLeaser()
	}
	return &Ledger{
		log:        log.With("service", "CreditLedger"),
		purchases:  purchases,
		history:    history,
		leaser:     leaser,
		minBalance: 1,
	}
}

// HasSufficientBalance takes the user's lease and checks the balance. On
// success the lease stays held by the returned handle; otherwise it is
// released before returning.
func (l *Ledger) HasSufficientBalance(ctx context.Context, userID uuid.UUID) (bool, *Handle, error) {
	release, err := l.leaser.Acquire(ctx, userID)
	if err != nil {
		return false, nil, fmt.Errorf("acquire ledger lease: %w", err)
	}
	p, err := l.purchases.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		release()
		return false, nil, err
	}
	if p == nil || p.Points < l.minBalance {
		release()
		observability.Current().IncCreditRejected()
		return false, nil, nil
	}
	return true, &Handle{UserID: userID, Cost: NewCostAccumulator(), release: release}, nil
}

// Settle debits ceil(cost*100) points inside dbc's transaction and records
// the history row. It returns ErrInsufficientCredit, leaving the balance
// untouched, when the balance no longer covers the debit.
func (l *Ledger) Settle(dbc dbctx.Context, h *Handle, charge Charge) (int, error) {
	if h == nil {
		return 0, errors.New("nil ledger handle")
	}
	points := Points(h.Cost.Total())
	if points == 0 {
		return 0, nil
	}
	ok, err := l.purchases.DebitIfSufficient(dbc, h.UserID, points)
	if err != nil {
		return 0, err
	}
	if !ok {
		observability.Current().IncCreditRejected()
		return 0, ErrInsufficientCredit
	}
	p, err := l.purchases.GetByUserID(dbc, h.UserID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, ErrInsufficientCredit
	}
	if _, err := l.history.Create(dbc, []*types.PurchaseHistory{{
		PurchaseID: p.ID,
		Amount:     float64(points),
		Kind:       domainbilling.KindDebit,
		Reason:     domainbilling.ReasonChannel,
		ProjectID:  charge.ProjectID,
		Channel:    strPtr(charge.Channel),
	}}); err != nil {
		return 0, err
	}
	observability.Current().AddPointsDebited(charge.Channel, points)
	l.log.Info("Credits debited", "user_id", h.UserID, "points", points, "channel", charge.Channel)
	return points, nil
}

// Grant credits points and records why. The balance row is created when
// missing.
func (l *Ledger) Grant(dbc dbctx.Context, userID uuid.UUID, points int, reason string) (*types.Purchase, error) {
	return l.grant(dbc, userID, points, reason, nil)
}

// GrantPayment credits a captured payment. Each payment reference is applied
// at most once; a repeat returns ErrPaymentApplied and leaves the balance
// alone.
func (l *Ledger) GrantPayment(dbc dbctx.Context, userID uuid.UUID, points int, paymentRef string) (*types.Purchase, error) {
	if paymentRef == "" {
		return nil, fmt.Errorf("payment reference required")
	}
	prior, err := l.history.GetByPaymentRef(dbc, paymentRef)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return nil, ErrPaymentApplied
	}
	p, err := l.grant(dbc, userID, points, domainbilling.ReasonPurchase, &paymentRef)
	if db.IsDuplicateKey(err) {
		return nil, ErrPaymentApplied
	}
	return p, err
}

func (l *Ledger) grant(dbc dbctx.Context, userID uuid.UUID, points int, reason string, paymentRef *string) (*types.Purchase, error) {
	if points <= 0 {
		return nil, fmt.Errorf("points must be positive")
	}
	p, err := l.purchases.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if p, err = l.purchases.CreateIfMissing(dbc, userID, points); err != nil {
			return nil, err
		}
	} else {
		if err := l.purchases.Credit(dbc, userID, points); err != nil {
			return nil, err
		}
		if p, err = l.purchases.GetByUserID(dbc, userID); err != nil {
			return nil, err
		}
	}
	if _, err := l.history.Create(dbc, []*types.PurchaseHistory{{
		PurchaseID: p.ID,
		Amount:     float64(points),
		Kind:       domainbilling.KindCredit,
		Reason:     reason,
		PaymentRef: paymentRef,
	}}); err != nil {
		return nil, err
	}
	return p, nil
}

// Balance returns the user's points, 0 when no row exists.
func (l *Ledger) Balance(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	p, err := l.purchases.GetByUserID(dbc, userID)
	if err != nil || p == nil {
		return 0, err
	}
	return p.Points, nil
}

func (l *Ledger) History(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PurchaseHistory, error) {
	p, err := l.purchases.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []*types.PurchaseHistory{}, nil
	}
	return l.history.ListByPurchaseID(dbc, p.ID, limit)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
