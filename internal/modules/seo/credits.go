package seo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/clients/payments"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
)

const (
	historyLimit      = 50
	maxPurchasePoints = 100000
)

type CreditsOutput struct {
	Points  int                      `json:"points"`
	History []*types.PurchaseHistory `json:"history"`
}

func (u Usecases) Credits(ctx context.Context, userID uuid.UUID) (*CreditsOutput, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	points, err := u.deps.Ledger.Balance(dbc, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_balance_failed", err)
	}
	history, err := u.deps.Ledger.History(dbc, userID, historyLimit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_history_failed", err)
	}
	return &CreditsOutput{Points: points, History: history}, nil
}

// PurchaseCredits applies a captured payment to the caller's balance. Only
// the points the receipt verifies for this user are credited, once per
// payment reference.
func (u Usecases) PurchaseCredits(ctx context.Context, userID uuid.UUID, receipt string) (*CreditsOutput, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if u.deps.Payments == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "payments_unavailable", errors.New("payment verification is not configured"))
	}
	receipt = strings.TrimSpace(receipt)
	if receipt == "" {
		return nil, apierr.BadRequest("missing_receipt", errors.New("payment receipt is required"))
	}
	payment, err := u.deps.Payments.Verify(ctx, userID, receipt)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidReceipt) {
			return nil, apierr.BadRequest("payment_not_verified", payments.ErrInvalidReceipt)
		}
		return nil, apierr.New(http.StatusBadGateway, "payment_verification_failed", err)
	}
	if payment.Points <= 0 || payment.Points > maxPurchasePoints {
		return nil, apierr.BadRequest("invalid_points", fmt.Errorf("points must be between 1 and %d", maxPurchasePoints))
	}
	err = u.deps.Tx.InTx(ctx, func(dbc dbctx.Context) error {
		_, err := u.deps.Ledger.GrantPayment(dbc, userID, payment.Points, payment.Ref)
		return err
	})
	switch {
	case errors.Is(err, ledger.ErrPaymentApplied):
		return nil, apierr.New(http.StatusConflict, "payment_already_applied", err)
	case err != nil:
		return nil, apierr.New(http.StatusInternalServerError, "purchase_failed", err)
	}
	u.deps.Log.Info("Credits purchased", "user_id", userID, "points", payment.Points, "payment", payment.Ref)
	return u.Credits(ctx, userID)
}
