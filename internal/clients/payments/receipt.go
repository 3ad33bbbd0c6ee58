package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

var ErrInvalidReceipt = errors.New("payment receipt could not be verified")

// Payment is a captured payment as the gateway reported it.
type Payment struct {
	Ref    string
	Points int
}

// Verifier checks a payment receipt presented by a user and returns what it
// pays for.
type Verifier interface {
	Verify(ctx context.Context, userID uuid.UUID, receipt string) (Payment, error)
}

// ReceiptClaims is what the checkout service signs once a payment is captured.
// The JWT id is the gateway's payment reference.
type ReceiptClaims struct {
	Points int `json:"points"`
	jwt.RegisteredClaims
}

type receiptVerifier struct {
	log    *logger.Logger
	secret []byte
	issuer string
}

// NewReceiptVerifier verifies HS256 receipts signed with secret. Receipts must
// carry an expiry, name the paying user as subject and, when issuer is set,
// come from that issuer.
func NewReceiptVerifier(log *logger.Logger, secret, issuer string) (Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("payments: missing receipt secret")
	}
	return &receiptVerifier{
		log:    log.With("client", "PaymentReceiptVerifier"),
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
	}, nil
}

func (v *receiptVerifier) Verify(ctx context.Context, userID uuid.UUID, receipt string) (Payment, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(userID.String()),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &ReceiptClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(receipt), claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		v.log.Warn("Payment receipt rejected", "user_id", userID, "error", err)
		return Payment{}, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}
	ref := strings.TrimSpace(claims.ID)
	if ref == "" || claims.Points <= 0 {
		return Payment{}, fmt.Errorf("%w: receipt needs a reference and positive points", ErrInvalidReceipt)
	}
	return Payment{Ref: ref, Points: claims.Points}, nil
}

// SignReceipt issues a receipt for claims. The checkout service and tests use
// it; the API never does.
func SignReceipt(secret string, claims ReceiptClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
