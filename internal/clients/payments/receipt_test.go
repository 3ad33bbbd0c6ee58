package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const secret = "checkout-secret"

func receipt(t *testing.T, key string, sub uuid.UUID, ref string, points int, exp time.Duration) string {
	t.Helper()
	claims := ReceiptClaims{
		Points: points,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       ref,
			Subject:  sub.String(),
			Issuer:   "checkout",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if exp != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(exp))
	}
	s, err := SignReceipt(key, claims)
	if err != nil {
		t.Fatalf("SignReceipt: %v", err)
	}
	return s
}

func TestNewReceiptVerifierNeedsSecret(t *testing.T) {
	if _, err := NewReceiptVerifier(logger.Nop(), " ", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestVerifyAcceptsSignedReceipt(t *testing.T) {
	v, err := NewReceiptVerifier(logger.Nop(), secret, "checkout")
	if err != nil {
		t.Fatalf("NewReceiptVerifier: %v", err)
	}
	user := uuid.New()
	got, err := v.Verify(context.Background(), user, receipt(t, secret, user, "pay_123", 40, time.Hour))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Ref != "pay_123" || got.Points != 40 {
		t.Fatalf("payment=%+v", got)
	}
}

func TestVerifyRejects(t *testing.T) {
	v, _ := NewReceiptVerifier(logger.Nop(), secret, "checkout")
	user := uuid.New()
	cases := []struct {
		name    string
		receipt string
	}{
		{"garbage", "not-a-jwt"},
		{"forged", receipt(t, "attacker", user, "pay_1", 100000, time.Hour)},
		{"other user", receipt(t, secret, uuid.New(), "pay_2", 40, time.Hour)},
		{"expired", receipt(t, secret, user, "pay_3", 40, -time.Minute)},
		{"no expiry", receipt(t, secret, user, "pay_4", 40, 0)},
		{"no reference", receipt(t, secret, user, "", 40, time.Hour)},
		{"no points", receipt(t, secret, user, "pay_5", 0, time.Hour)},
	}
	for _, tc := range cases {
		_, err := v.Verify(context.Background(), user, tc.receipt)
		if !errors.Is(err, ErrInvalidReceipt) {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
	}
}
