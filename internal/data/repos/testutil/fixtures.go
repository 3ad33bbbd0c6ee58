package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "A B",
		Status:   user.StatusActive,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) *types.Purchase {
	tb.Helper()
	p := &types.Purchase{
		ID:     uuid.New(),
		UserID: userID,
		Points: points,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed purchase: %v", err)
	}
	return p
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Project {
	tb.Helper()
	p := &types.Project{
		ID:             uuid.New(),
		UserID:         userID,
		BusinessType:   "bakery",
		TargetAudience: "families",
		Industry:       "food",
		Goals:          datatypes.JSON([]byte(`["grow foot traffic"]`)),
		Country:        "United States",
		CountryCode:    "US",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }

func PtrFloat(v float64) *float64 { return &v }
