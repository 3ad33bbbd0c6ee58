package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/data/repos/testutil"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainbilling "github.com/yungbote/keywordiq-backend/internal/domain/billing"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
)

func TestPurchaseRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "purchaserepo-"+uuid.NewString()+"@example.com")
	repo := NewPurchaseRepo(gdb, testutil.Logger(t))

	p, err := repo.CreateIfMissing(dbc, u.ID, 100)
	if err != nil || p == nil || p.Points != 100 {
		t.Fatalf("CreateIfMissing: err=%v p=%+v", err, p)
	}
	again, err := repo.CreateIfMissing(dbc, u.ID, 500)
	if err != nil || again.ID != p.ID || again.Points != 100 {
		t.Fatalf("CreateIfMissing twice: err=%v p=%+v", err, again)
	}

	ok, err := repo.DebitIfSufficient(dbc, u.ID, 60)
	if err != nil || !ok {
		t.Fatalf("DebitIfSufficient(60): err=%v ok=%v", err, ok)
	}
	ok, err = repo.DebitIfSufficient(dbc, u.ID, 41)
	if err != nil || ok {
		t.Fatalf("DebitIfSufficient(41) should fail: err=%v ok=%v", err, ok)
	}
	if err := repo.Credit(dbc, u.ID, 10); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || got == nil || got.Points != 50 {
		t.Fatalf("GetByUserID: err=%v p=%+v", err, got)
	}
	if err := repo.Credit(dbc, uuid.New(), 10); err == nil {
		t.Fatal("Credit for unknown user should fail")
	}
}

func TestPurchaseHistoryRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "historyrepo-"+uuid.NewString()+"@example.com")
	p := testutil.SeedPurchase(t, ctx, tx, u.ID, 100)
	repo := NewPurchaseHistoryRepo(gdb, testutil.Logger(t))

	ch := "maps"
	rows := []*types.PurchaseHistory{
		{PurchaseID: p.ID, Amount: 100, Kind: domainbilling.KindCredit, Reason: domainbilling.ReasonSignup},
		{PurchaseID: p.ID, Amount: 3, Kind: domainbilling.KindDebit, Reason: domainbilling.ReasonChannel, Channel: &ch},
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.ListByPurchaseID(dbc, p.ID, 0)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByPurchaseID: err=%v len=%d", err, len(got))
	}
}

func TestPurchaseHistoryPaymentRefUnique(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	u := testutil.SeedUser(t, ctx, gdb, "paymentref-"+uuid.NewString()+"@example.com")
	p := testutil.SeedPurchase(t, ctx, gdb, u.ID, 0)
	repo := NewPurchaseHistoryRepo(gdb, testutil.Logger(t))

	if got, err := repo.GetByPaymentRef(dbc, "pay_1"); err != nil || got != nil {
		t.Fatalf("GetByPaymentRef before create: row=%v err=%v", got, err)
	}
	ref := "pay_1"
	row := &types.PurchaseHistory{PurchaseID: p.ID, Amount: 40, Kind: domainbilling.KindCredit, Reason: domainbilling.ReasonPurchase, PaymentRef: &ref}
	if _, err := repo.Create(dbc, []*types.PurchaseHistory{row}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByPaymentRef(dbc, "pay_1")
	if err != nil || got == nil || got.ID != row.ID {
		t.Fatalf("GetByPaymentRef: row=%v err=%v", got, err)
	}
	dup := &types.PurchaseHistory{PurchaseID: p.ID, Amount: 40, Kind: domainbilling.KindCredit, Reason: domainbilling.ReasonPurchase, PaymentRef: &ref}
	if _, err := repo.Create(dbc, []*types.PurchaseHistory{dup}); err == nil {
		t.Fatal("expected unique violation on repeated payment_ref")
	}
	// Rows without a reference never collide.
	plain := []*types.PurchaseHistory{
		{PurchaseID: p.ID, Amount: 1, Kind: domainbilling.KindCredit, Reason: domainbilling.ReasonSignup},
		{PurchaseID: p.ID, Amount: 1, Kind: domainbilling.KindCredit, Reason: domainbilling.ReasonSignup},
	}
	if _, err := repo.Create(dbc, plain); err != nil {
		t.Fatalf("Create without ref: %v", err)
	}
}
