package seo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/data/repos/testutil"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
)

func newAnalysis(ch types.Channel, link string) *types.Analysis {
	a := &types.Analysis{
		Type:  ch,
		Link:  testutil.PtrString(link),
		Title: testutil.PtrString("title for " + link),
	}
	a.NaturalKey, _ = domainseo.ComputeNaturalKey(a)
	return a
}

func TestProjectRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, tx, "projectrepo-"+uuid.NewString()+"@example.com")
	repo := NewProjectRepo(gdb, log)

	p := &types.Project{
		UserID:         u.ID,
		BusinessType:   "bakery",
		TargetAudience: "families",
		Industry:       "food",
		Goals:          datatypes.JSON([]byte(`["awareness"]`)),
	}
	if _, err := repo.Create(dbc, []*types.Project{p}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByIDForUser(dbc, p.ID, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDForUser: err=%v got=%v", err, got)
	}
	if other, err := repo.GetByIDForUser(dbc, p.ID, uuid.New()); err != nil || other != nil {
		t.Fatalf("GetByIDForUser(other user): err=%v got=%v", err, other)
	}
	if got.HasSuggestion(types.ChannelMaps) {
		t.Fatal("fresh project should not have a maps suggestion")
	}

	set, err := repo.SetSuggestionIfUnset(dbc, p.ID, types.ChannelMaps, datatypes.JSON([]byte(`{"v":1,"keywords":["a"]}`)))
	if err != nil || !set {
		t.Fatalf("SetSuggestionIfUnset first: err=%v set=%v", err, set)
	}
	set, err = repo.SetSuggestionIfUnset(dbc, p.ID, types.ChannelMaps, datatypes.JSON([]byte(`{"v":1,"keywords":["b"]}`)))
	if err != nil || set {
		t.Fatalf("SetSuggestionIfUnset second: err=%v set=%v", err, set)
	}

	got, err = repo.GetByID(dbc, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if !got.HasSuggestion(types.ChannelMaps) || got.HasSuggestion(types.ChannelNews) {
		t.Fatalf("unexpected suggestion state: maps=%s news=%s", got.MapsSuggestions, got.NewsSuggestions)
	}

	if rows, err := repo.ListByUserID(dbc, u.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByUserID: err=%v len=%d", err, len(rows))
	}
}

func TestAnalysisAndRelRepos(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, tx, "analysisrepo-"+uuid.NewString()+"@example.com")
	p := testutil.SeedProject(t, ctx, tx, u.ID)

	queries := NewSearchQueryRepo(gdb, log)
	analyses := NewAnalysisRepo(gdb, log)
	rels := NewSearchAnalysisRelRepo(gdb, log)

	q := &types.SearchQuery{SEOProjectID: p.ID, Type: types.ChannelNews, Query: "bakery news"}
	if err := queries.Create(dbc, q); err != nil {
		t.Fatalf("SearchQuery Create: %v", err)
	}
	if got, err := queries.GetByKey(dbc, p.ID, types.ChannelNews, "bakery news"); err != nil || got == nil || got.ID != q.ID {
		t.Fatalf("GetByKey: err=%v got=%v", err, got)
	}
	if got, err := queries.GetByKey(dbc, p.ID, types.ChannelMaps, "bakery news"); err != nil || got != nil {
		t.Fatalf("GetByKey other channel: err=%v got=%v", err, got)
	}

	link := "https://news.example/" + uuid.NewString()
	a := newAnalysis(types.ChannelNews, link)
	if err := analyses.Create(dbc, a); err != nil {
		t.Fatalf("Analysis Create: %v", err)
	}

	found, err := analyses.GetByNaturalKey(dbc, types.ChannelNews, link)
	if err != nil || found == nil || found.ID != a.ID {
		t.Fatalf("GetByNaturalKey: err=%v found=%v", err, found)
	}

	update := newAnalysis(types.ChannelNews, link)
	update.Title = testutil.PtrString("fresh title")
	if err := analyses.Overwrite(dbc, found.ID, update); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	found, _ = analyses.GetByNaturalKey(dbc, types.ChannelNews, link)
	if found == nil || domainseo.StrVal(found.Title) != "fresh title" || found.ID != a.ID {
		t.Fatalf("Overwrite did not apply: %+v", found)
	}

	for i := 0; i < 3; i++ {
		if err := rels.Link(dbc, q.ID, a.ID); err != nil {
			t.Fatalf("Link #%d: %v", i, err)
		}
	}
	if n, err := rels.CountBySearchQueryID(dbc, q.ID); err != nil || n != 1 {
		t.Fatalf("CountBySearchQueryID: err=%v n=%d", err, n)
	}

	rows, err := analyses.ListByProjectChannel(dbc, p.ID, types.ChannelNews)
	if err != nil || len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("ListByProjectChannel: err=%v rows=%d", err, len(rows))
	}
	if rows, err := analyses.ListByProjectChannel(dbc, p.ID, types.ChannelMaps); err != nil || len(rows) != 0 {
		t.Fatalf("ListByProjectChannel(maps): err=%v rows=%d", err, len(rows))
	}
}

func TestAnalysisNaturalKeyIsUnique(t *testing.T) {
	gdb := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	analyses := NewAnalysisRepo(gdb, testutil.Logger(t))

	link := "https://dup.example/" + uuid.NewString()
	if err := analyses.Create(dbc, newAnalysis(types.ChannelGoogleSearch, link)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := analyses.Create(dbc, newAnalysis(types.ChannelGoogleSearch, link))
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
	// Same link under another channel is a different document.
	if err := analyses.Create(dbc, newAnalysis(types.ChannelCompetitor, link)); err != nil {
		t.Fatalf("other channel Create: %v", err)
	}
}
