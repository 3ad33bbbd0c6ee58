package extraction

import (
	"math"
	"reflect"
	"testing"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

func TestTokenize(t *testing.T) {
	got := DefaultTokenizer().Tokenize("<b>The Best</b> bakery in NYC, 2024! gluten-free bread")
	want := []string{"best", "bakery", "nyc", "gluten", "free", "bread"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if got := DefaultTokenizer().Tokenize(""); len(got) != 0 {
		t.Fatalf("empty input gave %v", got)
	}
}

func TestLoadStopwords(t *testing.T) {
	terms, err := LoadStopwords([]byte("terms:\n  - foo\n  - bar\n"))
	if err != nil {
		t.Fatalf("LoadStopwords: %v", err)
	}
	tok := NewTokenizer(terms)
	if got := tok.Tokenize("foo the bar baz"); !reflect.DeepEqual(got, []string{"the", "baz"}) {
		t.Fatalf("got=%v", got)
	}
}

func TestTFIDFRowsAreUnitLength(t *testing.T) {
	c := NewCorpus([][]string{{"bread", "bread", "cake"}, {"cake", "pie"}, {"pie"}})
	m := c.TFIDF()
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("dims=%dx%d", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for _, v := range m.RawRowView(i) {
			sum += v * v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row %d norm^2=%f", i, sum)
		}
	}
	// "bread" appears in one doc: idf = ln(4/2)+1; "cake" in two: ln(4/3)+1.
	breadIdx, _ := c.Index("bread")
	cakeIdx, _ := c.Index("cake")
	b, k := m.At(0, breadIdx), m.At(0, cakeIdx)
	wantRatio := 2 * (math.Log(2) + 1) / (math.Log(4.0/3.0) + 1)
	if math.Abs(b/k-wantRatio) > 1e-9 {
		t.Fatalf("ratio=%f want=%f", b/k, wantRatio)
	}
}

func TestQuality(t *testing.T) {
	if q := Quality(Engagement{}); q != 0 {
		t.Fatalf("zero engagement quality=%f", q)
	}
	got := Quality(Engagement{Views: 2, Likes: 2, Comments: 2, DurationSeconds: 2})
	if math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("quality=%f want=2.5", got)
	}
}

func TestWeightedKeywordsFollowQuality(t *testing.T) {
	docs := [][]string{{"sourdough"}, {"baguette"}}
	scores := RankAndFilter(WeightedKeywords(docs, []float64{3, 1}), 0)
	if len(scores) != 2 || scores[0].Keyword != "sourdough" {
		t.Fatalf("scores=%v", scores)
	}
}

func TestRankAndFilter(t *testing.T) {
	in := []seo.ScoredKeyword{
		{Keyword: "bread", Score: 1},
		{Keyword: "apple", Score: 1},
		{Keyword: "2024", Score: 5},
		{Keyword: "!!", Score: 4},
		{Keyword: "www", Score: 3},
		{Keyword: "bakery.com", Score: 3},
		{Keyword: "cake", Score: 2},
	}
	got := RankAndFilter(in, 2)
	want := []seo.ScoredKeyword{{Keyword: "cake", Score: 2}, {Keyword: "apple", Score: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestMostCommonTiesKeepFirstSeen(t *testing.T) {
	got := MostCommon([]string{"b", "a", "c", "a", "b", "d"}, 3)
	want := []seo.TermCount{{Term: "b", Count: 2}, {Term: "a", Count: 2}, {Term: "c", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestLSIDegenerateCorpus(t *testing.T) {
	res := LSI([][]string{{"bread"}, {}}, 5, 10)
	if len(res.Topics) != 0 || len(res.Keywords) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestLSITopicsBoundedByRank(t *testing.T) {
	docs := [][]string{
		{"bread", "bakery", "flour"},
		{"bread", "bakery", "oven"},
		{"coffee", "espresso", "latte"},
	}
	res := LSI(docs, 5, 2)
	if len(res.Topics) == 0 || len(res.Topics) > 3 {
		t.Fatalf("topics=%d", len(res.Topics))
	}
	for _, topic := range res.Topics {
		if len(topic.Terms) != 2 {
			t.Fatalf("topic terms=%d want=2", len(topic.Terms))
		}
	}
	if len(res.Keywords) != 2*len(res.Topics) {
		t.Fatalf("keywords=%d", len(res.Keywords))
	}
	if got := LSI(docs, 5, 2); !reflect.DeepEqual(got, res) {
		t.Fatalf("non-deterministic LSI")
	}
}

func TestLongTail(t *testing.T) {
	docs := [][]string{
		{"artisan", "sourdough", "bread"},
		{"artisan", "rye", "bread"},
		{"espresso", "coffee"},
	}
	got := LongTail(docs, 50, DefaultLongTailComponents)
	if len(got) == 0 {
		t.Fatal("expected keywords")
	}
	total := 0
	for _, tc := range got {
		total += tc.Count
	}
	// Every document contributes min(len(tokens), len(docs)) words.
	if total != 3+3+2 {
		t.Fatalf("total=%d want=8", total)
	}
	if got[0].Term != "bread" && got[0].Term != "artisan" {
		t.Fatalf("top=%v", got[0])
	}
	if len(LongTail(nil, 50, 100)) != 0 {
		t.Fatal("empty corpus should yield nothing")
	}
	if n := len(LongTail(docs, 2, 100)); n != 2 {
		t.Fatalf("max keywords not applied: %d", n)
	}
}

func TestTrendClusters(t *testing.T) {
	if got := TrendClusters([][]string{{"bread"}}); len(got) != 0 {
		t.Fatalf("single doc clusters=%v", got)
	}
	docs := [][]string{
		{"bread", "bakery", "sourdough"},
		{"bread", "bakery", "rye"},
		{"coffee", "espresso"},
		{"coffee", "latte"},
		{},
	}
	got := TrendClusters(docs)
	if len(got) == 0 || len(got) > 4 {
		t.Fatalf("clusters=%d", len(got))
	}
	for i, c := range got {
		if c.Label != i {
			t.Fatalf("label=%d at %d", c.Label, i)
		}
		if len(c.Keywords) == 0 || len(c.Keywords) > TrendKeywordsPerGroup {
			t.Fatalf("keywords=%v", c.Keywords)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	got := CleanTitle(`  "Fresh\Bread /  Daily"  `)
	if got != "FreshBread Daily" {
		t.Fatalf("got=%q", got)
	}
}
