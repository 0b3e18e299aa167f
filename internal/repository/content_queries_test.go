package repository

import (
	"strings"
	"testing"

	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/search"
)

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ListParams
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListParams{}, 1, DefaultLimit},
		{"negative page", ListParams{Page: -3, Limit: 10}, 1, 10},
		{"zero limit", ListParams{Page: 2, Limit: 0}, 2, DefaultLimit},
		{"negative limit", ListParams{Page: 2, Limit: -5}, 2, DefaultLimit},
		{"over cap", ListParams{Page: 1, Limit: 500}, 1, MaxLimit},
		{"at cap", ListParams{Page: 1, Limit: MaxLimit}, 1, MaxLimit},
		{"normal", ListParams{Page: 4, Limit: 24}, 4, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage || tt.in.Limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d",
					tt.in.Page, tt.in.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	p := ListParams{Page: 3, Limit: 24}
	if got := p.Offset(); got != 48 {
		t.Errorf("Offset() = %d, want 48", got)
	}
	p = ListParams{Page: 1, Limit: 24}
	if got := p.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}

func TestListParamsTotalPages(t *testing.T) {
	tests := []struct {
		total int
		limit int
		want  int
	}{
		{0, 24, 0},
		{1, 24, 1},
		{24, 24, 1},
		{25, 24, 2},
		{3, 2, 2},
		{100, 100, 1},
	}
	for _, tt := range tests {
		p := ListParams{Page: 1, Limit: tt.limit}
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(%d) with limit %d = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestBuildContentClausesEmptyFilter(t *testing.T) {
	joinSQL, whereSQL, orderSQL, args := buildContentClauses(&ContentFilter{}, search.Options{}, 1)
	if joinSQL != "" {
		t.Errorf("unexpected joins: %q", joinSQL)
	}
	if whereSQL != "" {
		t.Errorf("unexpected wheres: %q", whereSQL)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}
	if !strings.Contains(orderSQL, "c.created_at DESC") {
		t.Errorf("default order should be created_at DESC, got %q", orderSQL)
	}
}

func TestBuildContentClausesOrderAlwaysEndsWithID(t *testing.T) {
	filters := []*ContentFilter{
		nil,
		{},
		{Sort: "rating", Order: "desc"},
		{Sort: "year", Order: "asc"},
		{Sort: "view_count"},
		{Type: models.ContentTypeMovie, Search: "x", Sort: "rating"},
	}
	for _, f := range filters {
		_, _, orderSQL, _ := buildContentClauses(f, search.Options{}, 1)
		if !strings.HasSuffix(orderSQL, "c.id ASC") {
			t.Errorf("order %q does not end with the id tie-break", orderSQL)
		}
	}
}

func TestBuildContentClausesFullFilter(t *testing.T) {
	f := &ContentFilter{
		Type:      models.ContentTypeMovie,
		Category:  "arabic",
		Genre:     "action",
		Year:      2023,
		Language:  "ar",
		Quality:   "WEB-DL",
		MinRating: 7.5,
		Search:    "التيتانيك",
		Sort:      "rating",
		Order:     "asc",
	}
	joinSQL, whereSQL, orderSQL, args := buildContentClauses(f, search.Options{FoldArabic: true}, 1)

	if !strings.Contains(joinSQL, "content_categories") || !strings.Contains(joinSQL, "content_genres") {
		t.Errorf("expected category and genre joins, got %q", joinSQL)
	}
	for _, frag := range []string{"c.type = $1", "c.year =", "c.language =", "c.quality =", "c.rating >=", "c.search_text LIKE"} {
		if !strings.Contains(whereSQL, frag) {
			t.Errorf("where %q missing fragment %q", whereSQL, frag)
		}
	}
	if !strings.Contains(orderSQL, "c.rating ASC") {
		t.Errorf("expected rating ASC order, got %q", orderSQL)
	}
	if len(args) != 8 {
		t.Fatalf("expected 8 args, got %d: %v", len(args), args)
	}
	if args[0] != models.ContentTypeMovie {
		t.Errorf("first arg should be the type, got %v", args[0])
	}
}

func TestBuildContentClausesPlaceholdersAreSequential(t *testing.T) {
	f := &ContentFilter{Type: models.ContentTypeSeries, Year: 2020, MinRating: 8}
	_, whereSQL, _, args := buildContentClauses(f, search.Options{}, 3)
	for _, ph := range []string{"$3", "$4", "$5"} {
		if !strings.Contains(whereSQL, ph) {
			t.Errorf("where %q missing placeholder %s", whereSQL, ph)
		}
	}
	if strings.Contains(whereSQL, "$6") {
		t.Errorf("where %q has a placeholder past the arg count", whereSQL)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestBuildContentClausesFoldsSearchArg(t *testing.T) {
	f := &ContentFilter{Search: "فِيلْم"}
	_, _, _, args := buildContentClauses(f, search.Options{FoldArabic: true}, 1)
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if args[0] != "فيلم" {
		t.Errorf("search arg should be folded, got %q", args[0])
	}
}

// Wildcard characters in a search query match themselves, they do not
// widen the match.
func TestBuildContentClausesEscapesLikeWildcards(t *testing.T) {
	f := &ContentFilter{Search: `100%_of\everything`}
	_, whereSQL, _, args := buildContentClauses(f, search.Options{}, 1)
	if !strings.Contains(whereSQL, `ESCAPE '\'`) {
		t.Errorf("search clause %q missing ESCAPE", whereSQL)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if args[0] != `100\%\_of\\everything` {
		t.Errorf("search arg = %q, want wildcards escaped", args[0])
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{"%_", `\%\_`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildContentClausesUnknownSortFallsBack(t *testing.T) {
	_, _, orderSQL, _ := buildContentClauses(&ContentFilter{Sort: "drop table"}, search.Options{}, 1)
	if !strings.Contains(orderSQL, "c.created_at") {
		t.Errorf("unknown sort should fall back to created_at, got %q", orderSQL)
	}
}

func TestPrefixedContentColumns(t *testing.T) {
	cols := prefixedContentColumns("c.")
	if !strings.HasPrefix(cols, "c.id") {
		t.Errorf("expected c.id first, got %q", cols[:20])
	}
	if strings.Contains(cols, " c.c.") || strings.Contains(cols, ", ,") {
		t.Errorf("malformed column list: %q", cols)
	}
	want := strings.Count(contentColumns, ",")
	if got := strings.Count(cols, ","); got != want {
		t.Errorf("column count changed: %d commas, want %d", got, want)
	}
}
