package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/search"
)

// ContentFilter carries the already-resolved facet values for a listing
// query. Category and Genre are vocabulary slugs (the facet resolver has
// rejected anything else); Search is the raw user query, folded here.
type ContentFilter struct {
	Type      models.ContentType
	Category  string
	Genre     string
	Year      int
	Language  string
	Quality   string
	MinRating float64
	Search    string
	Sort      string
	Order     string
}

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// ListParams is the page/limit window. Out-of-range values are clamped,
// not rejected: page < 1 becomes 1, limit <= 0 becomes DefaultLimit,
// limit > MaxLimit is capped.
type ListParams struct {
	Page  int
	Limit int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes ceil(total/limit); total 0 yields 0.
func (p ListParams) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// escapeLike makes a user string safe as a LIKE literal: % and _ match
// themselves, not as wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildContentClauses builds JOIN, WHERE and ORDER BY fragments for a
// ContentFilter. paramStart is the next free placeholder index. The WHERE
// fragment is relative to the fixed `c.is_active = true` base every listing
// query carries. The ORDER BY always ends with `c.id ASC` so a fixed
// dataset pages identically across calls.
func buildContentClauses(f *ContentFilter, foldOpts search.Options, paramStart int) (string, string, string, []interface{}) {
	var joins []string
	var wheres []string
	var args []interface{}
	p := paramStart

	if f != nil {
		if f.Type != "" {
			wheres = append(wheres, fmt.Sprintf(`c.type = $%d`, p))
			args = append(args, f.Type)
			p++
		}
		if f.Category != "" {
			joins = append(joins, fmt.Sprintf(
				`JOIN content_categories fcc ON fcc.content_id = c.id JOIN categories fcat ON fcat.id = fcc.category_id AND fcat.slug = $%d`, p))
			args = append(args, f.Category)
			p++
		}
		if f.Genre != "" {
			joins = append(joins, fmt.Sprintf(
				`JOIN content_genres fcg ON fcg.content_id = c.id JOIN genres fg ON fg.id = fcg.genre_id AND fg.slug = $%d`, p))
			args = append(args, f.Genre)
			p++
		}
		if f.Year != 0 {
			wheres = append(wheres, fmt.Sprintf(`c.year = $%d`, p))
			args = append(args, f.Year)
			p++
		}
		if f.Language != "" {
			wheres = append(wheres, fmt.Sprintf(`c.language = $%d`, p))
			args = append(args, f.Language)
			p++
		}
		if f.Quality != "" {
			wheres = append(wheres, fmt.Sprintf(`c.quality = $%d`, p))
			args = append(args, f.Quality)
			p++
		}
		if f.MinRating > 0 {
			wheres = append(wheres, fmt.Sprintf(`c.rating >= $%d`, p))
			args = append(args, f.MinRating)
			p++
		}
		if f.Search != "" {
			wheres = append(wheres, fmt.Sprintf(`c.search_text LIKE '%%' || $%d || '%%' ESCAPE '\'`, p))
			args = append(args, escapeLike(search.Fold(f.Search, foldOpts)))
			p++
		}
	}

	joinSQL := ""
	if len(joins) > 0 {
		joinSQL = " " + strings.Join(joins, " ")
	}

	whereSQL := ""
	if len(wheres) > 0 {
		whereSQL = " AND " + strings.Join(wheres, " AND ")
	}

	orderCol := "c.created_at"
	if f != nil {
		switch f.Sort {
		case "rating":
			orderCol = "c.rating"
		case "year":
			orderCol = "c.year"
		case "view_count":
			orderCol = "c.view_count"
		case "created_at", "":
			orderCol = "c.created_at"
		}
	}
	dir := "DESC"
	if f != nil && strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}
	orderSQL := fmt.Sprintf(" ORDER BY %s %s NULLS LAST, c.id ASC", orderCol, dir)

	return joinSQL, whereSQL, orderSQL, args
}

// ListFiltered returns one page of active content plus the total count for
// the same filter (computed before the window is applied).
func (r *ContentRepository) ListFiltered(ctx context.Context, f *ContentFilter, params ListParams) ([]*models.Content, int, error) {
	params.Normalize()
	joinSQL, whereSQL, orderSQL, filterArgs := buildContentClauses(f, r.foldOpts, 1)

	countQuery := `SELECT COUNT(*) FROM content c` + joinSQL + ` WHERE c.is_active = true` + whereSQL
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("content count failed: %w", err)
	}

	pLimit := len(filterArgs) + 1
	pOffset := pLimit + 1
	query := `SELECT ` + prefixedContentColumns("c.") + `
		FROM content c` + joinSQL + `
		WHERE c.is_active = true` + whereSQL + orderSQL +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, pLimit, pOffset)

	args := append(filterArgs, params.Limit, params.Offset())
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("content list failed: %w", err)
	}
	defer rows.Close()

	items := []*models.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// Featured returns the highest-rated active content.
func (r *ContentRepository) Featured(ctx context.Context, t models.ContentType, limit int) ([]*models.Content, error) {
	items, _, err := r.ListFiltered(ctx,
		&ContentFilter{Type: t, Sort: "rating", Order: "desc"},
		ListParams{Page: 1, Limit: limit})
	return items, err
}

// Trending returns the most-viewed active content.
func (r *ContentRepository) Trending(ctx context.Context, t models.ContentType, limit int) ([]*models.Content, error) {
	items, _, err := r.ListFiltered(ctx,
		&ContentFilter{Type: t, Sort: "view_count", Order: "desc"},
		ListParams{Page: 1, Limit: limit})
	return items, err
}

// Recent returns the newest active content.
func (r *ContentRepository) Recent(ctx context.Context, t models.ContentType, limit int) ([]*models.Content, error) {
	items, _, err := r.ListFiltered(ctx,
		&ContentFilter{Type: t, Sort: "created_at", Order: "desc"},
		ListParams{Page: 1, Limit: limit})
	return items, err
}

// StatsByType aggregates active content counts in a single query so the
// numbers are a consistent snapshot.
func (r *ContentRepository) StatsByType(ctx context.Context) ([]models.TypeCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM content WHERE is_active = true GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.TypeCount{}
	for rows.Next() {
		var tc models.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		stats = append(stats, tc)
	}
	return stats, rows.Err()
}

// prefixedContentColumns returns contentColumns with each column prefixed,
// for queries that join other tables.
func prefixedContentColumns(prefix string) string {
	cols := strings.Split(contentColumns, ",")
	for i, col := range cols {
		cols[i] = prefix + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
