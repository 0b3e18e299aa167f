package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/search"
)

type ContentRepository struct {
	db       *sql.DB
	foldOpts search.Options
}

func NewContentRepository(db *sql.DB, foldOpts search.Options) *ContentRepository {
	return &ContentRepository{db: db, foldOpts: foldOpts}
}

// contentColumns is the standard SELECT list for content rows.
const contentColumns = `id, title, title_ar, description, description_ar, type,
	year, language, quality, resolution, rating, duration_minutes, episodes,
	view_count, poster_url, video_url, download_url, trailer_url,
	imdb_id, tmdb_id, is_active, created_at, updated_at`

func scanContent(row interface{ Scan(dest ...interface{}) error }) (*models.Content, error) {
	c := &models.Content{}
	err := row.Scan(
		&c.ID, &c.Title, &c.TitleAr, &c.Description, &c.DescriptionAr, &c.Type,
		&c.Year, &c.Language, &c.Quality, &c.Resolution, &c.Rating,
		&c.DurationMinutes, &c.Episodes,
		&c.ViewCount, &c.PosterURL, &c.VideoURL, &c.DownloadURL, &c.TrailerURL,
		&c.IMDBID, &c.TMDBID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *ContentRepository) Create(ctx context.Context, c *models.Content) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO content (
			id, title, title_ar, description, description_ar, type,
			year, language, quality, resolution, rating, duration_minutes, episodes,
			poster_url, video_url, download_url, trailer_url, imdb_id, tmdb_id,
			search_text, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21
		)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		c.ID, c.Title, c.TitleAr, c.Description, c.DescriptionAr, c.Type,
		c.Year, c.Language, c.Quality, c.Resolution, c.Rating, c.DurationMinutes, c.Episodes,
		c.PosterURL, c.VideoURL, c.DownloadURL, c.TrailerURL, c.IMDBID, c.TMDBID,
		search.Terms(c.Title, c.TitleAr, r.foldOpts), c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns the content row only when it is active.
func (r *ContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1 AND is_active = true`
	c, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *ContentRepository) Update(ctx context.Context, c *models.Content) error {
	query := `
		UPDATE content SET
			title = $1, title_ar = $2, description = $3, description_ar = $4,
			year = $5, language = $6, quality = $7, resolution = $8, rating = $9,
			duration_minutes = $10, episodes = $11,
			poster_url = $12, video_url = $13, download_url = $14, trailer_url = $15,
			imdb_id = $16, tmdb_id = $17, search_text = $18, updated_at = NOW()
		WHERE id = $19`
	result, err := r.db.ExecContext(ctx, query,
		c.Title, c.TitleAr, c.Description, c.DescriptionAr,
		c.Year, c.Language, c.Quality, c.Resolution, c.Rating,
		c.DurationMinutes, c.Episodes,
		c.PosterURL, c.VideoURL, c.DownloadURL, c.TrailerURL,
		c.IMDBID, c.TMDBID, search.Terms(c.Title, c.TitleAr, r.foldOpts), c.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive soft-deletes (false) or restores (true) a content row.
func (r *ContentRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE content SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE content SET view_count = view_count + 1 WHERE id = $1 AND is_active = true`, id)
	return err
}

// SetCategories replaces the content's category links with the given slugs.
// Unknown slugs are ignored; link rows have no ordering significance.
func (r *ContentRepository) SetCategories(ctx context.Context, contentID uuid.UUID, slugs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_categories WHERE content_id = $1`, contentID); err != nil {
		return err
	}
	for _, slug := range slugs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_categories (content_id, category_id)
			SELECT $1, id FROM categories WHERE slug = $2
			ON CONFLICT DO NOTHING`, contentID, slug); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ContentRepository) SetGenres(ctx context.Context, contentID uuid.UUID, slugs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_genres WHERE content_id = $1`, contentID); err != nil {
		return err
	}
	for _, slug := range slugs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_genres (content_id, genre_id)
			SELECT $1, id FROM genres WHERE slug = $2
			ON CONFLICT DO NOTHING`, contentID, slug); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CastCredit is one entry of a content's cast list write.
type CastCredit struct {
	CastID    uuid.UUID `json:"cast_id"`
	Character *string   `json:"character,omitempty"`
}

// SetCast replaces the cast list. Position follows slice order (0-based).
func (r *ContentRepository) SetCast(ctx context.Context, contentID uuid.UUID, credits []CastCredit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_cast WHERE content_id = $1`, contentID); err != nil {
		return err
	}
	for i, cr := range credits {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_cast (content_id, cast_id, character, position)
			VALUES ($1, $2, $3, $4)`, contentID, cr.CastID, cr.Character, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadRelations fills Categories, Genres and Cast on a detail read.
func (r *ContentRepository) LoadRelations(ctx context.Context, c *models.Content) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cat.id, cat.slug, cat.name, cat.name_ar, cat.description
		FROM categories cat
		JOIN content_categories cc ON cc.category_id = cat.id
		WHERE cc.content_id = $1 ORDER BY cat.slug`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Slug, &cat.Name, &cat.NameAr, &cat.Description); err != nil {
			return err
		}
		c.Categories = append(c.Categories, cat)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT g.id, g.slug, g.name, g.name_ar, g.description
		FROM genres g
		JOIN content_genres cg ON cg.genre_id = g.id
		WHERE cg.content_id = $1 ORDER BY g.slug`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.NameAr, &g.Description); err != nil {
			return err
		}
		c.Genres = append(c.Genres, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT cm.id, cm.name, cm.name_ar, cm.role, cm.biography, cm.birth_date,
		       cm.nationality, cm.image_url, cm.imdb_id, cc.character, cc.position
		FROM cast_members cm
		JOIN content_cast cc ON cc.cast_id = cm.id
		WHERE cc.content_id = $1
		ORDER BY cc.position ASC, cm.id ASC`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var row models.ContentCastRow
		if err := rows.Scan(&row.ID, &row.Name, &row.NameAr, &row.Role, &row.Biography,
			&row.BirthDate, &row.Nationality, &row.ImageURL, &row.IMDBID,
			&row.Character, &row.Position); err != nil {
			return err
		}
		c.Cast = append(c.Cast, row)
	}
	return rows.Err()
}

// RefreshSearchText recomputes search_text for every row; used after the
// fold configuration changes or an import wrote rows in bulk.
func (r *ContentRepository) RefreshSearchText(ctx context.Context) (int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, title_ar FROM content`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type pair struct {
		id      uuid.UUID
		title   string
		titleAr string
	}
	var all []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.id, &p.title, &p.titleAr); err != nil {
			return 0, err
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range all {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE content SET search_text = $1 WHERE id = $2`,
			search.Terms(p.title, p.titleAr, r.foldOpts), p.id); err != nil {
			return updated, fmt.Errorf("refresh search_text for %s: %w", p.id, err)
		}
		updated++
	}
	return updated, nil
}
