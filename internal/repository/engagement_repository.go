package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/models"
)

// EngagementRepository owns the per-user relationship tables: favorites,
// watch history, ratings and reviews. All of them are unique on
// (user_id, content_id) except reviews; the unique constraints, not
// application locks, enforce that invariant.
type EngagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// ──────────────────── Favorites ────────────────────

// AddFavorite ensures the (user, content) favorite exists. A duplicate is
// not an error: the semantic intent is "make sure this relationship
// exists", so the conflict is swallowed by ON CONFLICT DO NOTHING.
func (r *EngagementRepository) AddFavorite(ctx context.Context, userID, contentID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, content_id) VALUES ($1, $2)
		ON CONFLICT (user_id, content_id) DO NOTHING`, userID, contentID)
	return err
}

func (r *EngagementRepository) RemoveFavorite(ctx context.Context, userID, contentID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	return err
}

func (r *EngagementRepository) IsFavorite(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_favorites WHERE user_id = $1 AND content_id = $2)`,
		userID, contentID).Scan(&exists)
	return exists, err
}

// ListFavorites returns the user's favorites newest first, each joined
// with its (active) content row.
func (r *EngagementRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*models.Favorite, error) {
	query := `
		SELECT f.id, f.user_id, f.content_id, f.added_at, ` + prefixedContentColumns("c.") + `
		FROM user_favorites f
		JOIN content c ON c.id = f.content_id AND c.is_active = true
		WHERE f.user_id = $1
		ORDER BY f.added_at DESC, f.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []*models.Favorite{}
	for rows.Next() {
		f := &models.Favorite{}
		c := &models.Content{}
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.ContentID, &f.AddedAt,
			&c.ID, &c.Title, &c.TitleAr, &c.Description, &c.DescriptionAr, &c.Type,
			&c.Year, &c.Language, &c.Quality, &c.Resolution, &c.Rating,
			&c.DurationMinutes, &c.Episodes,
			&c.ViewCount, &c.PosterURL, &c.VideoURL, &c.DownloadURL, &c.TrailerURL,
			&c.IMDBID, &c.TMDBID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		f.Content = c
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// ──────────────────── Watch history ────────────────────

// UpsertProgress records a watch event. One row per (user, content);
// the progress value overwrites, it does not accumulate.
func (r *EngagementRepository) UpsertProgress(ctx context.Context, wh *models.WatchHistory) error {
	query := `
		INSERT INTO user_watch_history (user_id, content_id, progress_minutes, last_watched_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, content_id) DO UPDATE SET
		    progress_minutes = EXCLUDED.progress_minutes,
		    last_watched_at = NOW()
		RETURNING id, last_watched_at`
	return r.db.QueryRowContext(ctx, query, wh.UserID, wh.ContentID, wh.ProgressMinutes).
		Scan(&wh.ID, &wh.LastWatchedAt)
}

func (r *EngagementRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WatchHistory, error) {
	query := `
		SELECT h.id, h.user_id, h.content_id, h.progress_minutes, h.last_watched_at, ` +
		prefixedContentColumns("c.") + `
		FROM user_watch_history h
		JOIN content c ON c.id = h.content_id AND c.is_active = true
		WHERE h.user_id = $1
		ORDER BY h.last_watched_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.WatchHistory{}
	for rows.Next() {
		wh := &models.WatchHistory{}
		c := &models.Content{}
		if err := rows.Scan(
			&wh.ID, &wh.UserID, &wh.ContentID, &wh.ProgressMinutes, &wh.LastWatchedAt,
			&c.ID, &c.Title, &c.TitleAr, &c.Description, &c.DescriptionAr, &c.Type,
			&c.Year, &c.Language, &c.Quality, &c.Resolution, &c.Rating,
			&c.DurationMinutes, &c.Episodes,
			&c.ViewCount, &c.PosterURL, &c.VideoURL, &c.DownloadURL, &c.TrailerURL,
			&c.IMDBID, &c.TMDBID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		wh.Content = c
		entries = append(entries, wh)
	}
	return entries, rows.Err()
}

// ──────────────────── Ratings ────────────────────

func (r *EngagementRepository) UpsertRating(ctx context.Context, userID, contentID uuid.UUID, rating float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_ratings (user_id, content_id, rating) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, content_id) DO UPDATE SET rating = $3, updated_at = NOW()`,
		userID, contentID, rating)
	return err
}

func (r *EngagementRepository) DeleteRating(ctx context.Context, userID, contentID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_ratings WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	return err
}

func (r *EngagementRepository) GetUserRating(ctx context.Context, userID, contentID uuid.UUID) (*float64, error) {
	var rating float64
	err := r.db.QueryRowContext(ctx,
		`SELECT rating FROM user_ratings WHERE user_id = $1 AND content_id = $2`,
		userID, contentID).Scan(&rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *EngagementRepository) CommunityRating(ctx context.Context, contentID uuid.UUID) (*models.CommunityRating, error) {
	cr := &models.CommunityRating{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM user_ratings WHERE content_id = $1`,
		contentID).Scan(&cr.Average, &cr.Count)
	return cr, err
}

// ──────────────────── Reviews ────────────────────

func (r *EngagementRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO user_reviews (id, user_id, content_id, rating, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		rv.ID, rv.UserID, rv.ContentID, rv.Rating, rv.Body).Scan(&rv.CreatedAt)
}

// DeleteReviewByID removes a review regardless of author; moderation only.
func (r *EngagementRepository) DeleteReviewByID(ctx context.Context, reviewID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_reviews WHERE id = $1`, reviewID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EngagementRepository) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReviews returns a content's reviews newest first with the author
// username joined in.
func (r *EngagementRepository) ListReviews(ctx context.Context, contentID uuid.UUID, limit int) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rv.id, rv.user_id, rv.content_id, rv.rating, rv.body, rv.created_at, u.username
		FROM user_reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.content_id = $1
		ORDER BY rv.created_at DESC, rv.id ASC
		LIMIT $2`, contentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv := &models.Review{}
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ContentID, &rv.Rating, &rv.Body,
			&rv.CreatedAt, &rv.Username); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
