package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/facets"
	"github.com/yemenflix/yemenflix-server/internal/models"
)

// TaxonomyRepository owns the categories, genres and cast_members tables.
// The category/genre rows mirror the static vocabularies in the facets
// package; SeedVocabulary keeps them in sync at startup.
type TaxonomyRepository struct {
	db *sql.DB
}

func NewTaxonomyRepository(db *sql.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// SeedVocabulary upserts every known category and genre. Run once at
// process start; idempotent.
func (r *TaxonomyRepository) SeedVocabulary(ctx context.Context) error {
	for _, c := range facets.CategoriesFor("") {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO categories (slug, name, name_ar) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, name_ar = EXCLUDED.name_ar`,
			c.Slug, c.Name, c.NameAr); err != nil {
			return err
		}
	}
	for _, g := range facets.Genres() {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO genres (slug, name, name_ar) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, name_ar = EXCLUDED.name_ar`,
			g.Slug, g.Name, g.NameAr); err != nil {
			return err
		}
	}
	return nil
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, name, name_ar, description FROM categories ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.NameAr, &c.Description); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *TaxonomyRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, name, name_ar, description FROM genres ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.NameAr, &g.Description); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *TaxonomyRepository) CreateCastMember(ctx context.Context, cm *models.CastMember) error {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cast_members (id, name, name_ar, role, biography, birth_date, nationality, image_url, imdb_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cm.ID, cm.Name, cm.NameAr, cm.Role, cm.Biography, cm.BirthDate, cm.Nationality, cm.ImageURL, cm.IMDBID)
	return err
}

func (r *TaxonomyRepository) GetCastMember(ctx context.Context, id uuid.UUID) (*models.CastMember, error) {
	cm := &models.CastMember{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, name_ar, role, biography, birth_date, nationality, image_url, imdb_id
		FROM cast_members WHERE id = $1`, id).Scan(
		&cm.ID, &cm.Name, &cm.NameAr, &cm.Role, &cm.Biography, &cm.BirthDate,
		&cm.Nationality, &cm.ImageURL, &cm.IMDBID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return cm, err
}
