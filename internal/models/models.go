package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
	ContentTypeTV     ContentType = "tv"
	ContentTypeMisc   ContentType = "misc"
)

// ValidContentType reports whether s is one of the four catalog types.
func ValidContentType(s string) bool {
	switch ContentType(s) {
	case ContentTypeMovie, ContentTypeSeries, ContentTypeTV, ContentTypeMisc:
		return true
	}
	return false
}

type CastRole string

const (
	CastActor    CastRole = "actor"
	CastActress  CastRole = "actress"
	CastDirector CastRole = "director"
	CastWriter   CastRole = "writer"
	CastProducer CastRole = "producer"
)

// ──────────────────── Content ────────────────────

type Content struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	TitleAr       string      `json:"title_ar" db:"title_ar"`
	Description   *string     `json:"description,omitempty" db:"description"`
	DescriptionAr *string     `json:"description_ar,omitempty" db:"description_ar"`
	Type          ContentType `json:"type" db:"type"`
	Year          *int        `json:"year,omitempty" db:"year"`
	Language      *string     `json:"language,omitempty" db:"language"`
	Quality       *string     `json:"quality,omitempty" db:"quality"`
	Resolution    *string     `json:"resolution,omitempty" db:"resolution"`
	Rating        *float64    `json:"rating,omitempty" db:"rating"`
	// DurationMinutes is meaningful for movies, Episodes for series; the
	// other is left null by convention.
	DurationMinutes *int    `json:"duration_minutes,omitempty" db:"duration_minutes"`
	Episodes        *int    `json:"episodes,omitempty" db:"episodes"`
	ViewCount       int64   `json:"view_count" db:"view_count"`
	PosterURL       *string `json:"poster_url,omitempty" db:"poster_url"`
	VideoURL        *string `json:"video_url,omitempty" db:"video_url"`
	DownloadURL     *string `json:"download_url,omitempty" db:"download_url"`
	TrailerURL      *string `json:"trailer_url,omitempty" db:"trailer_url"`
	IMDBID          *string `json:"imdb_id,omitempty" db:"imdb_id"`
	TMDBID          *int    `json:"tmdb_id,omitempty" db:"tmdb_id"`
	IsActive        bool    `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Populated on detail reads, empty in listings.
	Categories []Category       `json:"categories,omitempty" db:"-"`
	Genres     []Genre          `json:"genres,omitempty" db:"-"`
	Cast       []ContentCastRow `json:"cast,omitempty" db:"-"`
}

type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	NameAr      string    `json:"name_ar" db:"name_ar"`
	Description *string   `json:"description,omitempty" db:"description"`
}

type Genre struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	NameAr      string    `json:"name_ar" db:"name_ar"`
	Description *string   `json:"description,omitempty" db:"description"`
}

type CastMember struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	NameAr      *string    `json:"name_ar,omitempty" db:"name_ar"`
	Role        CastRole   `json:"role" db:"role"`
	Biography   *string    `json:"biography,omitempty" db:"biography"`
	BirthDate   *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Nationality *string    `json:"nationality,omitempty" db:"nationality"`
	ImageURL    *string    `json:"image_url,omitempty" db:"image_url"`
	IMDBID      *string    `json:"imdb_id,omitempty" db:"imdb_id"`
}

// ContentCastRow is a cast member joined with its credit on one content row.
// Position is the 0-based display order.
type ContentCastRow struct {
	CastMember
	Character *string `json:"character,omitempty" db:"character"`
	Position  int     `json:"position" db:"position"`
}

// ──────────────────── User ────────────────────

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ──────────────────── Engagement ────────────────────

type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ContentID uuid.UUID `json:"content_id" db:"content_id"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`

	Content *Content `json:"content,omitempty" db:"-"`
}

// WatchHistory tracks per-user playback progress. One row per
// (user, content); progress is overwritten on every watch event.
type WatchHistory struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	ContentID       uuid.UUID `json:"content_id" db:"content_id"`
	ProgressMinutes int       `json:"progress_minutes" db:"progress_minutes"`
	LastWatchedAt   time.Time `json:"last_watched_at" db:"last_watched_at"`

	Content *Content `json:"content,omitempty" db:"-"`
}

type Rating struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ContentID uuid.UUID `json:"content_id" db:"content_id"`
	Rating    float64   `json:"rating" db:"rating"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ContentID uuid.UUID `json:"content_id" db:"content_id"`
	Rating    *float64  `json:"rating,omitempty" db:"rating"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Username string `json:"username,omitempty" db:"-"`
}

// ──────────────────── Aggregates ────────────────────

// TypeCount is one row of the COUNT(*) GROUP BY type stats query.
type TypeCount struct {
	Type  ContentType `json:"type"`
	Count int         `json:"count"`
}

type CommunityRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
