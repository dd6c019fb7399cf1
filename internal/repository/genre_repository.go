package repository

import (
	"context"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
)

// GenreRepository reads the reference genre table. It never writes to it.
type GenreRepository interface {
	ResolveMany(ctx context.Context, names []string) (map[string]uint, error)
	FindNamesByMovieID(ctx context.Context, movieID string) ([]string, error)
	FindAll(ctx context.Context) ([]models.Genre, error)
}

type genreRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *genreRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *genreRepository) ResolveMany(ctx context.Context, names []string) (map[string]uint, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return resolveGenres(r.db.WithContext(ctx), names)
}

func (r *genreRepository) FindNamesByMovieID(ctx context.Context, movieID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return genreNamesForMovie(r.db.WithContext(ctx), movieID)
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.Genre
	err := r.db.WithContext(ctx).Order("name").Find(&genres).Error
	return genres, err
}

// resolveGenres maps every name to its genre id. Names match the stored form
// exactly. The first name without a row, in input order, fails the whole call
// with a *GenreNotFoundError and no mapping is returned.
func resolveGenres(tx *gorm.DB, names []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	var genres []models.Genre
	if err := tx.Where("name IN ?", names).Find(&genres).Error; err != nil {
		return nil, err
	}

	found := make(map[string]uint, len(genres))
	for _, g := range genres {
		found[g.Name] = g.ID
	}

	for _, name := range names {
		id, ok := found[name]
		if !ok {
			return nil, &GenreNotFoundError{Name: name}
		}
		ids[name] = id
	}
	return ids, nil
}

func resolveGenre(tx *gorm.DB, name string) (uint, error) {
	ids, err := resolveGenres(tx, []string{name})
	if err != nil {
		return 0, err
	}
	return ids[name], nil
}

func genreNamesForMovie(tx *gorm.DB, movieID string) ([]string, error) {
	var names []string
	err := tx.Model(&models.Genre{}).
		Joins("JOIN movie_genres ON movie_genres.genre_id = genres.id").
		Where("movie_genres.movie_id = ?", movieID).
		Order("genres.name").
		Pluck("genres.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
