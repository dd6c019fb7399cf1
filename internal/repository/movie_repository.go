package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeleteResult is the outcome of MovieRepository.Delete.
type DeleteResult int

const (
	DeleteNotFound DeleteResult = iota
	DeleteSuccess
	DeleteStorageFailure
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteNotFound:
		return "not_found"
	case DeleteSuccess:
		return "success"
	case DeleteStorageFailure:
		return "storage_failure"
	}
	return "unknown"
}

// MovieRepository keeps movie rows and their genre associations consistent.
// Absence is reported as a nil movie (or DeleteNotFound), never as an error.
type MovieRepository interface {
	GetAll(ctx context.Context, genre string) ([]models.Movie, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	Create(ctx context.Context, input models.MovieInput) (*models.Movie, error)
	Update(ctx context.Context, id string, input models.MovieInput) (*models.Movie, error)
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

type movieRepository struct {
	db         *database.Database
	ids        IDGenerator
	reconciler AssociationReconciler
	timeout    time.Duration
}

func NewMovieRepository(db *database.Database, ids IDGenerator) MovieRepository {
	return &movieRepository{
		db:      db,
		ids:     ids,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// GetAll lists every movie, or only those tagged with genre when it is set.
// The genre filter ignores case.
func (r *movieRepository) GetAll(ctx context.Context, genre string) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Movie{})
	if genre != "" {
		query = query.Distinct("movies.*").
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("LOWER(genres.name) = ?", strings.ToLower(genre))
	}

	movies := []models.Movie{}
	if err := query.Order("movies.title").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)

	var movie models.Movie
	err := db.Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	genres, err := genreNamesForMovie(db, id)
	if err != nil {
		return nil, err
	}
	movie.Genres = genres
	return &movie, nil
}

// Create resolves every genre before the movie row is written, so an unknown
// genre leaves nothing behind.
func (r *movieRepository) Create(ctx context.Context, input models.MovieInput) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	genres := difference(input.Genres, nil)
	movie := &models.Movie{
		ID:       r.ids.NewID(),
		Title:    input.Title,
		Year:     input.Year,
		Director: input.Director,
		Duration: input.Duration,
		Rate:     input.Rate,
		Poster:   input.Poster,
	}

	err := r.db.Session(ctx, func(tx *gorm.DB) error {
		genreIDs, err := resolveGenres(tx, genres)
		if err != nil {
			return err
		}

		if err := tx.Create(movie).Error; err != nil {
			return err
		}

		for _, name := range genres {
			if err := tx.Omit(clause.Associations).Create(&models.MovieGenre{MovieID: movie.ID, GenreID: genreIDs[name]}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, func(cause error) error { return &CreationError{Err: cause} })
	}

	movie.Genres = genres
	return movie, nil
}

// Update overwrites every scalar column and reconciles the genre set. The
// returned movie carries input.Genres as given, not a re-read of the
// association table.
func (r *movieRepository) Update(ctx context.Context, id string, input models.MovieInput) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var updated *models.Movie
	err := r.db.Session(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Movie{}).Where("id = ?", id).Updates(input.Columns())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		current, err := genreNamesForMovie(tx, id)
		if err != nil {
			return err
		}

		if err := r.reconciler.Reconcile(tx, id, current, input.Genres); err != nil {
			return err
		}

		var movie models.Movie
		if err := tx.Where("id = ?", id).First(&movie).Error; err != nil {
			return err
		}
		movie.Genres = input.Genres
		updated = &movie
		return nil
	})
	if err != nil {
		return nil, classify(err, func(cause error) error { return &UpdateError{Err: cause} })
	}

	return updated, nil
}

// Delete removes the movie row and then all of its associations. A movie
// without genres is deleted successfully.
func (r *movieRepository) Delete(ctx context.Context, id string) (DeleteResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	outcome := DeleteNotFound
	err := r.db.Session(ctx, func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Movie{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
			return err
		}
		outcome = DeleteSuccess
		return nil
	})
	if err != nil {
		return DeleteStorageFailure, &DeletionError{Err: err}
	}

	return outcome, nil
}

// classify passes genre resolution failures through unchanged and wraps
// everything else as a storage failure.
func classify(err error, wrap func(error) error) error {
	var notFound *GenreNotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	return wrap(err)
}
