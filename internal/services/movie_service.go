package services

import (
	"context"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

type MovieService interface {
	// CRUD operations
	GetAllMovies(ctx context.Context, genre string) ([]models.Movie, error)
	GetMovieByID(ctx context.Context, id string) (*models.Movie, error)
	CreateMovie(ctx context.Context, input models.MovieInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id string, input models.MovieInput) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id string) (repository.DeleteResult, error)

	// Reference data
	GetGenres(ctx context.Context) ([]models.Genre, error)
}

type movieService struct {
	repo      repository.MovieRepository
	genreRepo repository.GenreRepository
	logger    *logrus.Logger
	posters   PosterStorage
}

func NewMovieService(repo repository.MovieRepository, genreRepo repository.GenreRepository, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:      repo,
		genreRepo: genreRepo,
		logger:    logger,
	}
}

// SetPosterStorage enables removal of replaced and orphaned poster objects.
func (s *movieService) SetPosterStorage(posters PosterStorage) {
	s.posters = posters
}

func (s *movieService) GetAllMovies(ctx context.Context, genre string) ([]models.Movie, error) {
	return s.repo.GetAll(ctx, strings.TrimSpace(genre))
}

func (s *movieService) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *movieService) CreateMovie(ctx context.Context, input models.MovieInput) (*models.Movie, error) {
	movie, err := s.repo.Create(ctx, normalize(input))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":     movie.ID,
		"title":  movie.Title,
		"genres": movie.Genres,
	}).Info("Movie created")
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id string, input models.MovieInput) (*models.Movie, error) {
	input = normalize(input)

	// The previous poster is only needed when it may have to be cleaned up.
	var existing *models.Movie
	if s.posters != nil {
		var err error
		existing, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, nil
		}
	}

	movie, err := s.repo.Update(ctx, id, input)
	if err != nil || movie == nil {
		return movie, err
	}

	if existing != nil && existing.Poster != input.Poster {
		s.removePoster(ctx, existing.Poster, "Failed to delete old poster from MinIO")
	}

	s.logger.WithFields(logrus.Fields{
		"id":     movie.ID,
		"genres": movie.Genres,
	}).Info("Movie updated")
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id string) (repository.DeleteResult, error) {
	var existing *models.Movie
	if s.posters != nil {
		var err error
		existing, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return repository.DeleteStorageFailure, &repository.DeletionError{Err: err}
		}
		if existing == nil {
			return repository.DeleteNotFound, nil
		}
	}

	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return result, err
	}

	if result == repository.DeleteSuccess && existing != nil {
		s.removePoster(ctx, existing.Poster, "Failed to delete poster from MinIO")
	}

	s.logger.WithFields(logrus.Fields{
		"id":     id,
		"result": result.String(),
	}).Info("Movie delete finished")
	return result, nil
}

func (s *movieService) GetGenres(ctx context.Context) ([]models.Genre, error) {
	return s.genreRepo.FindAll(ctx)
}

// removePoster deletes a poster stored in our bucket. Failures are logged and
// never fail the calling operation.
func (s *movieService) removePoster(ctx context.Context, poster, failure string) {
	if poster == "" || !s.posters.Owns(poster) {
		return
	}
	if err := s.posters.DeleteFile(ctx, poster); err != nil {
		s.logger.WithError(err).WithField("poster", poster).Warn(failure)
	}
}

func normalize(input models.MovieInput) models.MovieInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Director = strings.TrimSpace(input.Director)
	input.Poster = strings.TrimSpace(input.Poster)
	return input
}
