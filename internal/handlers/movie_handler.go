package handlers

import (
	"errors"
	"reflect"
	"strings"

	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service  services.MovieService
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewValidator reports request fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func NewMovieHandler(service services.MovieService, validate *validator.Validate, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// GetAllMovies godoc
// @Summary Get all movies
// @Description List every movie, optionally only those tagged with a genre (case-insensitive)
// @Tags movies
// @Accept json
// @Produce json
// @Param genre query string false "Genre name filter"
// @Success 200 {object} utils.StandardResponse "List of movies"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [get]
func (h *MovieHandler) GetAllMovies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	genre := c.Query("genre", "")

	movies, err := h.service.GetAllMovies(ctx, genre)
	if err != nil {
		h.logger.WithError(err).WithField("genre", genre).Error("Failed to get movies")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Description Get a single movie and its genres
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} utils.StandardResponse "Movie details"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseMovieID(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	movie, err := h.service.GetMovieByID(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to get movie")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve movie")
	}
	if movie == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", movie)
}

// CreateMovie godoc
// @Summary Create a new movie
// @Description Create a movie and associate it with existing genres
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body MovieRequest true "Movie request object"
// @Success 201 {object} utils.StandardResponse "Movie created successfully"
// @Failure 400 {object} utils.StandardResponse "Invalid request body or unknown genre"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, problem := h.parseRequest(c)
	if problem != nil {
		return problem.write(c)
	}

	movie, err := h.service.CreateMovie(ctx, req.toInput())
	if err != nil {
		return h.writeEngineError(c, err, "Failed to create movie")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", movie)
}

// UpdateMovie godoc
// @Summary Update a movie
// @Description Replace every field of a movie and reconcile its genres
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Param movie body MovieRequest true "Movie request object"
// @Success 200 {object} utils.StandardResponse "Movie updated successfully"
// @Failure 400 {object} utils.StandardResponse "Invalid request or unknown genre"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseMovieID(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	req, problem := h.parseRequest(c)
	if problem != nil {
		return problem.write(c)
	}

	movie, err := h.service.UpdateMovie(ctx, id, req.toInput())
	if err != nil {
		return h.writeEngineError(c, err, "Failed to update movie")
	}
	if movie == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie updated successfully", movie)
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Description Delete a movie and all of its genre associations
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} utils.StandardResponse "Movie deleted successfully"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseMovieID(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	result, err := h.service.DeleteMovie(ctx, id)
	switch {
	case err != nil || result == repository.DeleteStorageFailure:
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete movie")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete movie")
	case result == repository.DeleteNotFound:
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie deleted successfully", nil)
}

// GetGenres godoc
// @Summary List genres
// @Description Get the reference list of genres a movie can be tagged with
// @Tags genres
// @Produce json
// @Success 200 {object} utils.StandardResponse "List of genres"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /genres [get]
func (h *MovieHandler) GetGenres(c *fiber.Ctx) error {
	genres, err := h.service.GetGenres(c.UserContext())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get genres")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve genres")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", genres)
}

// requestProblem is a rejected request body.
type requestProblem struct {
	message string
	fields  []FieldError
}

func (p *requestProblem) write(c *fiber.Ctx) error {
	if len(p.fields) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, p.message)
	}
	return utils.ErrorWithDataResponse(c, fiber.StatusBadRequest, p.message, p.fields)
}

func (h *MovieHandler) parseRequest(c *fiber.Ctx) (*MovieRequest, *requestProblem) {
	var req MovieRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, &requestProblem{message: "Invalid request body"}
	}

	if err := h.validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return nil, &requestProblem{message: "Invalid request body"}
		}

		fields := make([]FieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return nil, &requestProblem{message: "Validation failed", fields: fields}
	}

	return &req, nil
}

// writeEngineError maps catalog errors to a response.
func (h *MovieHandler) writeEngineError(c *fiber.Ctx, err error, message string) error {
	var notFound *repository.GenreNotFoundError
	if errors.As(err, &notFound) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, notFound.Error())
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message)
}

func parseMovieID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
