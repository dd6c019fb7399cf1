package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const movieID = "6f1c2d1e-8b5a-4c44-9a55-0d7a3c1b2e9f"

type mockMovieService struct {
	mock.Mock
}

func (m *mockMovieService) GetAllMovies(ctx context.Context, genre string) ([]models.Movie, error) {
	args := m.Called(genre)
	movies, _ := args.Get(0).([]models.Movie)
	return movies, args.Error(1)
}

func (m *mockMovieService) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	args := m.Called(id)
	movie, _ := args.Get(0).(*models.Movie)
	return movie, args.Error(1)
}

func (m *mockMovieService) CreateMovie(ctx context.Context, input models.MovieInput) (*models.Movie, error) {
	args := m.Called(input)
	movie, _ := args.Get(0).(*models.Movie)
	return movie, args.Error(1)
}

func (m *mockMovieService) UpdateMovie(ctx context.Context, id string, input models.MovieInput) (*models.Movie, error) {
	args := m.Called(id, input)
	movie, _ := args.Get(0).(*models.Movie)
	return movie, args.Error(1)
}

func (m *mockMovieService) DeleteMovie(ctx context.Context, id string) (repository.DeleteResult, error) {
	args := m.Called(id)
	return args.Get(0).(repository.DeleteResult), args.Error(1)
}

func (m *mockMovieService) GetGenres(ctx context.Context) ([]models.Genre, error) {
	args := m.Called()
	genres, _ := args.Get(0).([]models.Genre)
	return genres, args.Error(1)
}

func newTestApp(svc *mockMovieService) *fiber.App {
	h := NewMovieHandler(svc, NewValidator(), quietLogger())
	app := fiber.New()
	app.Get("/movies", h.GetAllMovies)
	app.Get("/movies/:id", h.GetMovieByID)
	app.Post("/movies", h.CreateMovie)
	app.Put("/movies/:id", h.UpdateMovie)
	app.Delete("/movies/:id", h.DeleteMovie)
	app.Get("/genres", h.GetGenres)
	return app
}

type envelope struct {
	utils.StandardResponse
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

const matrixBody = `{"title":"Matrix","year":1999,"director":"Wachowski","duration":136,"rate":8.7,"poster":"https://example.com/matrix.jpg","genre":["Action","Sci-Fi"]}`

func matrixInput() models.MovieInput {
	return models.MovieInput{
		Title: "Matrix", Year: 1999, Director: "Wachowski", Duration: 136, Rate: 8.7,
		Poster: "https://example.com/matrix.jpg", Genres: []string{"Action", "Sci-Fi"},
	}
}

func TestGetAllMovies_PassesGenreFilter(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("GetAllMovies", "action").Return([]models.Movie{{ID: movieID, Title: "Matrix"}}, nil)

	status, env := do(t, newTestApp(svc), http.MethodGet, "/movies?genre=action", "")
	assert.Equal(t, http.StatusOK, status)

	var movies []models.Movie
	require.NoError(t, json.Unmarshal(env.Data, &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Matrix", movies[0].Title)
}

func TestGetAllMovies_Failure(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("GetAllMovies", "").Return(nil, errors.New("db down"))

	status, env := do(t, newTestApp(svc), http.MethodGet, "/movies", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "fail", env.Status)
}

func TestGetMovieByID(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("GetMovieByID", movieID).Return(&models.Movie{ID: movieID, Genres: []string{"Action"}}, nil)

	status, _ := do(t, newTestApp(svc), http.MethodGet, "/movies/"+movieID, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestGetMovieByID_NotFound(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("GetMovieByID", movieID).Return(nil, nil)

	status, env := do(t, newTestApp(svc), http.MethodGet, "/movies/"+movieID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Movie not found", env.Message)
}

func TestGetMovieByID_InvalidID(t *testing.T) {
	svc := &mockMovieService{}

	status, _ := do(t, newTestApp(svc), http.MethodGet, "/movies/42", "")
	assert.Equal(t, http.StatusBadRequest, status)
	svc.AssertNotCalled(t, "GetMovieByID", mock.Anything)
}

func TestCreateMovie(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("CreateMovie", matrixInput()).Return(&models.Movie{ID: movieID, Title: "Matrix", Genres: []string{"Action", "Sci-Fi"}}, nil)

	status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", matrixBody)
	assert.Equal(t, http.StatusCreated, status)

	var movie models.Movie
	require.NoError(t, json.Unmarshal(env.Data, &movie))
	assert.Equal(t, movieID, movie.ID)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, movie.Genres)
}

func TestCreateMovie_ValidationFailure(t *testing.T) {
	svc := &mockMovieService{}

	status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", `{"title":"","year":1800,"director":"X","duration":0,"rate":11,"genre":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)

	var fields []FieldError
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "year", "duration", "rate"}, names)
	svc.AssertNotCalled(t, "CreateMovie", mock.Anything)
}

func TestCreateMovie_GenreList(t *testing.T) {
	tests := []struct {
		name  string
		genre string
		rule  string
	}{
		{name: "missing", genre: "", rule: "required"},
		{name: "null", genre: `,"genre":null`, rule: "required"},
		{name: "blank entry", genre: `,"genre":["Action",""]`, rule: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMovieService{}
			body := `{"title":"Matrix","year":1999,"director":"Wachowski","duration":136` + tt.genre + `}`

			status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", body)
			assert.Equal(t, http.StatusBadRequest, status)

			var fields []FieldError
			require.NoError(t, json.Unmarshal(env.Data, &fields))
			require.Len(t, fields, 1)
			assert.Equal(t, tt.rule, fields[0].Rule)
			svc.AssertNotCalled(t, "CreateMovie", mock.Anything)
		})
	}
}

const untaggedBody = `{"title":"Matrix","year":1999,"director":"Wachowski","duration":136,"rate":8.7,"genre":[]}`

func untaggedInput() models.MovieInput {
	return models.MovieInput{
		Title: "Matrix", Year: 1999, Director: "Wachowski", Duration: 136, Rate: 8.7, Genres: []string{},
	}
}

func TestCreateMovie_WithoutGenres(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("CreateMovie", untaggedInput()).Return(&models.Movie{ID: movieID, Title: "Matrix"}, nil)

	status, _ := do(t, newTestApp(svc), http.MethodPost, "/movies", untaggedBody)
	assert.Equal(t, http.StatusCreated, status)
	svc.AssertExpectations(t)
}

func TestUpdateMovie_ClearsGenres(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("UpdateMovie", movieID, untaggedInput()).Return(&models.Movie{ID: movieID, Genres: []string{}}, nil)

	status, _ := do(t, newTestApp(svc), http.MethodPut, "/movies/"+movieID, untaggedBody)
	assert.Equal(t, http.StatusOK, status)
	svc.AssertExpectations(t)
}

func TestCreateMovie_MalformedBody(t *testing.T) {
	svc := &mockMovieService{}

	status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestCreateMovie_UnknownGenre(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("CreateMovie", mock.Anything).Return(nil, &repository.GenreNotFoundError{Name: "Sci-Fi"})

	status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", matrixBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "genre 'Sci-Fi' does not exist", env.Message)
}

func TestCreateMovie_StorageFailure(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("CreateMovie", mock.Anything).Return(nil, &repository.CreationError{Err: errors.New("disk full")})

	status, env := do(t, newTestApp(svc), http.MethodPost, "/movies", matrixBody)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to create movie", env.Message)
}

func TestUpdateMovie(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("UpdateMovie", movieID, matrixInput()).Return(&models.Movie{ID: movieID, Genres: []string{"Action", "Sci-Fi"}}, nil)

	status, _ := do(t, newTestApp(svc), http.MethodPut, "/movies/"+movieID, matrixBody)
	assert.Equal(t, http.StatusOK, status)
}

func TestUpdateMovie_NotFound(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("UpdateMovie", movieID, mock.Anything).Return(nil, nil)

	status, _ := do(t, newTestApp(svc), http.MethodPut, "/movies/"+movieID, matrixBody)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateMovie_StorageFailure(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("UpdateMovie", movieID, mock.Anything).Return(nil, &repository.UpdateError{Err: errors.New("timeout")})

	status, _ := do(t, newTestApp(svc), http.MethodPut, "/movies/"+movieID, matrixBody)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestDeleteMovie(t *testing.T) {
	tests := []struct {
		name   string
		result repository.DeleteResult
		err    error
		want   int
	}{
		{name: "success", result: repository.DeleteSuccess, want: http.StatusOK},
		{name: "not found", result: repository.DeleteNotFound, want: http.StatusNotFound},
		{name: "storage failure", result: repository.DeleteStorageFailure, err: &repository.DeletionError{Err: errors.New("boom")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMovieService{}
			svc.On("DeleteMovie", movieID).Return(tt.result, tt.err)

			status, _ := do(t, newTestApp(svc), http.MethodDelete, "/movies/"+movieID, "")
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestGetGenres(t *testing.T) {
	svc := &mockMovieService{}
	svc.On("GetGenres").Return([]models.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}}, nil)

	status, env := do(t, newTestApp(svc), http.MethodGet, "/genres", "")
	assert.Equal(t, http.StatusOK, status)

	var genres []models.Genre
	require.NoError(t, json.Unmarshal(env.Data, &genres))
	assert.Len(t, genres, 2)
}
