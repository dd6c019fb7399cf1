package handlers

import "movie-catalog/internal/models"

// MovieRequest is the body accepted by create and update.
type MovieRequest struct {
	Title    string   `json:"title" validate:"required,max=255" example:"The Matrix"`
	Year     int      `json:"year" validate:"required,min=1900,max=2100" example:"1999"`
	Director string   `json:"director" validate:"required,max=255" example:"Lana Wachowski"`
	Duration int      `json:"duration" validate:"required,gt=0" example:"136"`
	Rate     float64  `json:"rate" validate:"gte=0,lte=10" example:"8.7"`
	Poster   string   `json:"poster" validate:"omitempty,url" example:"https://example.com/matrix.jpg"`
	Genre    []string `json:"genre" validate:"required,dive,required" example:"Action,Sci-Fi"`
}

func (r MovieRequest) toInput() models.MovieInput {
	return models.MovieInput{
		Title:    r.Title,
		Year:     r.Year,
		Director: r.Director,
		Duration: r.Duration,
		Rate:     r.Rate,
		Poster:   r.Poster,
		Genres:   r.Genre,
	}
}
