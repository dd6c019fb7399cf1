package models

import (
	"time"
)

type Movie struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" example:"5ad1a235-0d9c-11ef-a3b1-0242ac110002"`
	Title     string    `gorm:"not null;index" json:"title" example:"The Matrix"`
	Year      int       `gorm:"not null;index" json:"year" example:"1999"`
	Director  string    `gorm:"not null" json:"director" example:"Lana Wachowski"`
	Duration  int       `gorm:"not null" json:"duration" example:"136"`
	Poster    string    `json:"poster" example:"https://i.ebayimg.com/images/g/QFQAAOSwAQpfjaA6/s-l1200.jpg"`
	Rate      float64   `gorm:"not null;default:0" json:"rate" example:"8.7"`
	Genres    []string  `gorm:"-" json:"genre,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieInput carries the caller supplied fields for create and update.
// Genres is ordered as given by the caller.
type MovieInput struct {
	Title    string
	Year     int
	Director string
	Duration int
	Rate     float64
	Poster   string
	Genres   []string
}

// Columns returns every scalar movie column keyed by its column name.
func (in MovieInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"title":    in.Title,
		"year":     in.Year,
		"director": in.Director,
		"duration": in.Duration,
		"rate":     in.Rate,
		"poster":   in.Poster,
	}
}
