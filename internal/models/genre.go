package models

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:64" json:"name"`
}

func (Genre) TableName() string {
	return "genres"
}

// MovieGenre links one movie to one genre. The composite primary key keeps
// the pair unique and both columns reference their parent rows.
type MovieGenre struct {
	MovieID string `gorm:"primaryKey;size:36" json:"movie_id"`
	GenreID uint   `gorm:"primaryKey;index" json:"genre_id"`

	Movie Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE" json:"-"`
	Genre Genre `gorm:"foreignKey:GenreID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}
