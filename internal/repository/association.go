package repository

import (
	"errors"

	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssociationReconciler moves the genre associations of one movie from a
// current name set to a desired one, one row at a time.
type AssociationReconciler struct{}

// Diff returns desired minus current and current minus desired. Names compare
// exactly; each result keeps the order of its source slice without duplicates.
func (AssociationReconciler) Diff(current, desired []string) (toAdd, toRemove []string) {
	return difference(desired, current), difference(current, desired)
}

// Reconcile applies the adds, then the removes. Statements are issued one by
// one so, outside a transaction, a failure leaves the rows processed so far in
// place: an unknown genre stops the remaining work with a *GenreNotFoundError
// but the adds already inserted stay.
func (rc AssociationReconciler) Reconcile(tx *gorm.DB, movieID string, current, desired []string) error {
	toAdd, toRemove := rc.Diff(current, desired)

	for _, name := range toAdd {
		genreID, err := resolveGenre(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&models.MovieGenre{MovieID: movieID, GenreID: genreID}).Error; err != nil {
			return err
		}
	}

	for _, name := range toRemove {
		genreID, err := resolveGenre(tx, name)
		if err != nil {
			// A name that no longer resolves has no association row to remove.
			var notFound *GenreNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
		err = tx.Where("movie_id = ? AND genre_id = ?", movieID, genreID).
			Delete(&models.MovieGenre{}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func difference(from, minus []string) []string {
	exclude := make(map[string]struct{}, len(minus))
	for _, name := range minus {
		exclude[name] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(from))
	for _, name := range from {
		if _, ok := exclude[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
