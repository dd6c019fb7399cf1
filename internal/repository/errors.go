package repository

import "fmt"

// GenreNotFoundError reports a genre name with no row in the genre table.
type GenreNotFoundError struct {
	Name string
}

func (e *GenreNotFoundError) Error() string {
	return fmt.Sprintf("genre '%s' does not exist", e.Name)
}

// CreationError wraps a storage failure while creating a movie. The movie may
// have been partially written.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("error creating movie: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// UpdateError wraps a storage failure while updating a movie.
type UpdateError struct {
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("error updating movie: %v", e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// DeletionError wraps a storage failure while deleting a movie.
type DeletionError struct {
	Err error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("error deleting movie: %v", e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
