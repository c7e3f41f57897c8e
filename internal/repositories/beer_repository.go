package repositories

import (
	"context"
	"errors"

	"brewery/internal/models"
)

var (
	// ErrBeerNotFound is returned when no beer matches the requested key.
	ErrBeerNotFound = errors.New("beer not found")
	// ErrDuplicateUPC is returned when a write would give two beers the same UPC.
	ErrDuplicateUPC = errors.New("beer upc already exists")
)

// BeerFilter narrows a listing. Empty fields do not filter.
type BeerFilter struct {
	BeerName  string
	BeerStyle models.BeerStyle
}

// BeerRepository defines the interface for beer data access.
type BeerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Beer, error)
	GetByUPC(ctx context.Context, upc string) (*models.Beer, error)
	// List returns the requested page ordered by id, plus the total number of matches.
	List(ctx context.Context, filter BeerFilter, offset, limit int) ([]models.Beer, int64, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, beer *models.Beer) error
	// Update loads the beer with the given id, lets mutate change it and stores the result.
	Update(ctx context.Context, id uint, mutate func(*models.Beer)) (*models.Beer, error)
	Delete(ctx context.Context, id uint) error
}
