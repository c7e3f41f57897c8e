package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"brewery/internal/models"
)

// MockBeerRepository is an in-memory implementation of BeerRepository.
type MockBeerRepository struct {
	beers  map[uint]models.Beer
	nextID uint
	mu     sync.RWMutex
}

// NewMockBeerRepository creates a new instance of MockBeerRepository.
func NewMockBeerRepository() *MockBeerRepository {
	return &MockBeerRepository{
		beers:  make(map[uint]models.Beer),
		nextID: 1,
	}
}

// GetByID returns a beer by its ID.
func (r *MockBeerRepository) GetByID(ctx context.Context, id uint) (*models.Beer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	beer, ok := r.beers[id]
	if !ok {
		return nil, fmt.Errorf("beer with ID %d: %w", id, ErrBeerNotFound)
	}
	return &beer, nil
}

// GetByUPC returns a beer by its UPC.
func (r *MockBeerRepository) GetByUPC(ctx context.Context, upc string) (*models.Beer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, beer := range r.beers {
		if beer.UPC == upc {
			return &beer, nil
		}
	}
	return nil, fmt.Errorf("beer with UPC %s: %w", upc, ErrBeerNotFound)
}

// List returns one page of matching beers ordered by id.
func (r *MockBeerRepository) List(ctx context.Context, filter BeerFilter, offset, limit int) ([]models.Beer, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Beer, 0, len(r.beers))
	for _, beer := range r.beers {
		if filter.BeerName != "" && beer.BeerName != filter.BeerName {
			continue
		}
		if filter.BeerStyle != "" && beer.BeerStyle != filter.BeerStyle {
			continue
		}
		matches = append(matches, beer)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := int64(len(matches))
	offset = max(offset, 0)
	if offset >= len(matches) || limit <= 0 {
		return []models.Beer{}, total, nil
	}
	end := len(matches)
	if limit < end-offset {
		end = offset + limit
	}
	return matches[offset:end], total, nil
}

// Count returns the number of stored beers.
func (r *MockBeerRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.beers)), nil
}

// Create adds a new beer and assigns its ID.
func (r *MockBeerRepository) Create(ctx context.Context, beer *models.Beer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upcTaken(beer.UPC, 0) {
		return fmt.Errorf("beer with UPC %s: %w", beer.UPC, ErrDuplicateUPC)
	}
	beer.ID = r.nextID
	r.nextID++
	r.beers[beer.ID] = *beer
	return nil
}

// Update modifies an existing beer.
func (r *MockBeerRepository) Update(ctx context.Context, id uint, mutate func(*models.Beer)) (*models.Beer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	beer, ok := r.beers[id]
	if !ok {
		return nil, fmt.Errorf("beer with ID %d not found for update: %w", id, ErrBeerNotFound)
	}
	mutate(&beer)
	beer.ID = id
	if r.upcTaken(beer.UPC, id) {
		return nil, fmt.Errorf("beer with UPC %s: %w", beer.UPC, ErrDuplicateUPC)
	}
	r.beers[id] = beer
	return &beer, nil
}

// Delete removes a beer by its ID.
func (r *MockBeerRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.beers[id]; !ok {
		return fmt.Errorf("beer with ID %d not found for deletion: %w", id, ErrBeerNotFound)
	}
	delete(r.beers, id)
	return nil
}

// upcTaken must be called with the lock held.
func (r *MockBeerRepository) upcTaken(upc string, except uint) bool {
	for id, beer := range r.beers {
		if id != except && beer.UPC == upc {
			return true
		}
	}
	return false
}
