package repositories

import (
	"context"
	"errors"
	"fmt"

	"brewery/internal/models"

	"gorm.io/gorm"
)

// GORMBeerRepository is a GORM implementation of BeerRepository.
// The *gorm.DB should be opened with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GORMBeerRepository struct {
	db *gorm.DB
}

// NewGORMBeerRepository creates a new instance of GORMBeerRepository.
func NewGORMBeerRepository(db *gorm.DB) *GORMBeerRepository {
	return &GORMBeerRepository{
		db: db,
	}
}

// GetByID retrieves a single beer by its ID from the database.
func (r *GORMBeerRepository) GetByID(ctx context.Context, id uint) (*models.Beer, error) {
	var beer models.Beer
	if err := r.db.WithContext(ctx).First(&beer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beer with ID %d: %w", id, ErrBeerNotFound)
		}
		return nil, fmt.Errorf("failed to get beer by ID %d: %w", id, err)
	}
	return &beer, nil
}

// GetByUPC retrieves a single beer by its UPC from the database.
func (r *GORMBeerRepository) GetByUPC(ctx context.Context, upc string) (*models.Beer, error) {
	var beer models.Beer
	if err := r.db.WithContext(ctx).First(&beer, "upc = ?", upc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beer with UPC %s: %w", upc, ErrBeerNotFound)
		}
		return nil, fmt.Errorf("failed to get beer by UPC %s: %w", upc, err)
	}
	return &beer, nil
}

// List retrieves one page of beers matching filter.
func (r *GORMBeerRepository) List(ctx context.Context, filter BeerFilter, offset, limit int) ([]models.Beer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Beer{})
	if filter.BeerName != "" {
		query = query.Where("beer_name = ?", filter.BeerName)
	}
	if filter.BeerStyle != "" {
		query = query.Where("beer_style = ?", filter.BeerStyle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count beers: %w", err)
	}

	// gorm silently drops a negative Offset, so clamp it here as the in-memory store does.
	offset = max(offset, 0)
	if limit <= 0 || int64(offset) >= total {
		return []models.Beer{}, total, nil
	}
	beers := make([]models.Beer, 0, min(limit, int(total)))
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&beers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list beers: %w", err)
	}
	return beers, total, nil
}

// Count returns the number of stored beers.
func (r *GORMBeerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Beer{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count beers: %w", err)
	}
	return total, nil
}

// Create creates a new beer in the database.
func (r *GORMBeerRepository) Create(ctx context.Context, beer *models.Beer) error {
	if err := r.db.WithContext(ctx).Create(beer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("beer with UPC %s: %w", beer.UPC, ErrDuplicateUPC)
		}
		return fmt.Errorf("failed to create beer: %w", err)
	}
	return nil
}

// Update applies mutate to the stored beer inside a transaction.
func (r *GORMBeerRepository) Update(ctx context.Context, id uint, mutate func(*models.Beer)) (*models.Beer, error) {
	var beer models.Beer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&beer, "id = ?", id).Error; err != nil {
			return err
		}
		mutate(&beer)
		beer.ID = id
		return tx.Save(&beer).Error
	})
	switch {
	case err == nil:
		return &beer, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("beer with ID %d not found for update: %w", id, ErrBeerNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, fmt.Errorf("beer with UPC %s: %w", beer.UPC, ErrDuplicateUPC)
	default:
		return nil, fmt.Errorf("failed to update beer %d: %w", id, err)
	}
}

// Delete deletes a beer by its ID from the database.
func (r *GORMBeerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Beer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete beer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("beer with ID %d not found for deletion: %w", id, ErrBeerNotFound)
	}
	return nil
}
