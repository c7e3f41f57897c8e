package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"brewery/internal/models"
	"brewery/internal/repositories"
	"brewery/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBeerRepository is a mock implementation of repositories.BeerRepository
type MockBeerRepository struct {
	mock.Mock
}

func (m *MockBeerRepository) GetByID(ctx context.Context, id uint) (*models.Beer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Beer), args.Error(1)
}

func (m *MockBeerRepository) GetByUPC(ctx context.Context, upc string) (*models.Beer, error) {
	args := m.Called(ctx, upc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Beer), args.Error(1)
}

func (m *MockBeerRepository) List(ctx context.Context, filter repositories.BeerFilter, offset, limit int) ([]models.Beer, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]models.Beer), args.Get(1).(int64), args.Error(2)
}

func (m *MockBeerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBeerRepository) Create(ctx context.Context, beer *models.Beer) error {
	args := m.Called(ctx, beer)
	return args.Error(0)
}

func (m *MockBeerRepository) Update(ctx context.Context, id uint, mutate func(*models.Beer)) (*models.Beer, error) {
	args := m.Called(ctx, id, mutate)
	if fn, ok := args.Get(0).(func(context.Context, uint, func(*models.Beer)) *models.Beer); ok {
		return fn(ctx, id, mutate), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Beer), args.Error(1)
}

func (m *MockBeerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func storedBeer() *models.Beer {
	created := fixedNow.Add(-24 * time.Hour)
	return &models.Beer{
		ID:               1,
		BeerName:         "Mango Bobs",
		BeerStyle:        models.BeerStyleAle,
		UPC:              "0631234200036",
		Price:            decimal.RequireFromString("12.95"),
		QuantityOnHand:   30,
		CreatedDate:      created,
		LastModifiedDate: created,
	}
}

func TestBeerService_GetByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo, services.WithClock(clock))

	mockRepo.On("GetByID", ctx, uint(1)).Return(storedBeer(), nil).Twice()

	hidden, err := service.GetByID(ctx, 1, false)
	require.NoError(t, err)
	assert.Nil(t, hidden.QuantityOnHand)

	shown, err := service.GetByID(ctx, 1, true)
	require.NoError(t, err)
	require.NotNil(t, shown.QuantityOnHand)
	assert.Equal(t, 30, *shown.QuantityOnHand)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, fmt.Errorf("beer with ID 99: %w", repositories.ErrBeerNotFound)).Once()
	_, err = service.GetByID(ctx, 99, false)
	assert.ErrorIs(t, err, services.ErrBeerNotFound)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_GetByUPC(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo)

	mockRepo.On("GetByUPC", ctx, "0631234200036").Return(storedBeer(), nil).Once()
	dto, err := service.GetByUPC(ctx, "0631234200036")
	require.NoError(t, err)
	assert.Equal(t, "Mango Bobs", dto.BeerName)
	assert.Nil(t, dto.QuantityOnHand)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_ListBeers(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo)

	filter := repositories.BeerFilter{BeerStyle: models.BeerStyleAle}
	mockRepo.On("List", ctx, filter, 10, 5).Return([]models.Beer{*storedBeer()}, int64(11), nil).Once()

	page, err := service.ListBeers(ctx, services.ListQuery{PageNumber: 2, PageSize: 5, BeerStyle: models.BeerStyleAle})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, int64(11), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Nil(t, page.Content[0].QuantityOnHand)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_ListBeersFarPageDoesNotOverflow(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo)

	mockRepo.On("List", ctx, repositories.BeerFilter{}, math.MaxInt, 2).Return([]models.Beer{}, int64(3), nil).Once()

	page, err := service.ListBeers(ctx, services.ListQuery{PageNumber: math.MaxInt/2 + 1, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, math.MaxInt/2+1, page.PageNumber)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_SaveNewBeer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	mockMQ := new(MockPublisher)
	service := services.NewBeerService(mockRepo, services.WithClock(clock), services.WithPublisher(mockMQ))

	draft := models.BeerDto{
		ID:        42,
		BeerName:  "JTs Beer",
		BeerStyle: models.BeerStylePaleAle,
		UPC:       "1233455",
		Price:     decimal.RequireFromString("8.99"),
	}

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Beer")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Beer).ID = 7
	}).Return(nil).Once()
	mockMQ.On("Publish", services.EventBeerCreated, mock.MatchedBy(func(body []byte) bool {
		var event services.BeerEvent
		return json.Unmarshal(body, &event) == nil && event.BeerID == 7 && event.UPC == "1233455"
	})).Return(nil).Once()

	saved, err := service.SaveNewBeer(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, uint(7), saved.ID)
	assert.Equal(t, fixedNow, *saved.CreatedDate)
	assert.Equal(t, *saved.CreatedDate, *saved.LastUpdatedDate)
	require.NotNil(t, saved.QuantityOnHand)
	assert.Equal(t, 0, *saved.QuantityOnHand)
	mockRepo.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestBeerService_SaveNewBeerDuplicateUPC(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	mockMQ := new(MockPublisher)
	service := services.NewBeerService(mockRepo, services.WithPublisher(mockMQ))

	mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("beer with UPC x: %w", repositories.ErrDuplicateUPC)).Once()

	_, err := service.SaveNewBeer(ctx, models.BeerDto{BeerName: "x", BeerStyle: models.BeerStyleAle, UPC: "x"})
	assert.ErrorIs(t, err, services.ErrDuplicateUPC)
	mockMQ.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBeerService_UpdateBeer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo, services.WithClock(clock))

	existing := storedBeer()
	draft := models.BeerDto{ID: 555, BeerName: "JTs Beer", BeerStyle: models.BeerStylePaleAle, UPC: "1233455", Price: decimal.RequireFromString("8.99")}

	mockRepo.On("Update", ctx, uint(1), mock.Anything).Return(func(_ context.Context, _ uint, mutate func(*models.Beer)) *models.Beer {
		mutate(existing)
		return existing
	}, nil).Once()

	updated, err := service.UpdateBeer(ctx, 1, draft)
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.ID)
	assert.Equal(t, "JTs Beer", updated.BeerName)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), *updated.CreatedDate)
	assert.Equal(t, fixedNow, *updated.LastUpdatedDate)
	assert.Equal(t, 30, *updated.QuantityOnHand)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_UpdateBeerNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	service := services.NewBeerService(mockRepo)

	mockRepo.On("Update", ctx, uint(999), mock.Anything).Return(nil, fmt.Errorf("beer with ID 999 not found for update: %w", repositories.ErrBeerNotFound)).Once()

	_, err := service.UpdateBeer(ctx, 999, models.BeerDto{})
	assert.ErrorIs(t, err, services.ErrBeerNotFound)
	mockRepo.AssertExpectations(t)
}

func TestBeerService_DeleteBeerByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBeerRepository)
	mockMQ := new(MockPublisher)
	service := services.NewBeerService(mockRepo, services.WithPublisher(mockMQ))

	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	mockMQ.On("Publish", services.EventBeerDeleted, mock.Anything).Return(errors.New("broker down")).Once()

	// A failed publish does not fail the delete.
	assert.NoError(t, service.DeleteBeerByID(ctx, 1))

	mockRepo.On("Delete", ctx, uint(1)).Return(fmt.Errorf("beer with ID 1 not found for deletion: %w", repositories.ErrBeerNotFound)).Once()
	assert.ErrorIs(t, service.DeleteBeerByID(ctx, 1), services.ErrBeerNotFound)

	mockRepo.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestBeerService_AgainstMockRepository(t *testing.T) {
	ctx := context.Background()
	service := services.NewBeerService(repositories.NewMockBeerRepository())

	saved, err := service.SaveNewBeer(ctx, models.BeerDto{BeerName: "Galaxy Cat", BeerStyle: models.BeerStylePaleAle, UPC: "9122089364369"})
	require.NoError(t, err)

	fetched, err := service.GetByID(ctx, saved.ID, false)
	require.NoError(t, err)
	assert.Equal(t, saved.BeerName, fetched.BeerName)
	assert.Equal(t, saved.UPC, fetched.UPC)
	assert.Equal(t, *fetched.CreatedDate, *fetched.LastUpdatedDate)

	updated, err := service.UpdateBeer(ctx, saved.ID, models.BeerDto{BeerName: "Galaxy Cat 2", BeerStyle: models.BeerStyleIPA, UPC: "9122089364369"})
	require.NoError(t, err)
	assert.False(t, updated.LastUpdatedDate.Before(*fetched.LastUpdatedDate))
	assert.Equal(t, *fetched.CreatedDate, *updated.CreatedDate)
}
