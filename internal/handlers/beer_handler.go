package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"brewery/internal/models"
	"brewery/internal/services"
	"brewery/internal/validation"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 1000
)

// Request is the decoded view of an inbound request that handler operations work on.
// Both API surfaces build one from their own routing results.
type Request struct {
	Context context.Context
	Param   func(name string) string
	Query   func(name string) string
	Bind    func(out interface{}) error
}

// Operation is one beer operation, independent of the surface serving it.
// The error return is reserved for upstream failures and cancellation.
type Operation func(r Request) (Outcome, error)

// BeerHandler holds the operations shared by the v1 and v2 surfaces.
type BeerHandler struct {
	service         services.BeerService
	validator       *validation.Validator
	defaultPageSize int
}

// NewBeerHandler creates a new BeerHandler. A non-positive defaultPageSize falls back to DefaultPageSize.
func NewBeerHandler(service services.BeerService, validator *validation.Validator, defaultPageSize int) *BeerHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	return &BeerHandler{
		service:         service,
		validator:       validator,
		defaultPageSize: defaultPageSize,
	}
}

// GetBeerByID looks a beer up by id, honouring the showInventory query flag.
func (h *BeerHandler) GetBeerByID(r Request) (Outcome, error) {
	id, err := parseID(r.Param("beerId"))
	if err != nil {
		return malformed("Invalid beer id"), nil
	}
	showInventory, err := parseBool(r.Query("showInventory"))
	if err != nil {
		return malformed("Invalid showInventory value"), nil
	}

	beer, err := h.service.GetByID(r.Context, id, showInventory)
	if err := settle(r.Context, err); err != nil {
		if errors.Is(err, services.ErrBeerNotFound) {
			return notFound(), nil
		}
		return Outcome{}, err
	}
	return found(beer), nil
}

// GetBeerByUPC looks a beer up by its product code.
func (h *BeerHandler) GetBeerByUPC(r Request) (Outcome, error) {
	upc := r.Param("upc")
	if strings.TrimSpace(upc) == "" {
		return malformed("Invalid upc"), nil
	}

	beer, err := h.service.GetByUPC(r.Context, upc)
	if err := settle(r.Context, err); err != nil {
		if errors.Is(err, services.ErrBeerNotFound) {
			return notFound(), nil
		}
		return Outcome{}, err
	}
	return found(beer), nil
}

// ListBeers returns a page of beers. It always yields a page, possibly empty.
func (h *BeerHandler) ListBeers(r Request) (Outcome, error) {
	query, problem := h.listQuery(r)
	if problem != "" {
		return malformed(problem), nil
	}

	page, err := h.service.ListBeers(r.Context, query)
	if err := settle(r.Context, err); err != nil {
		return Outcome{}, err
	}
	return found(page), nil
}

// SaveNewBeer decodes and validates a draft before handing it to the service.
func (h *BeerHandler) SaveNewBeer(r Request) (Outcome, error) {
	draft, rejected := h.decodeDraft(r)
	if rejected != nil {
		return *rejected, nil
	}

	saved, err := h.service.SaveNewBeer(r.Context, draft)
	if err := settle(r.Context, err); err != nil {
		if errors.Is(err, services.ErrDuplicateUPC) {
			return conflict("A beer with this upc already exists"), nil
		}
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeCreated, ID: saved.ID}, nil
}

// UpdateBeer replaces the mutable fields of the beer named by the path id.
// An id inside the body is ignored.
func (h *BeerHandler) UpdateBeer(r Request) (Outcome, error) {
	id, err := parseID(r.Param("beerId"))
	if err != nil {
		return malformed("Invalid beer id"), nil
	}
	draft, rejected := h.decodeDraft(r)
	if rejected != nil {
		return *rejected, nil
	}

	_, err = h.service.UpdateBeer(r.Context, id, draft)
	if err := settle(r.Context, err); err != nil {
		switch {
		case errors.Is(err, services.ErrBeerNotFound):
			return notFound(), nil
		case errors.Is(err, services.ErrDuplicateUPC):
			return conflict("A beer with this upc already exists"), nil
		}
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeUpdated, ID: id}, nil
}

// DeleteBeerByID removes a beer. An absent id is reported as not found.
func (h *BeerHandler) DeleteBeerByID(r Request) (Outcome, error) {
	id, err := parseID(r.Param("beerId"))
	if err != nil {
		return malformed("Invalid beer id"), nil
	}

	err = h.service.DeleteBeerByID(r.Context, id)
	if err := settle(r.Context, err); err != nil {
		if errors.Is(err, services.ErrBeerNotFound) {
			return notFound(), nil
		}
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeDeleted, ID: id}, nil
}

// decodeDraft returns a non-nil outcome when the body cannot be used.
func (h *BeerHandler) decodeDraft(r Request) (models.BeerDto, *Outcome) {
	var draft models.BeerDto
	if err := r.Bind(&draft); err != nil {
		o := malformed("Invalid request body")
		return draft, &o
	}
	if violations := h.validator.Validate(&draft); len(violations) > 0 {
		o := invalid(violations)
		return draft, &o
	}
	draft.ID = 0
	draft.CreatedDate = nil
	draft.LastUpdatedDate = nil
	return draft, nil
}

func (h *BeerHandler) listQuery(r Request) (services.ListQuery, string) {
	query := services.ListQuery{PageNumber: 0, PageSize: h.defaultPageSize}

	if raw := r.Query("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query, "Invalid pageNumber"
		}
		if n >= 0 {
			query.PageNumber = n
		}
	}
	if raw := r.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query, "Invalid pageSize"
		}
		if n >= 1 {
			query.PageSize = min(n, MaxPageSize)
		}
	}

	query.BeerName = r.Query("beerName")
	if raw := r.Query("beerStyle"); raw != "" {
		style := models.BeerStyle(raw)
		if !style.IsValid() {
			return query, "Invalid beerStyle"
		}
		query.BeerStyle = style
	}

	showInventory, err := parseBool(r.Query("showInventoryOnHand"))
	if err != nil {
		return query, "Invalid showInventoryOnHand value"
	}
	query.ShowInventoryOnHand = showInventory
	return query, ""
}

// settle folds a cancelled request context into the error so that no outcome
// is produced for a request nobody is waiting on.
func settle(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
