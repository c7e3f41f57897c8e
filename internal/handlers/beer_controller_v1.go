package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

const (
	BeerPathV1    = "/api/v1/beer"
	BeerUpcPathV1 = "/api/v1/beerUpc"
)

// BeerControllerV1 serves the legacy /api/v1 surface with routes registered directly on Fiber.
type BeerControllerV1 struct {
	handler   *BeerHandler
	responses ResponseMapper
}

// NewBeerControllerV1 creates a new BeerControllerV1.
func NewBeerControllerV1(handler *BeerHandler) *BeerControllerV1 {
	return &BeerControllerV1{
		handler:   handler,
		responses: V1Responses(BeerPathV1),
	}
}

// RegisterRoutes registers the v1 beer routes on the api/v1 group.
func (ctl *BeerControllerV1) RegisterRoutes(r fiber.Router) {
	r.Get("/beer", ctl.serve(ctl.handler.ListBeers))
	r.Get("/beer/:beerId", ctl.serve(ctl.handler.GetBeerByID))
	r.Get("/beerUpc/:upc", ctl.serve(ctl.handler.GetBeerByUPC))
	r.Post("/beer", ctl.serve(ctl.handler.SaveNewBeer))
	r.Put("/beer/:beerId", ctl.serve(ctl.handler.UpdateBeer))
	r.Delete("/beer/:beerId", ctl.serve(ctl.handler.DeleteBeerByID))
}

func (ctl *BeerControllerV1) serve(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(c, op, ctl.responses, func(name string) string { return pathParam(c, name) })
	}
}

// pathParam returns the unescaped value of a route parameter. Fiber leaves escapes in place.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return value
}

// run decodes the request through op and renders its outcome. Errors go to the app's ErrorHandler.
func run(c *fiber.Ctx, op Operation, responses ResponseMapper, param func(string) string) error {
	outcome, err := op(Request{
		Context: c.UserContext(),
		Param:   param,
		Query:   func(name string) string { return c.Query(name) },
		Bind:    c.BodyParser,
	})
	if err != nil {
		return err
	}
	return responses.Write(c, outcome)
}
