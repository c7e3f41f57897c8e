package handlers

import (
	"brewery/internal/router"

	"github.com/gofiber/fiber/v2"
)

const (
	APIPrefixV2   = "/api/v2"
	BeerPathV2    = APIPrefixV2 + "/beer"
	BeerUpcPathV2 = APIPrefixV2 + "/beerUpc"
)

// NewBeerRouterV2 builds the declarative /api/v2 route table over the same handler set.
func NewBeerRouterV2(handler *BeerHandler) *router.Table {
	responses := V2Responses(BeerPathV2)
	serve := func(op Operation) router.HandlerFunc {
		return func(c *fiber.Ctx, params router.Params) error {
			return run(c, op, responses, params.Get)
		}
	}
	json := router.Accept(fiber.MIMEApplicationJSON)

	return router.New(APIPrefixV2).
		GET("/beer", json, serve(handler.ListBeers)).
		GET("/beer/{beerId}", json, serve(handler.GetBeerByID)).
		GET("/beerUpc/{upc}", json, serve(handler.GetBeerByUPC)).
		POST("/beer", json, serve(handler.SaveNewBeer)).
		PUT("/beer/{beerId}", json, serve(handler.UpdateBeer)).
		DELETE("/beer/{beerId}", json, serve(handler.DeleteBeerByID))
}
