package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewery/internal/router"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headers(values map[string]string) router.HeaderFunc {
	return func(key string) string { return values[key] }
}

func named(name string) router.HandlerFunc {
	return func(c *fiber.Ctx, params router.Params) error {
		return c.SendString(name + ":" + params.Get("beerId") + params.Get("upc"))
	}
}

func beerTable() *router.Table {
	json := router.Accept(fiber.MIMEApplicationJSON)
	return router.New("api/v2").
		GET("/beer", json, named("list")).
		GET("/beer/{beerId}", json, named("byId")).
		GET("/beerUpc/{upc}", json, named("byUpc")).
		POST("/beer", json, named("create")).
		PUT("/beer/{beerId}", json, named("update")).
		DELETE("/beer/{beerId}", nil, named("delete"))
}

func TestResolve_MatchesMethodPathAndExtractsPlaceholders(t *testing.T) {
	table := beerTable()
	accept := headers(map[string]string{"Accept": "application/json"})

	binding, params, err := table.Resolve(http.MethodGet, "/api/v2/beer/42", accept)
	require.NoError(t, err)
	assert.Equal(t, "/beer/{beerId}", binding.Pattern)
	assert.Equal(t, "42", params.Get("beerId"))

	binding, params, err = table.Resolve(http.MethodPut, "/api/v2/beer/abc/", accept)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, binding.Method)
	assert.Equal(t, "abc", params.Get("beerId"), "coercion is left to the handler")

	binding, params, err = table.Resolve(http.MethodGet, "/api/v2/beerUpc/0631%20234", accept)
	require.NoError(t, err)
	assert.Equal(t, "/beerUpc/{upc}", binding.Pattern)
	assert.Equal(t, "0631 234", params.Get("upc"))

	binding, params, err = table.Resolve(http.MethodGet, "/api/v2/beer", accept)
	require.NoError(t, err)
	assert.Equal(t, "/beer", binding.Pattern)
	assert.Empty(t, params)
}

func TestResolve_NoRoute(t *testing.T) {
	table := beerTable()
	accept := headers(map[string]string{"Accept": "application/json"})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/beer/1"},
		{http.MethodGet, "/api/v2beer/1"},
		{http.MethodPatch, "/api/v2/beer/1"},
		{http.MethodGet, "/api/v2/beer/1/extra"},
		{http.MethodPost, "/api/v2/beer/1"},
		{http.MethodGet, "/api/v2/brewery"},
	}
	for _, tc := range cases {
		_, _, err := table.Resolve(tc.method, tc.path, accept)
		assert.ErrorIs(t, err, router.ErrNoRoute, "%s %s", tc.method, tc.path)
	}
}

func TestResolve_PredicateRejectsNonJSON(t *testing.T) {
	table := beerTable()

	_, _, err := table.Resolve(http.MethodGet, "/api/v2/beer/1", headers(map[string]string{"Accept": "text/html"}))
	assert.ErrorIs(t, err, router.ErrNoRoute)

	// The delete binding has no predicate.
	binding, _, err := table.Resolve(http.MethodDelete, "/api/v2/beer/1", headers(map[string]string{"Accept": "text/html"}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, binding.Method)
}

func TestResolve_FirstBindingWins(t *testing.T) {
	table := router.New("/api").
		GET("/beer/{id}", nil, named("first")).
		GET("/beer/{other}", nil, named("second"))

	binding, params, err := table.Resolve(http.MethodGet, "/api/beer/1", headers(nil))
	require.NoError(t, err)
	assert.Equal(t, "/beer/{id}", binding.Pattern)
	assert.Equal(t, "1", params.Get("id"))
	assert.Len(t, table.Bindings(), 2)
}

func TestAccept(t *testing.T) {
	json := router.Accept(fiber.MIMEApplicationJSON)

	cases := map[string]bool{
		"":                                    true,
		"application/json":                    true,
		"Application/JSON":                    true,
		"application/json;charset=UTF-8":      true,
		"text/html, application/*;q=0.8":      true,
		"*/*":                                 true,
		"text/html":                           false,
		"application/xml":                     false,
		"application/json;q=0, text/plain":    false,
		"text/plain, application/json; q=0":   false,
		"application/json;q=0, */*":           false,
		"application/*;q=0, */*":              false,
		"application/*;q=0, application/json": true,
		"*/*;q=0, application/json;q=0.5":     true,
		"*/*;q=0":                             false,
	}
	for accept, want := range cases {
		got := json(headers(map[string]string{"Accept": accept}))
		assert.Equal(t, want, got, "Accept: %q", accept)
	}
}

func TestMount_DispatchesAndFallsThrough(t *testing.T) {
	app := fiber.New()
	beerTable().Mount(app)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/beer/5", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "byId:5", string(body))

	req = httptest.NewRequest(http.MethodGet, "/api/v2/beer/5", nil)
	req.Header.Set("Accept", "text/html")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
