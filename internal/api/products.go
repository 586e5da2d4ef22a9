package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
)

func (s *Server) createProduct(c echo.Context) error {
	var input crm.ProductInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if strings.TrimSpace(input.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Product name is required", nil)
	}
	payload, err := s.mutations.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, payload)
}

// restockProducts backs the low-stock cron job: every product below the
// threshold gets topped up and returned.
func (s *Server) restockProducts(c echo.Context) error {
	payload, err := s.mutations.RestockLowStock(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to restock products", err.Error())
	}
	return ok(c, payload)
}

func (s *Server) listProducts(c echo.Context) error {
	filter := crm.ProductFilter{
		PageQuery: parsePageQuery(c),
		Name:      strings.TrimSpace(c.QueryParam("name")),
		PriceGte:  queryFloat(c, "price_gte"),
		PriceLte:  queryFloat(c, "price_lte"),
		StockGte:  queryInt(c, "stock_gte"),
		StockLte:  queryInt(c, "stock_lte"),
	}
	rows, total, err := s.store.Products().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, filter.Page, filter.PageSize)
}
