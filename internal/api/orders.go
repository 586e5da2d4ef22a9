package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
)

func (s *Server) createOrder(c echo.Context) error {
	var input crm.OrderInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	payload, err := s.mutations.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err.Error())
	}
	return ok(c, payload)
}

func (s *Server) listOrders(c echo.Context) error {
	filter := crm.OrderFilter{
		PageQuery:     parsePageQuery(c),
		TotalGte:      queryFloat(c, "total_gte"),
		TotalLte:      queryFloat(c, "total_lte"),
		DateGte:       queryTime(c, "order_date_gte"),
		DateLte:       queryTime(c, "order_date_lte"),
		CustomerName:  strings.TrimSpace(c.QueryParam("customer_name")),
		CustomerEmail: strings.TrimSpace(c.QueryParam("customer_email")),
		ProductName:   strings.TrimSpace(c.QueryParam("product_name")),
	}
	rows, total, err := s.store.Orders().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, filter.Page, filter.PageSize)
}
