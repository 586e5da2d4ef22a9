package api

import (
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
)

func (s *Server) createCustomer(c echo.Context) error {
	var input crm.CustomerInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", nil)
	}
	if strings.TrimSpace(input.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Customer name is required", nil)
	}
	payload, err := s.mutations.CreateCustomer(c.Request().Context(), input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	return ok(c, payload)
}

type bulkCustomersRequest struct {
	Input []crm.CustomerInput `json:"input"`
}

func (s *Server) bulkCreateCustomers(c echo.Context) error {
	var req bulkCustomersRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer list", nil)
	}
	payload, err := s.mutations.BulkCreateCustomers(c.Request().Context(), req.Input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Bulk create failed, batch rolled back", err.Error())
	}
	return ok(c, payload)
}

type customerCsvRow struct {
	Name  string `csv:"name"`
	Email string `csv:"email"`
	Phone string `csv:"phone"`
}

// importCustomers accepts a CSV upload (columns name,email,phone) and
// funnels the rows through the same bulk mutation, so row tagging and the
// batch transaction apply unchanged.
func (s *Server) importCustomers(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "MISSING_FILE", "CSV file is required", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to open upload", nil)
	}
	defer f.Close()

	var rows []customerCsvRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}

	inputs := make([]crm.CustomerInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, crm.CustomerInput{
			Name:  strings.TrimSpace(row.Name),
			Email: strings.TrimSpace(row.Email),
			Phone: strings.TrimSpace(row.Phone),
		})
	}
	payload, err := s.mutations.BulkCreateCustomers(c.Request().Context(), inputs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Import failed, batch rolled back", err.Error())
	}
	return ok(c, payload)
}

func (s *Server) listCustomers(c echo.Context) error {
	filter := crm.CustomerFilter{
		PageQuery:  parsePageQuery(c),
		Name:       strings.TrimSpace(c.QueryParam("name")),
		Email:      strings.TrimSpace(c.QueryParam("email")),
		Phone:      strings.TrimSpace(c.QueryParam("phone")),
		CreatedGte: queryTime(c, "created_gte"),
		CreatedLte: queryTime(c, "created_lte"),
	}
	rows, total, err := s.store.Customers().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, filter.Page, filter.PageSize)
}
