package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
)

// ReportSummary is the rollup consumed by the daily report job.
type ReportSummary struct {
	Customers   int64   `json:"customers"`
	Orders      int64   `json:"orders"`
	Revenue     float64 `json:"revenue"`
	MeanOrder   float64 `json:"mean_order"`
	MedianOrder float64 `json:"median_order"`
}

func (s *Server) reportSummary(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := s.store.Customers().Count(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count customers", err.Error())
	}
	amounts, err := s.store.Orders().Amounts(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	summary := ReportSummary{
		Customers: customers,
		Orders:    int64(len(amounts)),
	}
	for _, a := range amounts {
		summary.Revenue += a
	}
	if len(amounts) > 0 {
		summary.MeanOrder, _ = stats.Mean(amounts)
		summary.MedianOrder, _ = stats.Median(amounts)
	}
	return ok(c, summary)
}
