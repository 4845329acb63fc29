package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minasamy417/resultsboard/aggregate"
	"github.com/minasamy417/resultsboard/report"
)

// GetSummaries returns per-person aggregates for a dataset.
// GET /v1/datasets/:dataset_id/summaries
func (h *Handler) GetSummaries(c echo.Context) error {
	ctx := c.Request().Context()
	datasetID := c.Param("dataset_id")

	records, err := h.store.GetRecords(ctx, datasetID)
	if err != nil {
		h.log.Error("failed to get records", "dataset_id", datasetID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get records"})
	}

	summaries := aggregate.Aggregate(records)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"summaries":     summaries,
		"total_records": len(records),
	})
}

// GetRecords returns a windowed slice of display rows for a dataset.
// GET /v1/datasets/:dataset_id/records
func (h *Handler) GetRecords(c echo.Context) error {
	ctx := c.Request().Context()
	datasetID := c.Param("dataset_id")

	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize <= 0 {
		pageSize = h.config.PageSize
	}
	pages, _ := strconv.Atoi(c.QueryParam("pages"))
	if pages <= 0 {
		pages = 1
	}

	records, err := h.store.GetRecords(ctx, datasetID)
	if err != nil {
		h.log.Error("failed to get records", "dataset_id", datasetID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get records"})
	}

	window := report.Window(records, pageSize, pages)
	remaining := len(records) - len(window)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":      report.Rows(window),
		"has_more":  remaining > 0,
		"remaining": remaining,
		"total":     len(records),
	})
}
