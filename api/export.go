package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minasamy417/resultsboard/export"
	"github.com/minasamy417/resultsboard/report"
)

type exportRequest struct {
	Format       string `json:"format"`
	Title        string `json:"title"`
	ContextTitle string `json:"context_title"`
}

// Export generates a downloadable snapshot of a dataset's rows.
// POST /v1/datasets/:dataset_id/export
//
// Only one export per dataset runs at a time. A second request while a
// file is still being generated gets 409, and the guard clears on
// failure so the next attempt is not locked out.
func (h *Handler) Export(c echo.Context) error {
	ctx := c.Request().Context()
	datasetID := c.Param("dataset_id")

	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Format != "xlsx" && req.Format != "png" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be xlsx or png"})
	}
	if req.Title == "" {
		req.Title = "report"
	}

	if !h.beginExport(datasetID) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "an export is already in progress"})
	}
	defer h.endExport(datasetID)

	records, err := h.store.GetRecords(ctx, datasetID)
	if err != nil {
		h.log.Error("failed to get records", "dataset_id", datasetID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get records"})
	}
	rows := report.Rows(records)

	var buf bytes.Buffer
	var contentType string
	switch req.Format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(rows, &buf)
	case "png":
		contentType = "image/png"
		err = export.WritePNG(rows, req.Title, h.config.ExportFontPath, &buf)
	}
	if err != nil {
		h.log.Error("failed to generate export", "dataset_id", datasetID, "format", req.Format, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to generate export"})
	}

	filename := report.Filename(req.Title, req.ContextTitle, req.Format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (h *Handler) beginExport(datasetID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exporting[datasetID] {
		return false
	}
	h.exporting[datasetID] = true
	return true
}

func (h *Handler) endExport(datasetID string) {
	h.mu.Lock()
	delete(h.exporting, datasetID)
	h.mu.Unlock()
}
