package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mihirt/rollcall/internal/repository"
	"github.com/mihirt/rollcall/internal/roster"
)

// RosterHandler accepts roster uploads and runs the import pipeline.
type RosterHandler struct {
	Events   *repository.EventRepo
	Importer *roster.Importer
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(events *repository.EventRepo, importer *roster.Importer) *RosterHandler {
	if events == nil || importer == nil {
		panic("nil dependency passed to NewRosterHandler")
	}
	return &RosterHandler{Events: events, Importer: importer}
}

// ImportRoster handles POST /v1/events/:id/roster.  The request is a
// multipart form with a "file" part containing the CSV roster.  The
// response is the import report: uploaded, skipped and failed row
// counts, which always sum to the total rows considered.
//
// Error mapping follows the import taxonomy: a bad schema or an empty
// roster is the operator's input problem (422), an unreachable store
// before any write is 503 with zero side effects, and per-row failures
// never fail the request — they are counted in the report.
func (h *RosterHandler) ImportRoster(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read file"})
	}
	defer f.Close()

	headers, rows, err := roster.ParseCSV(f)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid csv: " + err.Error()})
	}
	entries, err := roster.Normalize(headers, rows)
	if err != nil {
		var schemaErr *roster.SchemaError
		if errors.As(err, &schemaErr) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error":           "missing required columns",
				"missing_columns": schemaErr.Missing,
			})
		}
		if errors.Is(err, roster.ErrEmptyImport) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no usable rows in roster"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "normalize failed"})
	}

	report, err := h.Importer.Run(ctx, eventID, entries)
	if err != nil {
		var connErr *roster.ConnectivityError
		if errors.As(err, &connErr) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unreachable, nothing imported"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}
	return c.JSON(http.StatusOK, report)
}
