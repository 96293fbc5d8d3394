package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mihirt/rollcall/internal/codec"
	"github.com/mihirt/rollcall/internal/model"
	"github.com/mihirt/rollcall/internal/repository"
)

// AttendeeHandler serves attendee listings and the scannable QR image
// of an attendee's identifier payload.
type AttendeeHandler struct {
	Events    *repository.EventRepo
	Attendees *repository.AttendeeRepo
}

// NewAttendeeHandler constructs an AttendeeHandler.
func NewAttendeeHandler(events *repository.EventRepo, attendees *repository.AttendeeRepo) *AttendeeHandler {
	if events == nil || attendees == nil {
		panic("nil repository passed to NewAttendeeHandler")
	}
	return &AttendeeHandler{Events: events, Attendees: attendees}
}

type attendeeResp struct {
	ID          uint64     `json:"id"`
	EventID     uint64     `json:"event_id"`
	PRN         string     `json:"prn"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Mobile      string     `json:"mobile,omitempty"`
	Year        string     `json:"year,omitempty"`
	CheckedIn   bool       `json:"checked_in"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAttendeeResp(a model.Attendee) attendeeResp {
	return attendeeResp{
		ID: a.ID, EventID: a.EventID, PRN: a.PRN, Name: a.Name,
		Email: a.Email, Mobile: a.Mobile, Year: a.Year,
		CheckedIn: a.CheckedIn, CheckInTime: a.CheckInTime, CreatedAt: a.CreatedAt,
	}
}

// ListAttendees handles GET /v1/events/:id/attendees.  The optional
// ?checked_in=true|false query parameter filters by check-in state.
func (h *AttendeeHandler) ListAttendees(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var filter *bool
	if q := c.QueryParam("checked_in"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checked_in filter"})
		}
		filter = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	attendees, err := h.Attendees.ListByEvent(ctx, eventID, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list attendees failed"})
	}
	resp := make([]attendeeResp, 0, len(attendees))
	for _, a := range attendees {
		resp = append(resp, toAttendeeResp(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// AttendeeQR handles GET /v1/attendees/:id/qr.png and renders the
// attendee's identifier payload as a QR PNG.  The optional ?size=
// parameter sets the pixel size (default 256, capped at 1024).
func (h *AttendeeHandler) AttendeeQR(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	size := 256
	if q := c.QueryParam("size"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 1024 {
			size = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attendees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attendee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attendee failed"})
	}
	png, err := codec.RenderPNG(a.Payload, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
