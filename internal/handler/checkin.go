package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mihirt/rollcall/internal/checkin"
	"github.com/mihirt/rollcall/internal/debounce"
	"github.com/mihirt/rollcall/internal/queue"
	"github.com/mihirt/rollcall/internal/scope"
	queue_publisher "github.com/mihirt/rollcall/internal/service"
)

// CheckInHandler resolves scanned or typed codes against the active
// event.  The debounce guard sits in front of the resolver so a rapid
// camera feed does not fire dozens of resolutions for one physical
// presentation of a code; the resolver itself stays idempotent either
// way.
type CheckInHandler struct {
	Resolver *checkin.Resolver
	Scope    *scope.Selector
	Guard    *debounce.Guard
}

// NewCheckInHandler constructs a CheckInHandler.
func NewCheckInHandler(resolver *checkin.Resolver, sel *scope.Selector, guard *debounce.Guard) *CheckInHandler {
	if resolver == nil || sel == nil || guard == nil {
		panic("nil dependency passed to NewCheckInHandler")
	}
	return &CheckInHandler{Resolver: resolver, Scope: sel, Guard: guard}
}

type checkInReq struct {
	Code string `json:"code"`
}

// CheckIn handles POST /v1/checkin.  The body carries the raw scanned
// or typed code; the event scope comes from the current selection.
//
// Status mapping: 200 for both success and already-checked-in (the
// latter is a valid outcome carrying the original timestamp, not an
// error), 404 for an unknown code, 409 when no event is selected,
// 502 when the store failed, and 202 when the scan was coalesced by
// the debounce window.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req checkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}

	sel, ok := h.Scope.Active()
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no event selected"})
	}

	ctx := c.Request().Context()
	if !h.Guard.Allow(ctx, sel.ID, req.Code) {
		return c.JSON(http.StatusAccepted, echo.Map{"status": "duplicate_scan_ignored"})
	}

	res, err := h.Resolver.Resolve(ctx, sel.ID, req.Code)
	if err != nil {
		if errors.Is(err, checkin.ErrNoEventSelected) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no event selected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}

	switch res.Outcome {
	case checkin.Success:
		// Broker errors are logged inside the publisher and must not
		// fail a check-in that already committed.
		_ = queue_publisher.PublishCheckInConfirmed(ctx, queue.CheckInConfirmedEvent{
			MessageID:   uuid.NewString(),
			EventID:     sel.ID,
			EventName:   sel.Name,
			AttendeeID:  res.Attendee.ID,
			PRN:         res.Attendee.PRN,
			Name:        res.Attendee.Name,
			Year:        res.Attendee.Year,
			CheckInTime: res.CheckInTime.UTC().Format(time.RFC3339),
		})
		return c.JSON(http.StatusOK, echo.Map{
			"status":        res.Outcome.String(),
			"attendee":      toAttendeeResp(*res.Attendee),
			"check_in_time": res.CheckInTime.UTC(),
		})
	case checkin.AlreadyCheckedIn:
		return c.JSON(http.StatusOK, echo.Map{
			"status":        res.Outcome.String(),
			"attendee":      toAttendeeResp(*res.Attendee),
			"check_in_time": res.CheckInTime.UTC(),
		})
	case checkin.NotFound:
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": res.Outcome.String(),
			"error":  "no attendee with this code in the active event",
		})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{
			"status": res.Outcome.String(),
			"error":  "store error during resolution",
		})
	}
}
