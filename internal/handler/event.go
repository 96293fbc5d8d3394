// Package handler defines HTTP handlers for operator endpoints.  This
// file implements event CRUD and the active-event selection.  Deleting
// an event cascades over its attendees in the repository layer and
// clears the in-memory selection when it pointed at the deleted event.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mihirt/rollcall/internal/model"
	"github.com/mihirt/rollcall/internal/repository"
	"github.com/mihirt/rollcall/internal/scope"
)

// eventListCacheKey namespaces the cached event listing in Redis.
const eventListCacheKey = "cache:events:list"

// EventHandler bundles the dependencies for event management.  RDB may
// be nil, in which case the event listing is served uncached.
type EventHandler struct {
	Events    *repository.EventRepo
	Attendees *repository.AttendeeRepo
	Scope     *scope.Selector
	RDB       *redis.Client
	CacheTTL  time.Duration
}

// NewEventHandler constructs an EventHandler.  Events, Attendees and
// Scope must be non-nil.
func NewEventHandler(events *repository.EventRepo, attendees *repository.AttendeeRepo, sel *scope.Selector, rdb *redis.Client, cacheTTL time.Duration) *EventHandler {
	if events == nil || attendees == nil || sel == nil {
		panic("nil dependency passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Attendees: attendees, Scope: sel, RDB: rdb, CacheTTL: cacheTTL}
}

type createEventReq struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type eventResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResp(e model.Event) eventResp {
	return eventResp{ID: e.ID, Name: e.Name, Date: e.Date, Description: e.Description, CreatedAt: e.CreatedAt}
}

// CreateEvent handles POST /v1/events.  Name is required; date and
// description are optional free-form strings.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	e, err := h.Events.Create(ctx, req.Name, strings.TrimSpace(req.Date), strings.TrimSpace(req.Description))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	h.invalidateListCache(ctx)
	return c.JSON(http.StatusCreated, toEventResp(*e))
}

// ListEvents handles GET /v1/events, ordered by creation time
// descending.  The serialized listing is cached in Redis for a short
// TTL; create and delete invalidate it.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.RDB != nil {
		if body, err := h.RDB.Get(ctx, eventListCacheKey).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, body)
		}
	}

	events, err := h.Events.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	resp := make([]eventResp, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResp(e))
	}

	if h.RDB != nil {
		if body, err := json.Marshal(resp); err == nil {
			_ = h.RDB.Set(ctx, eventListCacheKey, body, h.CacheTTL).Err()
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteEvent handles DELETE /v1/events/:id.  The repository removes
// the event and all of its attendees in one transaction; afterwards a
// selection pointing at the deleted event is cleared so the operator
// must re-select before importing or checking in again.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	removed, err := h.Events.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Scope.ClearIf(id)
	h.invalidateListCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"deleted": id, "attendees_removed": removed})
}

// SelectEvent handles POST /v1/events/:id/select.  Selection is a pure
// in-memory assignment; no store write happens.
func (h *EventHandler) SelectEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	h.Scope.Select(e.ID, e.Name)
	return c.JSON(http.StatusOK, echo.Map{"selected": echo.Map{"id": e.ID, "name": e.Name}})
}

// ActiveEvent handles GET /v1/events/active and returns the current
// selection, or 404 when no event is selected.
func (h *EventHandler) ActiveEvent(c echo.Context) error {
	sel, ok := h.Scope.Active()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no event selected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": sel.ID, "name": sel.Name})
}

// EventStats handles GET /v1/events/:id/stats and returns total and
// checked-in attendee counts.
func (h *EventHandler) EventStats(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Events.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	total, checked, err := h.Attendees.Stats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":   id,
		"total":      total,
		"checked_in": checked,
		"pending":    total - checked,
	})
}

// invalidateListCache drops the cached event listing.  Best effort: a
// failed DEL only means one stale read within the TTL.
func (h *EventHandler) invalidateListCache(ctx context.Context) {
	if h.RDB != nil {
		_ = h.RDB.Del(ctx, eventListCacheKey).Err()
	}
}
