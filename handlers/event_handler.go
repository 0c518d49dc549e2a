package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	app *pocketbase.PocketBase
}

func NewEventHandler(app *pocketbase.PocketBase) *EventHandler {
	return &EventHandler{app: app}
}

// CreateEvent - Create an event. All tickets start available.
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Name         string    `json:"name"`
		Description  string    `json:"description"`
		Location     string    `json:"location"`
		Date         time.Time `json:"date"`
		TotalTickets int       `json:"total_tickets"`
		Price        float64   `json:"price"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" {
		return apis.NewBadRequestError("Name required", nil)
	}
	if req.TotalTickets <= 0 {
		return apis.NewBadRequestError("Total tickets must be positive", nil)
	}
	if req.Price < 0 {
		return apis.NewBadRequestError("Price must not be negative", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId("events")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Events collection missing", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", req.Name)
	record.Set("description", req.Description)
	record.Set("location", req.Location)
	record.Set("date", req.Date)
	record.Set("total_tickets", req.TotalTickets)
	// Total is immutable after creation; availability always starts full.
	record.Set("available_tickets", req.TotalTickets)
	record.Set("price", req.Price)
	record.Set("owner", e.Auth.Id)

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	return e.JSON(http.StatusOK, eventResponse(record))
}

// ListEvents - Get all events.
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	events, err := h.app.FindRecordsByFilter("events", "", "-date", 200, 0, nil)
	if err != nil {
		return apis.NewBadRequestError("Failed to get events", err)
	}

	result := []map[string]any{}
	for _, event := range events {
		result = append(result, eventResponse(event))
	}

	return e.JSON(http.StatusOK, result)
}

// GetEvent - Get one event with its remaining capacity.
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	event, err := h.app.FindRecordById("events", eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	return e.JSON(http.StatusOK, eventResponse(event))
}

func eventResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":                record.Id,
		"name":              record.GetString("name"),
		"description":       record.GetString("description"),
		"location":          record.GetString("location"),
		"date":              record.GetDateTime("date"),
		"total_tickets":     record.GetInt("total_tickets"),
		"available_tickets": record.GetInt("available_tickets"),
		"price":             record.GetFloat("price"),
		"owner":             record.GetString("owner"),
	}
}
