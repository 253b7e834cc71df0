package handlers

import (
	"net/http"
	"time"

	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/internal/payload"
	"github.com/clubhub/clubhub/internal/policy"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type EventHandler struct {
	db   *gorm.DB
	gate *policy.AuthGate
	now  func() time.Time
}

func NewEventHandler(db *gorm.DB, g *policy.AuthGate) *EventHandler {
	return &EventHandler{db: db, gate: g, now: time.Now}
}

// List returns upcoming events, soonest first, with their club summary.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events := []*models.Event{}
	err := h.db.WithContext(r.Context()).
		Where("date >= ?", h.now().UTC()).
		Order("date asc").
		Find(&events).Error
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := models.AttachClubs(r.Context(), h.db, events); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

// Mine returns the events created by the caller.
func (h *EventHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	events := []*models.Event{}
	err = h.db.WithContext(r.Context()).
		Where("user_id = ?", id.SubjectID).
		Order("date asc").
		Find(&events).Error
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req payload.CreateEventRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	event := models.Event{
		CreatorID:        id.SubjectID,
		ClubID:           id.ClubID,
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.When().UTC(),
		Location:         req.Location,
		RegistrationLink: req.RegistrationLink,
	}
	if err := h.db.WithContext(r.Context()).Create(&event).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, event)
}

// Delete removes an event. Only its creator may do so.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := first(r.Context(), h.db, &event, chi.URLParam(r, "id"), "Event not found"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionDelete, policy.ResourceEvent, &event); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(&event).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, "Event removed")
}
