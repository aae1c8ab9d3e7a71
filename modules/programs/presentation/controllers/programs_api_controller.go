package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/atlas/modules/programs/domain/aggregates/activity"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/presentation/mappers"
	"github.com/iota-uz/atlas/modules/programs/presentation/viewmodels"
	"github.com/iota-uz/atlas/modules/programs/services"
	"github.com/iota-uz/atlas/pkg/application"
	"github.com/iota-uz/atlas/pkg/composables"
	"github.com/iota-uz/atlas/pkg/ensure"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	venuePickerID       = "venue-picker"
	participantPickerID = "participant-picker"
)

type ProgramsAPIController struct {
	app          application.Application
	activities   *services.ActivityService
	venues       *services.VenueService
	participants *services.ParticipantService

	venueSelections       *ensure.Cache[venue.Venue]
	participantSelections *ensure.Cache[participant.Participant]

	apiPrefix string
}

func NewProgramsAPIController(app application.Application) application.Controller {
	return &ProgramsAPIController{
		app:                   app,
		activities:            app.Service(services.ActivityService{}).(*services.ActivityService),
		venues:                app.Service(services.VenueService{}).(*services.VenueService),
		participants:          app.Service(services.ParticipantService{}).(*services.ParticipantService),
		venueSelections:       app.Service(ensure.Cache[venue.Venue]{}).(*ensure.Cache[venue.Venue]),
		participantSelections: app.Service(ensure.Cache[participant.Participant]{}).(*ensure.Cache[participant.Participant]),
		apiPrefix:             "/programs/api",
	}
}

func (c *ProgramsAPIController) Key() string {
	return c.apiPrefix
}

func (c *ProgramsAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/activities", c.ListActivities).Methods(http.MethodGet)
	api.HandleFunc("/activities", c.CreateActivity).Methods(http.MethodPost)

	api.HandleFunc("/venues", c.ListVenues).Methods(http.MethodGet)
	api.HandleFunc("/venues", c.CreateVenue).Methods(http.MethodPost)
	api.HandleFunc("/venues:options", c.VenueOptions).Methods(http.MethodGet)

	api.HandleFunc("/participants", c.ListParticipants).Methods(http.MethodGet)
	api.HandleFunc("/participants", c.CreateParticipant).Methods(http.MethodPost)
	api.HandleFunc("/participants:options", c.ParticipantOptions).Methods(http.MethodGet)
}

func (c *ProgramsAPIController) ListActivities(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	items, total, err := c.activities.List(r.Context(), &activity.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &viewmodels.PaginatedActivities{
		Items: mappers.ActivitiesToViewModels(items),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *ProgramsAPIController) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_TENANT", "tenant id is required")
		return
	}

	dto := &activity.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	created, err := c.activities.Create(r.Context(), tenantID, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ActivityToViewModel(created))
}

func (c *ProgramsAPIController) ListVenues(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	items, total, err := c.venues.List(r.Context(), &venue.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &viewmodels.PaginatedVenues{
		Items: mappers.VenuesToViewModels(items),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *ProgramsAPIController) CreateVenue(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_TENANT", "tenant id is required")
		return
	}

	dto := &venue.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	created, err := c.venues.Create(r.Context(), tenantID, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.VenueToViewModel(created))
}

func (c *ProgramsAPIController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	items, total, err := c.participants.List(r.Context(), &participant.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &viewmodels.PaginatedParticipants{
		Items: mappers.ParticipantsToViewModels(items),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *ProgramsAPIController) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_TENANT", "tenant id is required")
		return
	}

	dto := &participant.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	created, err := c.participants.Create(r.Context(), tenantID, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ParticipantToViewModel(created))
}

// VenueOptions serves the venue picker: unscoped search results with
// the ensured selection prepended when the filter hides it.
func (c *ProgramsAPIController) VenueOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	results, err := c.venues.Options(ctx, search, defaultPageLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	selectedID, ok := parseSelectedID(w, r)
	if !ok {
		return
	}
	pickerID := pickerIDOrDefault(r, venuePickerID)

	options := c.venueSelections.Ensure(ctx, pickerID, selectedID, results,
		func(ctx context.Context, id uuid.UUID) (venue.Venue, error) {
			return c.venues.GetByID(ctx, id)
		})

	writeJSON(w, http.StatusOK, &viewmodels.VenueOptions{
		Items: mappers.VenuesToViewModels(options),
		Empty: len(options) == 0,
	})
}

// ParticipantOptions serves the participant picker.
func (c *ProgramsAPIController) ParticipantOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	results, err := c.participants.Options(ctx, search, defaultPageLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	selectedID, ok := parseSelectedID(w, r)
	if !ok {
		return
	}
	pickerID := pickerIDOrDefault(r, participantPickerID)

	options := c.participantSelections.Ensure(ctx, pickerID, selectedID, results,
		func(ctx context.Context, id uuid.UUID) (participant.Participant, error) {
			return c.participants.GetByID(ctx, id)
		})

	writeJSON(w, http.StatusOK, &viewmodels.ParticipantOptions{
		Items: mappers.ParticipantsToViewModels(options),
		Empty: len(options) == 0,
	})
}

func parseSelectedID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("selected_id"))
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ID", "selected_id is not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

func pickerIDOrDefault(r *http.Request, fallback string) string {
	if pickerID := strings.TrimSpace(r.URL.Query().Get("picker_id")); pickerID != "" {
		return pickerID
	}
	return fallback
}

func parsePageLimit(r *http.Request) (int, int) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
