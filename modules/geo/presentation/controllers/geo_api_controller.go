package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/presentation/mappers"
	"github.com/iota-uz/atlas/modules/geo/presentation/viewmodels"
	"github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/application"
	"github.com/iota-uz/atlas/pkg/composables"
	"github.com/iota-uz/atlas/pkg/ensure"
	"github.com/iota-uz/atlas/pkg/scope"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	scopeSelectorPickerID = "scope-selector"
)

type GeoAPIController struct {
	app         application.Application
	areas       *services.AreaService
	rules       *services.RuleService
	coordinator *scope.Coordinator
	search      *scope.SearchProvider
	selections  *ensure.Cache[scope.SearchResult]
	apiPrefix   string
}

func NewGeoAPIController(app application.Application) application.Controller {
	return &GeoAPIController{
		app:         app,
		areas:       app.Service(services.AreaService{}).(*services.AreaService),
		rules:       app.Service(services.RuleService{}).(*services.RuleService),
		coordinator: app.Service(scope.Coordinator{}).(*scope.Coordinator),
		search:      app.Service(scope.SearchProvider{}).(*scope.SearchProvider),
		selections:  app.Service(ensure.Cache[scope.SearchResult]{}).(*ensure.Cache[scope.SearchResult]),
		apiPrefix:   "/geo/api",
	}
}

func (c *GeoAPIController) Key() string {
	return c.apiPrefix
}

func (c *GeoAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/areas", c.ListAreas).Methods(http.MethodGet)
	api.HandleFunc("/areas", c.CreateArea).Methods(http.MethodPost)
	api.HandleFunc("/areas/{id}", c.GetArea).Methods(http.MethodGet)
	api.HandleFunc("/areas/{id}", c.UpdateArea).Methods(http.MethodPut)
	api.HandleFunc("/areas/{id}/ancestors", c.GetAncestors).Methods(http.MethodGet)

	api.HandleFunc("/users/{userId}/authorization-rules", c.ListRules).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/authorization-rules", c.CreateRule).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/authorization-rules/{id}", c.DeleteRule).Methods(http.MethodDelete)

	api.HandleFunc("/scope", c.GetScope).Methods(http.MethodGet)
	api.HandleFunc("/scope", c.SetScope).Methods(http.MethodPut)
	api.HandleFunc("/scope", c.ClearScope).Methods(http.MethodDelete)
	api.HandleFunc("/scope/breadcrumbs", c.GetBreadcrumbs).Methods(http.MethodGet)
	api.HandleFunc("/scope/options", c.GetScopeOptions).Methods(http.MethodGet)
}

func (c *GeoAPIController) ListAreas(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	params := &area.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	areas, total, err := c.areas.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &viewmodels.PaginatedAreas{
		Items: mappers.AreasToViewModels(areas),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *GeoAPIController) GetArea(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}
	entity, err := c.areas.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AreaToViewModel(entity))
}

func (c *GeoAPIController) GetAncestors(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}
	ancestors, err := c.areas.AncestorsOf(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AreasToViewModels(ancestors))
}

func (c *GeoAPIController) CreateArea(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_TENANT", "tenant id is required")
		return
	}

	dto := &area.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	created, err := c.areas.Create(r.Context(), tenantID, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.AreaToViewModel(created))
}

func (c *GeoAPIController) UpdateArea(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}

	dto := &area.UpdateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	updated, err := c.areas.Update(r.Context(), id, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AreaToViewModel(updated))
}

func (c *GeoAPIController) ListRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := parsePathID(w, r, "userId")
	if !ok {
		return
	}
	rules, err := c.rules.GetByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]viewmodels.AuthorizationRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, mappers.RuleToViewModel(rule))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *GeoAPIController) CreateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := parsePathID(w, r, "userId")
	if !ok {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_TENANT", "tenant id is required")
		return
	}

	dto := &arearule.CreateDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, r, errs)
		return
	}

	created, err := c.rules.Create(r.Context(), tenantID, userID, dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.RuleToViewModel(created))
}

func (c *GeoAPIController) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.rules.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *GeoAPIController) GetScope(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mappers.ScopeStateToViewModel(c.coordinator.State()))
}

type setScopeRequest struct {
	AreaID string `json:"area_id"`
	// DegradeToGlobal selects the breadcrumb-click behavior: an
	// unauthorized target clears to global instead of failing with 403.
	DegradeToGlobal bool `json:"degrade_to_global"`
}

func (c *GeoAPIController) SetScope(w http.ResponseWriter, r *http.Request) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_USER", "user id is required")
		return
	}

	req := &setScopeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid json")
		return
	}
	areaID, err := uuid.Parse(strings.TrimSpace(req.AreaID))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "GEO_INVALID_AREA_ID", "area_id is not a valid uuid")
		return
	}

	if req.DegradeToGlobal {
		state, err := c.coordinator.SetScopeOrClear(r.Context(), userID, areaID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mappers.ScopeStateToViewModel(state))
		return
	}

	if err := c.coordinator.SetScope(r.Context(), userID, areaID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ScopeStateToViewModel(c.coordinator.State()))
}

func (c *GeoAPIController) ClearScope(w http.ResponseWriter, r *http.Request) {
	c.coordinator.ClearScope(r.Context())
	writeJSON(w, http.StatusOK, mappers.ScopeStateToViewModel(c.coordinator.State()))
}

func (c *GeoAPIController) GetBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "NO_USER", "user id is required")
		return
	}

	areaID := c.coordinator.State().SelectedAreaID
	if raw := strings.TrimSpace(r.URL.Query().Get("area_id")); raw != "" {
		areaID, err = uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "GEO_INVALID_AREA_ID", "area_id is not a valid uuid")
			return
		}
	}
	if areaID == uuid.Nil {
		writeJSON(w, http.StatusOK, []viewmodels.BreadcrumbItem{})
		return
	}

	items, err := c.coordinator.Breadcrumbs(r.Context(), userID, areaID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]viewmodels.BreadcrumbItem, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.BreadcrumbToViewModel(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetScopeOptions serves the scope selector: server matches for the
// search text with the current selection kept visible even when the
// filter excludes it.
func (c *GeoAPIController) GetScopeOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	text := strings.TrimSpace(r.URL.Query().Get("search"))

	c.search.SearchNow(ctx, text)
	if err := c.search.Err(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	results := c.search.Results()

	selectedID := c.coordinator.State().SelectedAreaID
	if raw := strings.TrimSpace(r.URL.Query().Get("selected_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "GEO_INVALID_AREA_ID", "selected_id is not a valid uuid")
			return
		}
		selectedID = parsed
	}
	pickerID := strings.TrimSpace(r.URL.Query().Get("picker_id"))
	if pickerID == "" {
		pickerID = scopeSelectorPickerID
	}

	options := c.selections.Ensure(ctx, pickerID, selectedID, results, c.fetchSearchResult)

	items := make([]viewmodels.AreaWithPath, 0, len(options))
	for _, opt := range options {
		items = append(items, mappers.SearchResultToViewModel(opt))
	}
	writeJSON(w, http.StatusOK, &viewmodels.AreaOptions{
		Items: items,
		Empty: len(items) == 0,
	})
}

func (c *GeoAPIController) fetchSearchResult(ctx context.Context, id uuid.UUID) (scope.SearchResult, error) {
	entity, err := c.areas.GetByID(ctx, id)
	if err != nil {
		return scope.SearchResult{}, err
	}
	ancestors, err := c.areas.AncestorsOf(ctx, id)
	if err != nil {
		ancestors = nil
	}
	return scope.SearchResult{Area: entity, Ancestors: ancestors}, nil
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

func parsePathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ID", name+" is not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}
