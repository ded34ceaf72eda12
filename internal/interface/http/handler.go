package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/planetary-hours/internal/domain/location"
	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	"github.com/yanqian/planetary-hours/internal/domain/querylog"
)

// HandlerConfig toggles optional handler behavior.
type HandlerConfig struct {
	LogQueries bool
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	planetarySvc planetary.Service
	locationSvc  location.Service
	queryLogSvc  querylog.Service
	cfg          HandlerConfig
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg HandlerConfig, planetarySvc planetary.Service, locationSvc location.Service, queryLogSvc querylog.Service, logger *slog.Logger) *Handler {
	return &Handler{
		planetarySvc: planetarySvc,
		locationSvc:  locationSvc,
		queryLogSvc:  queryLogSvc,
		cfg:          cfg,
		logger:       logger.With("component", "http.handler"),
	}
}

// Overview returns the day ruler, current hour and the full table.
func (h *Handler) Overview(c *gin.Context) {
	req, ok := h.bindPlanetaryRequest(c)
	if !ok {
		return
	}
	overview, err := h.planetarySvc.Overview(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return
	}
	if h.cfg.LogQueries {
		h.recordQuery(c, overview)
	}
	c.JSON(http.StatusOK, overview)
}

// CurrentHour returns the hour containing the query instant.
func (h *Handler) CurrentHour(c *gin.Context) {
	req, ok := h.bindPlanetaryRequest(c)
	if !ok {
		return
	}
	info, err := h.planetarySvc.CurrentHour(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return
	}
	c.JSON(http.StatusOK, info)
}

// DayInfo returns the ruler of the planetary day.
func (h *Handler) DayInfo(c *gin.Context) {
	req, ok := h.bindPlanetaryRequest(c)
	if !ok {
		return
	}
	info, err := h.planetarySvc.DayInfo(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return
	}
	c.JSON(http.StatusOK, info)
}

// AllHours returns the 24 hour records of the planetary day.
func (h *Handler) AllHours(c *gin.Context) {
	req, ok := h.bindPlanetaryRequest(c)
	if !ok {
		return
	}
	overview, err := h.planetarySvc.Overview(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": overview.AllHours, "sunrise": overview.Sunrise, "sunset": overview.Sunset})
}

// RecordQuery logs the current hour at the requested coordinate.
func (h *Handler) RecordQuery(c *gin.Context) {
	req, ok := h.bindPlanetaryRequest(c)
	if !ok {
		return
	}
	overview, err := h.planetarySvc.Overview(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "log_query_failed"))
		return
	}
	entry, err := h.queryLogSvc.Record(c.Request.Context(), querylog.EntryFromHour(req.Latitude, req.Longitude, overview.Day, overview.CurrentHour.HourRecord))
	if err != nil {
		abortWithError(c, domainError(err, "log_query_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entry": entry})
}

// RecentQueries lists the newest query log entries.
func (h *Handler) RecentQueries(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be an integer", err))
			return
		}
		limit = parsed
	}
	entries, err := h.queryLogSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err, "query_logs_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

// ListLocations returns saved locations ordered by name.
func (h *Handler) ListLocations(c *gin.Context) {
	items, err := h.locationSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

// AddLocation saves a named coordinate.
func (h *Handler) AddLocation(c *gin.Context) {
	var req location.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	loc, err := h.locationSvc.Add(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// GetLocation returns one saved location.
func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	loc, err := h.locationSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocation removes a saved location.
func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	loc, err := h.locationSvc.Delete(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "deleted": loc})
}

// LocationOverview computes the overview at a saved location.
func (h *Handler) LocationOverview(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	loc, err := h.locationSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	at, tz, ok := bindInstant(c)
	if !ok {
		return
	}
	overview, err := h.planetarySvc.Overview(c.Request.Context(), planetary.Request{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		At:        at,
		Timezone:  tz,
	})
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc, "overview": overview})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) bindPlanetaryRequest(c *gin.Context) (planetary.Request, bool) {
	lat, ok := optionalFloat(c, "lat")
	if !ok {
		return planetary.Request{}, false
	}
	lng, ok := optionalFloat(c, "lng")
	if !ok {
		return planetary.Request{}, false
	}
	at, tz, ok := bindInstant(c)
	if !ok {
		return planetary.Request{}, false
	}
	coord, err := h.locationSvc.Resolve(c.Request.Context(), lat, lng)
	if err != nil {
		abortWithError(c, domainError(err, "planetary_hours_failed"))
		return planetary.Request{}, false
	}
	return planetary.Request{
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		At:        at,
		Timezone:  tz,
	}, true
}

func (h *Handler) recordQuery(c *gin.Context, overview planetary.Overview) {
	req := querylog.EntryFromHour(overview.Location.Latitude, overview.Location.Longitude, overview.Day, overview.CurrentHour.HourRecord)
	if _, err := h.queryLogSvc.Record(c.Request.Context(), req); err != nil {
		h.logger.Warn("query log failed", "error", err)
	}
}

func optionalFloat(c *gin.Context, key string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", key+" must be a number", err))
		return nil, false
	}
	return &v, true
}

func bindInstant(c *gin.Context) (time.Time, string, bool) {
	var at time.Time
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "at must be an RFC3339 timestamp", err))
			return time.Time{}, "", false
		}
		at = parsed
	}
	return at, strings.TrimSpace(c.Query("tz")), true
}

func bindID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "id must be a positive integer", err))
		return 0, false
	}
	return id, true
}
