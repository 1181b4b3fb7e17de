package orders

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "palantir/internal/errors"
	"palantir/internal/render"

	"go.uber.org/zap"
)

const (
	defaultGeoTopN       = 15
	defaultTrendWindow   = 7
	defaultPerfTrendDays = 14
	statusDelivered      = "Delivered"
	statusNotDelivered   = "Not_Delivered"
	splitNotDelivered    = "not_delivered"
)

type Controller struct {
	useCase  UseCase
	renderer *render.Renderer
	logger   *zap.Logger
}

func NewController(useCase UseCase, renderer *render.Renderer, logger *zap.Logger) *Controller {
	return &Controller{
		useCase:  useCase,
		renderer: renderer,
		logger:   logger,
	}
}

func (c *Controller) HandleTimelines(w http.ResponseWriter, r *http.Request) {
	q := TimelinesQuery{
		Metric: trendMetricParam(r),
		Window: windowParam(r, defaultTrendWindow),
	}
	page, err := c.useCase.TimelinesPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "timelines", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleDelays(w http.ResponseWriter, r *http.Request) {
	q := DelaysQuery{
		Stage:  stageParam(r),
		Status: statusParam(r),
	}
	page, err := c.useCase.DelaysPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "delays", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleGeography(w http.ResponseWriter, r *http.Request) {
	q := GeographyQuery{
		Metric:       geoMetricParam(r),
		N:            topNParam(r, defaultGeoTopN, 5, 27),
		BubbleMetric: bubbleMetricParam(r),
		BubbleStatus: bubbleStatusParam(r),
		DelayedOnly:  r.URL.Query().Get("delayed_only") == "yes",
	}
	page, err := c.useCase.GeographyPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "geography", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	q := PerformanceQuery{
		Metric: perfMetricParam(r),
		Window: windowParam(r, defaultPerfTrendDays),
		Split:  splitParam(r),
	}
	page, err := c.useCase.PerformancePage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "performance", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleDelaysCSV(w http.ResponseWriter, r *http.Request) {
	headers, rows, err := c.useCase.DelaysCSV(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if err := render.CSV(w, "delays.csv", headers, rows); err != nil {
		c.logger.Error("writing delays csv failed", zap.Error(err))
	}
}

func (c *Controller) HandleGeographyCSV(w http.ResponseWriter, r *http.Request) {
	headers, rows, err := c.useCase.GeographyCSV(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if err := render.CSV(w, "geography.csv", headers, rows); err != nil {
		c.logger.Error("writing geography csv failed", zap.Error(err))
	}
}

func (c *Controller) HandleDeliveredCSV(w http.ResponseWriter, r *http.Request) {
	headers, rows, err := c.useCase.DeliveredCSV(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if err := render.CSV(w, "delivered.csv", headers, rows); err != nil {
		c.logger.Error("writing delivered csv failed", zap.Error(err))
	}
}

func (c *Controller) HandlePerformanceJSON(w http.ResponseWriter, r *http.Request) {
	resp, err := c.useCase.PerformanceJSON(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, resp)
}

// Query parsing is lenient on page routes: stale or hand-edited values
// fall back to defaults instead of failing the render.
func trendMetricParam(r *http.Request) string {
	if r.URL.Query().Get("metric") == TrendDays {
		return TrendDays
	}
	return TrendOrders
}

func perfMetricParam(r *http.Request) string {
	if r.URL.Query().Get("metric") == MetricDelayRate {
		return MetricDelayRate
	}
	return MetricDeliveryRate
}

func stageParam(r *http.Request) string {
	switch r.URL.Query().Get("stage") {
	case StageSeller:
		return StageSeller
	case StageShipping:
		return StageShipping
	default:
		return StageSite
	}
}

func statusParam(r *http.Request) string {
	switch r.URL.Query().Get("status") {
	case statusDelivered:
		return statusDelivered
	case statusNotDelivered:
		return statusNotDelivered
	default:
		return StatusAll
	}
}

func geoMetricParam(r *http.Request) string {
	switch r.URL.Query().Get("metric") {
	case GeoMetricDelivery:
		return GeoMetricDelivery
	case GeoMetricDelay:
		return GeoMetricDelay
	case GeoMetricShare:
		return GeoMetricShare
	default:
		return GeoMetricOrders
	}
}

func bubbleMetricParam(r *http.Request) string {
	switch r.URL.Query().Get("bubble_metric") {
	case BubbleDelayed:
		return BubbleDelayed
	case BubbleRevenue:
		return BubbleRevenue
	default:
		return BubbleOrders
	}
}

// bubbleStatusParam passes raw values through: the service matches them
// against the statuses present in the dataset, so unknown ones simply
// filter everything out.
func bubbleStatusParam(r *http.Request) string {
	raw := r.URL.Query().Get("bubble_status")
	if raw == "" {
		return StatusAll
	}
	return raw
}

func splitParam(r *http.Request) string {
	if r.URL.Query().Get("split") == splitNotDelivered {
		return splitNotDelivered
	}
	return "delivered"
}

func topNParam(r *http.Request, def, min, max int) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func windowParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return clampWindow(n, def)
}

// respondPageError keeps HTML routes friendly: a missing dataset renders
// an empty page instead of a JSON error.
func (c *Controller) respondPageError(w http.ResponseWriter, active string, err error) {
	if _, ok := apperrors.IsDataUnavailableError(err); ok {
		c.renderer.Unavailable(w, active)
		return
	}
	c.respondError(w, err)
}

func (c *Controller) respondError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsDataUnavailableError(err); ok {
		c.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "DATA_UNAVAILABLE",
			"message": "the dataset has not been loaded yet",
		})
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	c.logger.Error("orders request failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
