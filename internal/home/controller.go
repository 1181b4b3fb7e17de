package home

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "palantir/internal/errors"
	"palantir/internal/render"
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

func (c *Controller) HandleHome(w http.ResponseWriter, r *http.Request) {
	page, err := c.useCase.HomePage(r.Context())
	if err != nil {
		if _, ok := apperrors.IsDataUnavailableError(err); ok {
			c.renderer.Unavailable(w, "home")
			return
		}
		c.respondError(w, err)
		return
	}
	c.renderer.Page(w, *page)
}

// HandleRefresh reloads the snapshot and sends the browser back home. A
// failed load is logged and surfaced by the home page status block, so the
// redirect happens either way.
func (c *Controller) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := c.useCase.Refresh(r.Context()); err != nil {
		c.logger.Warn("dataset refresh failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Controller) HandleSparkline(w http.ResponseWriter, r *http.Request) {
	var metric SparkMetric
	switch series := chi.URLParam(r, "series"); series {
	case "orders":
		metric = SparkOrders
	case "revenue":
		metric = SparkRevenue
	case "delivered":
		metric = SparkDelivered
	default:
		c.writeValidationError(w, "unknown sparkline series", apperrors.ValidationDetail{
			Field:   "series",
			Message: "series must be one of orders, revenue, delivered",
		})
		return
	}

	png, err := c.useCase.SparklinePNG(r.Context(), metric)
	if err != nil {
		c.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		c.logger.Error("writing sparkline failed", zap.Error(err))
	}
}

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.useCase.Health())
}

func (c *Controller) respondError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsDataUnavailableError(err); ok {
		c.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "DATA_UNAVAILABLE",
			"message": "the dataset has not been loaded yet",
		})
		return
	}
	c.logger.Error("home request failed", zap.Error(err))
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
