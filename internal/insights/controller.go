package insights

import (
	"encoding/json"
	"net/http"

	apperrors "palantir/internal/errors"
	"palantir/internal/render"

	"go.uber.org/zap"
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

func (c *Controller) HandleInsights(w http.ResponseWriter, r *http.Request) {
	page, err := c.useCase.InsightsPage(r.Context())
	if err != nil {
		if _, ok := apperrors.IsDataUnavailableError(err); ok {
			c.renderer.Unavailable(w, "insights")
			return
		}
		c.respondError(w, err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleInsightsJSON(w http.ResponseWriter, r *http.Request) {
	resp, err := c.useCase.InsightsJSON(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) respondError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsDataUnavailableError(err); ok {
		c.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "DATA_UNAVAILABLE",
			"message": "the dataset has not been loaded yet",
		})
		return
	}
	c.logger.Error("insights request failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
