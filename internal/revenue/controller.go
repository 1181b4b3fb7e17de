package revenue

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "palantir/internal/errors"
	"palantir/internal/render"

	"go.uber.org/zap"
)

const defaultTopN = 10

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

func (c *Controller) HandleOverview(w http.ResponseWriter, r *http.Request) {
	q := OverviewQuery{Basis: basisParam(r), N: topNParam(r, defaultTopN)}
	page, err := c.useCase.OverviewPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "revenue", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleCategories(w http.ResponseWriter, r *http.Request) {
	q := CategoriesQuery{Basis: basisParam(r), N: topNParam(r, defaultTopN)}
	page, err := c.useCase.CategoriesPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "categories", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleVendors(w http.ResponseWriter, r *http.Request) {
	q := VendorsQuery{N: topNParam(r, defaultTopN)}
	page, err := c.useCase.VendorsPage(r.Context(), q)
	if err != nil {
		c.respondPageError(w, "vendors", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleFreight(w http.ResponseWriter, r *http.Request) {
	page, err := c.useCase.FreightPage(r.Context())
	if err != nil {
		c.respondPageError(w, "freight", err)
		return
	}
	c.renderer.Page(w, *page)
}

func (c *Controller) HandleCategoriesCSV(w http.ResponseWriter, r *http.Request) {
	headers, rows, err := c.useCase.CategoriesCSV(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if err := render.CSV(w, "categories.csv", headers, rows); err != nil {
		c.logger.Error("writing categories csv failed", zap.Error(err))
	}
}

func (c *Controller) HandleVendorsCSV(w http.ResponseWriter, r *http.Request) {
	headers, rows, err := c.useCase.VendorsCSV(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if err := render.CSV(w, "vendors.csv", headers, rows); err != nil {
		c.logger.Error("writing vendors csv failed", zap.Error(err))
	}
}

func (c *Controller) HandleSummaryJSON(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("basis"); raw != "" {
		if _, err := ParseBasis(raw); err != nil {
			ve, _ := apperrors.IsValidationError(err)
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
	}
	resp, err := c.useCase.SummaryJSON(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, resp)
}

// basisParam is lenient: page links should never 400 over a stale query
// string, so unknown values fall back to the default basis.
func basisParam(r *http.Request) string {
	switch r.URL.Query().Get("basis") {
	case BasisPrice:
		return BasisPrice
	case BasisFreight:
		return BasisFreight
	default:
		return BasisTotal
	}
}

func topNParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 5 {
		return 5
	}
	if n > 30 {
		return 30
	}
	return n
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
	c.logger.Error("revenue request failed", zap.Error(err))
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
