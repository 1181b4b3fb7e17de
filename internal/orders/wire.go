package orders

import (
	"palantir/internal/render"

	"go.uber.org/zap"
)

// NewModule wires the order analyses end to end.
func NewModule(source Source, renderer *render.Renderer, logger *zap.Logger) *Controller {
	svc := NewService(source)
	uc := NewUseCase(svc)
	return NewController(uc, renderer, logger)
}
