package revenue

import (
	"palantir/internal/render"

	"go.uber.org/zap"
)

func NewModule(source Source, renderer *render.Renderer, logger *zap.Logger) *Controller {
	svc := NewService(source)
	uc := NewUseCase(svc)
	return NewController(uc, renderer, logger)
}
