package home

import (
	"go.uber.org/zap"

	"palantir/internal/render"
)

func NewModule(store Store, renderer *render.Renderer, logger *zap.Logger) *Controller {
	svc := NewService(store)
	uc := NewUseCase(svc, store)
	return NewController(uc, renderer, logger)
}
