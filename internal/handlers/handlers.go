package handlers

import (
	"github.com/sjperalta/consulta-api/internal/jobs"
	"github.com/sjperalta/consulta-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health *HealthHandler
	Query  *QueryHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(svcs.Health, worker),
		Query:  NewQueryHandler(svcs.Query, svcs.Export),
	}
}
