package services

import (
	"github.com/sjperalta/consulta-api/internal/upstream"
	"github.com/sjperalta/consulta-api/pkg/metrics"
)

// Services holds all service instances
type Services struct {
	Query  *QueryService
	Health *HealthService
	Export *ExportService
}

// NewServices creates all service instances
func NewServices(client *upstream.Client, queryMetrics *metrics.QueryMetrics) *Services {
	return &Services{
		Query:  NewQueryService(client, queryMetrics),
		Health: NewHealthService(client),
		Export: NewExportService(),
	}
}
