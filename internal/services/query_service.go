package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sjperalta/consulta-api/internal/models"
	"github.com/sjperalta/consulta-api/internal/projector"
	"github.com/sjperalta/consulta-api/internal/upstream"
	"github.com/sjperalta/consulta-api/pkg/logger"
	"github.com/sjperalta/consulta-api/pkg/metrics"
)

// ErrorMessagePrefix precedes every transport or parse error shown to the user
const ErrorMessagePrefix = "Erreur: Impossible de traiter votre requête - "

// AnalyticsClient is the analytics backend as seen by the query service
type AnalyticsClient interface {
	Query(ctx context.Context, domain, question string) (*models.AnalyticsPayload, error)
}

// QueryResult is everything the presentation layer needs for one answer
type QueryResult struct {
	Question      string                  `json:"question"`
	Domain        Domain                  `json:"domain"`
	DomainLabel   string                  `json:"domain_label"`
	Error         string                  `json:"error,omitempty"`
	Response      string                  `json:"response,omitempty"`
	ExecutionTime string                  `json:"execution_time,omitempty"`
	Shape         string                  `json:"shape,omitempty"`
	Table         *models.TableDescriptor `json:"table,omitempty"`
}

type QueryService struct {
	client  AnalyticsClient
	metrics *metrics.QueryMetrics
}

func NewQueryService(client AnalyticsClient, m *metrics.QueryMetrics) *QueryService {
	return &QueryService{client: client, metrics: m}
}

// Ask forwards the question to the backend and projects the answer.
// Backend failures end up in QueryResult.Error; only an empty question is returned as an error.
func (s *QueryService) Ask(ctx context.Context, domain Domain, question string) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	result := &QueryResult{Question: question, Domain: domain}

	start := time.Now()
	payload, err := s.client.Query(ctx, string(domain), question)
	s.metrics.ObserveUpstream(string(domain), outcomeOf(err), time.Since(start))
	if err != nil {
		logger.Error("Analytics backend query failed", "domain", string(domain), "error", err)
		if ctx.Err() == nil {
			sentry.CaptureException(err)
		}
		result.resolveDomain("")
		result.Error = ErrorMessagePrefix + err.Error()
		s.metrics.IncProjection("")
		return result, nil
	}

	result.ExecutionTime = payload.ExecutionTime
	result.resolveDomain(payload.Narrative())

	// A backend-reported error replaces every structured rendering
	if payload.Error != "" {
		result.Error = payload.Error
		s.metrics.IncProjection("")
		return result, nil
	}

	result.Response = payload.Narrative()
	if shape := projector.Classify(payload); shape != nil {
		result.Shape = shape.Name()
		result.Table = projector.Render(shape, result.DomainLabel)
	}
	s.metrics.IncProjection(result.Shape)

	logger.Debug("Query answered", "domain", string(result.Domain), "shape", result.Shape)
	return result, nil
}

func (r *QueryResult) resolveDomain(narrative string) {
	if r.Domain == DomainAuto {
		r.Domain = DetectDomain(narrative)
	}
	r.DomainLabel = r.Domain.Label()
}

func outcomeOf(err error) string {
	var httpErr *upstream.HTTPError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &httpErr):
		return metrics.OutcomeHTTPError
	case errors.Is(err, upstream.ErrInvalidJSON):
		return metrics.OutcomeInvalidJSON
	}
	return metrics.OutcomeTransportErr
}
