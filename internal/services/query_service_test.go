package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sjperalta/consulta-api/internal/models"
	"github.com/sjperalta/consulta-api/internal/upstream"
	"github.com/sjperalta/consulta-api/pkg/logger"
	"github.com/sjperalta/consulta-api/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock AnalyticsClient
type mockAnalyticsClient struct {
	mockQuery func(ctx context.Context, domain, question string) (*models.AnalyticsPayload, error)

	gotDomain   string
	gotQuestion string
}

func (m *mockAnalyticsClient) Query(ctx context.Context, domain, question string) (*models.AnalyticsPayload, error) {
	m.gotDomain = domain
	m.gotQuestion = question
	return m.mockQuery(ctx, domain, question)
}

func respondWith(raw string) func(context.Context, string, string) (*models.AnalyticsPayload, error) {
	return func(context.Context, string, string) (*models.AnalyticsPayload, error) {
		return models.ParsePayload([]byte(raw))
	}
}

func TestQueryService_AskProjectsTable(t *testing.T) {
	logger.Setup("test")
	client := &mockAnalyticsClient{mockQuery: respondWith(`{
		"computed": {"sum": 8, "count": 3, "date_type": "range",
			"daily_breakdown": {"02/06/2024": {"total": 5, "entries": 1}, "01/06/2024": {"total": 3, "entries": 2}}},
		"response": "La consommation de MAIS du 01/06/2024 au 02/06/2024 est de 8 tonnes.",
		"execution_time": "0.31 secondes"
	}`)}
	svc := NewQueryService(client, nil)

	result, err := svc.Ask(context.Background(), DomainAuto, "  consommation MAIS du 01/06/2024 au 02/06/2024  ")
	require.NoError(t, err)

	assert.Equal(t, "", client.gotDomain)
	assert.Equal(t, "consommation MAIS du 01/06/2024 au 02/06/2024", client.gotQuestion)
	assert.Equal(t, DomainConsumption, result.Domain)
	assert.Equal(t, "consommation", result.DomainLabel)
	assert.Equal(t, "0.31 secondes", result.ExecutionTime)
	assert.Equal(t, "daily_range", result.Shape)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.Table)
	assert.Equal(t, "Consommation par jour", result.Table.Title)
	assert.Equal(t, "01/06/2024", result.Table.Rows[0][0])
}

func TestQueryService_AskUsesRouteDomain(t *testing.T) {
	client := &mockAnalyticsClient{mockQuery: respondWith(`{
		"computed": {"sum": 12, "count": 1, "date_type": "single"},
		"debug": {"parsed_start": "2024-06-01", "detected_family": "MAIS"}
	}`)}
	svc := NewQueryService(client, nil)

	result, err := svc.Ask(context.Background(), DomainReception, "reçu MAIS le 01/06/2024")
	require.NoError(t, err)

	assert.Equal(t, "reception", client.gotDomain)
	assert.Equal(t, "réception", result.DomainLabel)
	assert.Equal(t, "Résumé de la réception", result.Table.Title)
}

func TestQueryService_AskSniffsReceptionNarrative(t *testing.T) {
	client := &mockAnalyticsClient{mockQuery: respondWith(`{
		"computed": {"sum": 12, "count": 1},
		"llm_response": "La quantité réceptionnée est de 12 tonnes."
	}`)}

	result, err := NewQueryService(client, nil).Ask(context.Background(), DomainAuto, "q")
	require.NoError(t, err)

	assert.Equal(t, DomainReception, result.Domain)
	assert.Equal(t, "Statistiques de réception", result.Table.Title)
	assert.Equal(t, "La quantité réceptionnée est de 12 tonnes.", result.Response)
}

func TestQueryService_AskNarrativeOnly(t *testing.T) {
	client := &mockAnalyticsClient{mockQuery: respondWith(`{"response": "Famille non trouvée.", "execution_time": "0.01 secondes"}`)}

	result, err := NewQueryService(client, nil).Ask(context.Background(), DomainAuto, "q")
	require.NoError(t, err)

	assert.Nil(t, result.Table)
	assert.Empty(t, result.Shape)
	assert.Equal(t, "Famille non trouvée.", result.Response)
}

func TestQueryService_PayloadErrorTakesPrecedence(t *testing.T) {
	client := &mockAnalyticsClient{mockQuery: respondWith(`{
		"error": "Base de données indisponible",
		"response": "ignored",
		"computed": {"sum": 1, "count": 1, "date_type": "single"}
	}`)}

	result, err := NewQueryService(client, nil).Ask(context.Background(), DomainAuto, "q")
	require.NoError(t, err)

	assert.Equal(t, "Base de données indisponible", result.Error)
	assert.Nil(t, result.Table)
	assert.Empty(t, result.Response)
}

func TestQueryService_TransportErrorsBecomeMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"http status", &upstream.HTTPError{StatusCode: 502, Body: "Bad Gateway"}, metrics.OutcomeHTTPError},
		{"invalid json", fmt.Errorf("%w: <html>", upstream.ErrInvalidJSON), metrics.OutcomeInvalidJSON},
		{"transport", errors.New("dial tcp: connection refused"), metrics.OutcomeTransportErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := metrics.NewQueryMetrics(reg)
			client := &mockAnalyticsClient{mockQuery: func(context.Context, string, string) (*models.AnalyticsPayload, error) {
				return nil, tt.err
			}}

			result, err := NewQueryService(client, m).Ask(context.Background(), DomainAuto, "q")
			require.NoError(t, err)

			assert.Equal(t, ErrorMessagePrefix+tt.err.Error(), result.Error)
			assert.Nil(t, result.Table)
			assert.Equal(t, "consommation", result.DomainLabel)
			assert.Equal(t, outcomeOf(tt.err), tt.outcome)

			count, err := testutil.GatherAndCount(reg, "upstream_query_duration_seconds")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestQueryService_EmptyQuestion(t *testing.T) {
	client := &mockAnalyticsClient{mockQuery: respondWith(`{}`)}

	_, err := NewQueryService(client, nil).Ask(context.Background(), DomainAuto, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, client.gotQuestion, "backend must not be called")
}
